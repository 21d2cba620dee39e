package transient

// SourceFile is a user-selected file held in memory for the session.
type SourceFile struct {
	Name string
	Data []byte
}

// FileStore maps queue item ids to their raw source files.
type FileStore struct {
	entries map[string]SourceFile
}

// NewFileStore constructs an empty raw-file store.
func NewFileStore() *FileStore {
	return &FileStore{entries: make(map[string]SourceFile)}
}

// Set stores the raw file for an item id.
func (s *FileStore) Set(itemID string, file SourceFile) {
	s.entries[itemID] = file
}

// Get returns the raw file for an item id.
func (s *FileStore) Get(itemID string) (SourceFile, bool) {
	file, ok := s.entries[itemID]
	return file, ok
}

// Delete removes the raw file for an item id.
func (s *FileStore) Delete(itemID string) {
	delete(s.entries, itemID)
}

// Has reports whether a raw file exists for an item id.
func (s *FileStore) Has(itemID string) bool {
	_, ok := s.entries[itemID]
	return ok
}

// SyncWithActiveIDs removes every entry whose id is not active.
func (s *FileStore) SyncWithActiveIDs(activeIDs map[string]struct{}) {
	for itemID := range s.entries {
		if _, ok := activeIDs[itemID]; !ok {
			delete(s.entries, itemID)
		}
	}
}
