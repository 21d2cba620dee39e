package transient

import (
	"fmt"
	"os"
)

// Download is a converted output held for an item: its content, the spool
// file acting as a revocable download reference, and output metadata.
type Download struct {
	Content  []byte
	Ref      string
	FileName string
	MimeType string
}

// DownloadEntry pairs a download with the item id it belongs to.
type DownloadEntry struct {
	ItemID   string
	Download Download
}

// DownloadStore maps queue item ids to their produced downloads. At most one
// download exists per id; replacing it revokes the previous spool file first.
type DownloadStore struct {
	spoolDir string
	entries  map[string]Download
}

// NewDownloadStore constructs a download store spooling content under dir.
func NewDownloadStore(spoolDir string) *DownloadStore {
	return &DownloadStore{
		spoolDir: spoolDir,
		entries:  make(map[string]Download),
	}
}

// Set stores a download for an item id, revoking any previous entry so the
// old spool file is released before the new one replaces it.
func (s *DownloadStore) Set(itemID, fileName, mimeType string, content []byte) (Download, error) {
	s.Revoke(itemID)

	if err := os.MkdirAll(s.spoolDir, 0o755); err != nil {
		return Download{}, fmt.Errorf("create spool directory: %w", err)
	}
	ref, err := os.CreateTemp(s.spoolDir, "download-*")
	if err != nil {
		return Download{}, fmt.Errorf("create spool file: %w", err)
	}
	if _, err := ref.Write(content); err != nil {
		_ = ref.Close()
		_ = os.Remove(ref.Name())
		return Download{}, fmt.Errorf("write spool file: %w", err)
	}
	if err := ref.Close(); err != nil {
		_ = os.Remove(ref.Name())
		return Download{}, fmt.Errorf("close spool file: %w", err)
	}

	download := Download{
		Content:  content,
		Ref:      ref.Name(),
		FileName: fileName,
		MimeType: mimeType,
	}
	s.entries[itemID] = download
	return download, nil
}

// Get returns the download for an item id.
func (s *DownloadStore) Get(itemID string) (Download, bool) {
	download, ok := s.entries[itemID]
	return download, ok
}

// Has reports whether a download exists for an item id.
func (s *DownloadStore) Has(itemID string) bool {
	_, ok := s.entries[itemID]
	return ok
}

// List returns the live downloads for the given ids, in id order. Ids with
// no download are skipped.
func (s *DownloadStore) List(itemIDs []string) []DownloadEntry {
	entries := make([]DownloadEntry, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		download, ok := s.entries[itemID]
		if !ok {
			continue
		}
		entries = append(entries, DownloadEntry{ItemID: itemID, Download: download})
	}
	return entries
}

// Revoke releases the spool file and removes the entry for an item id.
// Calling it for an id with no entry is a no-op.
func (s *DownloadStore) Revoke(itemID string) {
	download, ok := s.entries[itemID]
	if !ok {
		return
	}
	_ = os.Remove(download.Ref)
	delete(s.entries, itemID)
}

// SyncWithActiveIDs revokes every entry whose id is not active.
func (s *DownloadStore) SyncWithActiveIDs(activeIDs map[string]struct{}) {
	for itemID := range s.entries {
		if _, ok := activeIDs[itemID]; !ok {
			s.Revoke(itemID)
		}
	}
}

// SpoolDir returns the directory spool files are written to.
func (s *DownloadStore) SpoolDir() string {
	return s.spoolDir
}
