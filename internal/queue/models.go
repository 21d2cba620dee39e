package queue

import (
	"strings"

	"openconvert/internal/storage"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusReady      Status = "READY"
	StatusProcessing Status = "PROCESSING"
	StatusDone       Status = "DONE"
	StatusError      Status = "ERROR"
)

var allStatuses = []Status{
	StatusReady,
	StatusProcessing,
	StatusDone,
	StatusError,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Item represents one user-queued conversion task. ID is the join key into
// the transient resource stores and stays stable for the item's lifetime.
type Item struct {
	ID             string
	FileName       string
	Source         string
	Target         string
	Status         Status
	ErrorMessage   string
	OutputFileName string
}

// resetToReady returns the item to READY, clearing the mutually exclusive
// error and output fields.
func (i *Item) resetToReady() {
	i.Status = StatusReady
	i.ErrorMessage = ""
	i.OutputFileName = ""
}

// setError marks the item failed with the given message.
func (i *Item) setError(message string) {
	i.Status = StatusError
	i.ErrorMessage = message
	i.OutputFileName = ""
}

// setDone marks the item converted with the given output file name.
func (i *Item) setDone(outputFileName string) {
	i.Status = StatusDone
	i.ErrorMessage = ""
	i.OutputFileName = outputFileName
}

// persisted returns the durable projection of the item.
func (i Item) persisted() storage.PersistedItem {
	return storage.PersistedItem{
		ID:       i.ID,
		FileName: i.FileName,
		Source:   i.Source,
		Target:   i.Target,
	}
}

// itemFromPersisted rehydrates an item as READY; status, error, and output
// are derived later from the transient stores.
func itemFromPersisted(p storage.PersistedItem) Item {
	return Item{
		ID:       p.ID,
		FileName: p.FileName,
		Source:   p.Source,
		Target:   p.Target,
		Status:   StatusReady,
	}
}

// Snapshot is the rendered view input: a copy of the item list plus the
// queue-level state the presentation adapter derives flags from.
type Snapshot struct {
	Items       []Item
	Banner      string
	Converting  bool
	HasDownload map[string]bool
}
