package storage

import "context"

// StateKey is the single well-known key the queue state is persisted under.
const StateKey = "openconvert.upload_queue_state"

// Backend is a string key-value storage area. Operations return errors rather
// than panicking so the codec can express its fallback chain as a plain loop.
type Backend interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores the value for key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes the key, tolerating absence.
	Remove(ctx context.Context, key string) error
	// Name identifies the backend in log output.
	Name() string
}
