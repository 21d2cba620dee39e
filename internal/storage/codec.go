package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"openconvert/internal/logging"
)

// PersistedItem is the durable projection of a queue item. Status, error, and
// output are derived from transient resources and are never persisted.
type PersistedItem struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	Source   string `json:"source"`
	Target   string `json:"target"`
}

// Codec serializes the queue's durable projection to an ordered chain of
// storage backends.
type Codec struct {
	backends []Backend
	logger   *slog.Logger
}

// NewCodec constructs a codec over the given backends, tried in order.
func NewCodec(logger *slog.Logger, backends ...Backend) *Codec {
	return &Codec{
		backends: backends,
		logger:   logging.Or(logger),
	}
}

// Load reads the persisted queue items, trying each backend in order and
// using the first non-empty payload. A corrupt payload (invalid JSON or not
// an array) clears both storage areas and yields an empty queue. Elements
// failing structural validation are dropped silently.
func (c *Codec) Load(ctx context.Context) []PersistedItem {
	raw := c.readState(ctx)
	if raw == "" {
		return nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		c.logger.Warn("clearing corrupt queue state", "error", err)
		c.Clear(ctx)
		return nil
	}

	items := make([]PersistedItem, 0, len(elements))
	for _, element := range elements {
		var item PersistedItem
		if err := json.Unmarshal(element, &item); err != nil {
			continue
		}
		if !validPersistedItem(item) {
			continue
		}
		items = append(items, item)
	}
	return items
}

// Save writes the durable projection, falling back to the secondary area when
// the primary fails. An empty list clears both areas. A failure on every
// backend is swallowed; in-memory state stays authoritative for the session.
func (c *Codec) Save(ctx context.Context, items []PersistedItem) {
	if len(items) == 0 {
		c.Clear(ctx)
		return
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		c.logger.Warn("encode queue state", "error", err)
		return
	}

	for _, backend := range c.backends {
		if err := backend.Set(ctx, StateKey, string(encoded)); err != nil {
			c.logger.Debug("persist queue state failed", "backend", backend.Name(), "error", err)
			continue
		}
		return
	}
	c.logger.Warn("queue state not persisted, all storage areas failed")
}

// Clear removes the state key from every backend, tolerating absence and
// individual failures.
func (c *Codec) Clear(ctx context.Context) {
	for _, backend := range c.backends {
		if err := backend.Remove(ctx, StateKey); err != nil {
			c.logger.Debug("clear queue state failed", "backend", backend.Name(), "error", err)
		}
	}
}

func (c *Codec) readState(ctx context.Context) string {
	for _, backend := range c.backends {
		value, ok, err := backend.Get(ctx, StateKey)
		if err != nil {
			c.logger.Debug("read queue state failed", "backend", backend.Name(), "error", err)
			continue
		}
		if !ok || value == "" {
			continue
		}
		return value
	}
	return ""
}

func validPersistedItem(item PersistedItem) bool {
	return strings.TrimSpace(item.ID) != "" &&
		strings.TrimSpace(item.FileName) != "" &&
		strings.TrimSpace(item.Source) != ""
}
