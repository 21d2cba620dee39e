// Package queue owns the upload queue: the ordered item list, the per-item
// status lifecycle, and the sequential conversion protocol.
//
// The Engine is the only writer of the item list and of the transient
// resource stores backing it. Activation reconciles persisted state against
// the live catalog and prunes items whose raw file did not survive the
// session boundary; conversion processes the pending work set strictly one
// item at a time with failures isolated to the offending item. Every mutation
// re-renders through the injected Renderer and persists the durable
// projection through the storage codec.
//
// Treat this package as the single source of truth for queue semantics; the
// CLI and the presentation adapter consume it, never mutate around it.
package queue
