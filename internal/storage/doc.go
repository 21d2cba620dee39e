// Package storage persists the durable projection of the upload queue.
//
// Two key-value backends are tried in order: a SQLite database as the primary
// area and a JSON state file as the secondary fallback, both living in the
// configured state directory. The Codec serializes queue items to a JSON
// array under a single well-known key, degrades to the fallback area when the
// primary fails, and self-heals by clearing both areas whenever the persisted
// payload is corrupt. Persistence is best-effort by design: a write failure
// on both areas is swallowed, never surfaced to the user flow.
package storage
