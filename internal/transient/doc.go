// Package transient holds the process-lifetime resource stores backing queue
// items: the raw source files selected by the user and the converted outputs
// produced for them.
//
// Neither store is ever persisted. Raw file data exists only in memory;
// download entries additionally own a spool file on disk that serves as the
// revocable download reference and is removed when the entry is revoked.
// After the durable item list is reconciled, SyncWithActiveIDs trims both
// stores so they never outlive the items they back.
package transient
