// Package testsupport provides shared helpers for package tests: storage
// codecs over temp directories, sample catalogs, and recording fakes for the
// engine's collaborators.
package testsupport

import (
	"path/filepath"
	"sync"
	"testing"

	"openconvert/internal/catalog"
	"openconvert/internal/queue"
	"openconvert/internal/storage"
	"openconvert/internal/transient"
)

// NewCodec returns a codec over a fresh SQLite primary and file secondary,
// both living in a per-test temp directory.
func NewCodec(t testing.TB) *storage.Codec {
	t.Helper()

	dir := t.TempDir()
	primary, err := storage.OpenSQLite(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("open sqlite backend: %v", err)
	}
	t.Cleanup(func() { _ = primary.Close() })

	secondary := storage.NewFileBackend(filepath.Join(dir, "state.json"))
	return storage.NewCodec(nil, primary, secondary)
}

// SampleCatalog returns a small normalized catalog used across tests.
func SampleCatalog() catalog.Catalog {
	return catalog.New(map[string][]string{
		"png":  {"jpg", "webp"},
		"jpg":  {"png", "webp"},
		"tiff": {"png"},
	})
}

// RecordingRenderer captures every snapshot the engine renders.
type RecordingRenderer struct {
	mu        sync.Mutex
	snapshots []queue.Snapshot
}

// Render implements queue.Renderer.
func (r *RecordingRenderer) Render(snapshot queue.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
}

// Snapshots returns the captured snapshots in render order.
func (r *RecordingRenderer) Snapshots() []queue.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]queue.Snapshot, len(r.snapshots))
	copy(cp, r.snapshots)
	return cp
}

// Last returns the most recent snapshot, or a zero snapshot when none exists.
func (r *RecordingRenderer) Last() queue.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return queue.Snapshot{}
	}
	return r.snapshots[len(r.snapshots)-1]
}

// RecordingNavigator captures navigation requests.
type RecordingNavigator struct {
	mu     sync.Mutex
	visits []string
}

// Visit implements queue.Navigator.
func (n *RecordingNavigator) Visit(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visits = append(n.visits, url)
}

// Visits returns the captured navigation targets in order.
func (n *RecordingNavigator) Visits() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := make([]string, len(n.visits))
	copy(cp, n.visits)
	return cp
}

// NewStores returns fresh transient stores spooling under a temp directory.
func NewStores(t testing.TB) (*transient.FileStore, *transient.DownloadStore) {
	t.Helper()
	return transient.NewFileStore(), transient.NewDownloadStore(t.TempDir())
}
