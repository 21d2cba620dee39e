package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"openconvert/internal/storage"
)

type failingBackend struct{}

func (failingBackend) Name() string { return "failing" }

func (failingBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("backend unavailable")
}

func (failingBackend) Set(context.Context, string, string) error {
	return errors.New("backend unavailable")
}

func (failingBackend) Remove(context.Context, string) error {
	return errors.New("backend unavailable")
}

func newTestBackends(t *testing.T) (*storage.SQLiteBackend, *storage.FileBackend) {
	t.Helper()
	dir := t.TempDir()
	primary, err := storage.OpenSQLite(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = primary.Close() })
	return primary, storage.NewFileBackend(filepath.Join(dir, "state.json"))
}

func TestCodecRoundTrip(t *testing.T) {
	primary, secondary := newTestBackends(t)
	codec := storage.NewCodec(nil, primary, secondary)
	ctx := context.Background()

	items := []storage.PersistedItem{
		{ID: "a", FileName: "photo.png", Source: "png", Target: "jpg"},
		{ID: "b", FileName: "scan.tiff", Source: "tiff", Target: ""},
	}
	codec.Save(ctx, items)

	loaded := codec.Load(ctx)
	if !reflect.DeepEqual(loaded, items) {
		t.Fatalf("round trip mismatch: %+v vs %+v", loaded, items)
	}
}

func TestCodecSaveEmptyClearsBothAreas(t *testing.T) {
	primary, secondary := newTestBackends(t)
	codec := storage.NewCodec(nil, primary, secondary)
	ctx := context.Background()

	codec.Save(ctx, []storage.PersistedItem{{ID: "a", FileName: "f.png", Source: "png"}})
	codec.Save(ctx, nil)

	if got := codec.Load(ctx); len(got) != 0 {
		t.Fatalf("expected empty queue after clearing save, got %+v", got)
	}
	if _, ok, err := primary.Get(ctx, storage.StateKey); err != nil || ok {
		t.Fatalf("expected primary cleared: ok=%v err=%v", ok, err)
	}
	if _, ok, err := secondary.Get(ctx, storage.StateKey); err != nil || ok {
		t.Fatalf("expected secondary cleared: ok=%v err=%v", ok, err)
	}
}

func TestCodecFallsBackToSecondary(t *testing.T) {
	_, secondary := newTestBackends(t)
	ctx := context.Background()

	writer := storage.NewCodec(nil, failingBackend{}, secondary)
	items := []storage.PersistedItem{{ID: "a", FileName: "f.png", Source: "png", Target: "jpg"}}
	writer.Save(ctx, items)

	if _, ok, err := secondary.Get(ctx, storage.StateKey); err != nil || !ok {
		t.Fatalf("expected state written to secondary: ok=%v err=%v", ok, err)
	}

	reader := storage.NewCodec(nil, failingBackend{}, secondary)
	if got := reader.Load(ctx); !reflect.DeepEqual(got, items) {
		t.Fatalf("expected items from secondary, got %+v", got)
	}
}

func TestCodecSurvivesTotalWriteFailure(t *testing.T) {
	codec := storage.NewCodec(nil, failingBackend{}, failingBackend{})
	codec.Save(context.Background(), []storage.PersistedItem{{ID: "a", FileName: "f.png", Source: "png"}})
	codec.Clear(context.Background())
}

func TestCodecSelfHealsCorruptState(t *testing.T) {
	primary, secondary := newTestBackends(t)
	codec := storage.NewCodec(nil, primary, secondary)
	ctx := context.Background()

	for _, payload := range []string{"{not json", `{"an":"object"}`} {
		if err := primary.Set(ctx, storage.StateKey, payload); err != nil {
			t.Fatalf("seed primary: %v", err)
		}
		if err := secondary.Set(ctx, storage.StateKey, payload); err != nil {
			t.Fatalf("seed secondary: %v", err)
		}

		if got := codec.Load(ctx); len(got) != 0 {
			t.Fatalf("expected empty queue for payload %q, got %+v", payload, got)
		}
		if _, ok, _ := primary.Get(ctx, storage.StateKey); ok {
			t.Fatalf("expected primary cleared for payload %q", payload)
		}
		if _, ok, _ := secondary.Get(ctx, storage.StateKey); ok {
			t.Fatalf("expected secondary cleared for payload %q", payload)
		}
	}
}

func TestCodecDropsInvalidElements(t *testing.T) {
	primary, secondary := newTestBackends(t)
	codec := storage.NewCodec(nil, primary, secondary)
	ctx := context.Background()

	payload := `[
        {"id":"good","fileName":"a.png","source":"png","target":"jpg"},
        {"id":"","fileName":"b.png","source":"png","target":""},
        {"id":"no-name","fileName":"  ","source":"png","target":""},
        42,
        {"id":"bad-target","fileName":"c.png","source":"png","target":7}
    ]`
	if err := primary.Set(ctx, storage.StateKey, payload); err != nil {
		t.Fatalf("seed primary: %v", err)
	}

	got := codec.Load(ctx)
	if len(got) != 1 || got[0].ID != "good" {
		t.Fatalf("expected only the valid element, got %+v", got)
	}
}
