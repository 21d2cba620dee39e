package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"openconvert/internal/catalog"
)

func TestNewNormalizes(t *testing.T) {
	c := catalog.New(map[string][]string{
		" PNG ": {"JPG", "webp", "jpg", "", "png"},
		"":      {"jpg"},
		"gif":   {"gif"},
	})

	if got := c.TargetsFor("png"); !reflect.DeepEqual(got, []string{"jpg", "webp"}) {
		t.Fatalf("unexpected png targets: %v", got)
	}
	if c.IsSupportedSource("gif") {
		t.Fatal("source with only a self-conversion should be dropped")
	}
	if got := c.Sources(); !reflect.DeepEqual(got, []string{"png"}) {
		t.Fatalf("unexpected sources: %v", got)
	}
}

func TestDetectSourceAppliesAliases(t *testing.T) {
	c := catalog.New(map[string][]string{
		"jpg":  {"png"},
		"tiff": {"png"},
	})

	cases := []struct {
		fileName string
		want     string
		ok       bool
	}{
		{"photo.jpeg", "jpg", true},
		{"photo.JPG", "jpg", true},
		{"scan.tif", "tiff", true},
		{"doc.psd", "", false},
		{"noextension", "", false},
		{"trailingdot.", "", false},
	}
	for _, tc := range cases {
		got, ok := c.DetectSource(tc.fileName)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("DetectSource(%q) = %q, %v; want %q, %v", tc.fileName, got, ok, tc.want, tc.ok)
		}
	}
}

func TestResolveTarget(t *testing.T) {
	c := catalog.New(map[string][]string{"png": {"jpg", "webp"}})

	if got := c.ResolveTarget("png", " JPG "); got != "jpg" {
		t.Fatalf("expected jpg, got %q", got)
	}
	if got := c.ResolveTarget("png", "gif"); got != "" {
		t.Fatalf("expected empty for invalid target, got %q", got)
	}
	if got := c.ResolveTarget("unknown", "jpg"); got != "" {
		t.Fatalf("expected empty for unknown source, got %q", got)
	}
}

func TestFetchParsesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"formats":{"PNG":["jpg","JPG","webp"]}}`))
	}))
	defer server.Close()

	c, err := catalog.Fetch(context.Background(), server.Client(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := c.TargetsFor("png"); !reflect.DeepEqual(got, []string{"jpg", "webp"}) {
		t.Fatalf("unexpected targets: %v", got)
	}
}

func TestFetchRejectsBadResponses(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"missing formats", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{}`)) }},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{`)) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()
			if _, err := catalog.Fetch(context.Background(), server.Client(), server.URL); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "catalog.json")
	original := catalog.New(map[string][]string{"png": {"webp", "jpg"}})

	if err := catalog.SaveFile(path, original); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	loaded, err := catalog.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, original) {
		t.Fatalf("round trip mismatch: %v vs %v", loaded, original)
	}
}
