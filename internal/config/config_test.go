package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"openconvert/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "openconvert")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.SpoolDir != filepath.Join(tempHome, ".cache", "openconvert", "spool") {
		t.Fatalf("unexpected spool dir: %q", cfg.Paths.SpoolDir)
	}
	if cfg.Converter.ConvertURL != "" {
		t.Fatalf("expected empty convert url by default, got %q", cfg.Converter.ConvertURL)
	}
	if cfg.Converter.RequestTimeout != 120 {
		t.Fatalf("unexpected request timeout: %d", cfg.Converter.RequestTimeout)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.SpoolDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
state_dir = "` + dir + `/state"
spool_dir = "` + dir + `/spool"
output_dir = "` + dir + `/out"

[converter]
convert_url = "http://127.0.0.1:9000/convert"
formats_url = "http://127.0.0.1:9000/conversions"

[page]
source = " PNG "
target = "JPG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%q", exists, resolved)
	}
	if cfg.Page.Source != "png" || cfg.Page.Target != "jpg" {
		t.Fatalf("page context not normalized: %+v", cfg.Page)
	}
	if cfg.Converter.ConvertURL != "http://127.0.0.1:9000/convert" {
		t.Fatalf("unexpected convert url: %q", cfg.Converter.ConvertURL)
	}
	if got := cfg.SourcePageURL("webp"); got != "/convert/webp" {
		t.Fatalf("unexpected source page url: %q", got)
	}
	if got := cfg.CatalogCachePath(); got != filepath.Join(dir, "state", "catalog.json") {
		t.Fatalf("unexpected catalog cache path: %q", got)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "relative convert url",
			content: "[converter]\nconvert_url = \"convert\"\n",
			want:    "convert_url",
		},
		{
			name:    "bad log format",
			content: "[logging]\nformat = \"xml\"\n",
			want:    "logging.format",
		},
		{
			name:    "template without placeholder",
			content: "[page]\nsource_page_template = \"/convert/fixed\"\n",
			want:    "sourceplaceholder",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[converter]") {
		t.Fatal("sample config missing converter section")
	}
}
