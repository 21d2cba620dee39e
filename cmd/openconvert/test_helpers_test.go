package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	outputDir  string
	sourceDir  string
}

// setupCLITestEnv points HOME at a temp directory, starts fake converter and
// formats endpoints, and writes a config file binding everything together.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", base)

	formats := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"formats": map[string][]string{
				"png": {"jpg", "webp"},
				"jpg": {"png"},
			},
		})
	}))
	t.Cleanup(formats.Close)

	converter := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		to := r.FormValue("to")
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		stem := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"fileName":      stem + "." + to,
			"mimeType":      "application/octet-stream",
			"contentBase64": base64.StdEncoding.EncodeToString(data),
		})
	}))
	t.Cleanup(converter.Close)

	outputDir := filepath.Join(base, "out")
	sourceDir := filepath.Join(base, "src")
	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		t.Fatalf("create source dir: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
state_dir = %q
spool_dir = %q
output_dir = %q

[converter]
convert_url = %q
formats_url = %q
request_timeout = 10

[page]
source_page_template = "/convert/sourceplaceholder"
`,
		filepath.Join(base, "state"),
		filepath.Join(base, "spool"),
		outputDir,
		converter.URL,
		formats.URL,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		outputDir:  outputDir,
		sourceDir:  sourceDir,
	}
}

func (env *cliTestEnv) writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(env.sourceDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()

	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}
