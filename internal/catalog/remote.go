package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// formatsEnvelope mirrors the converter's conversions endpoint response.
type formatsEnvelope struct {
	Formats map[string][]string `json:"formats"`
}

// Fetch retrieves the format catalog from the converter's conversions
// endpoint and returns it normalized.
func Fetch(ctx context.Context, client *http.Client, formatsURL string) (Catalog, error) {
	if strings.TrimSpace(formatsURL) == "" {
		return nil, errors.New("formats endpoint is not configured")
	}
	if client == nil {
		client = http.DefaultClient
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, formatsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build formats request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch formats: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read formats response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("formats endpoint returned status %d", response.StatusCode)
	}

	var envelope formatsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode formats response: %w", err)
	}
	if envelope.Formats == nil {
		return nil, errors.New(`formats response is missing the "formats" field`)
	}

	return New(envelope.Formats), nil
}

// LoadFile reads a cached catalog from a JSON file written by SaveFile.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog cache: %w", err)
	}
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog cache: %w", err)
	}
	return New(raw), nil
}

// SaveFile writes the catalog to a JSON cache file.
func SaveFile(path string, c Catalog) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog cache: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog cache directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog cache: %w", err)
	}
	return nil
}
