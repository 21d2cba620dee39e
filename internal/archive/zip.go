package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Entry is one file destined for the archive.
type Entry struct {
	FileName string
	Data     []byte
}

var (
	unsafeChars  = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// SanitizeFileName makes a file name safe as a zip entry: path separators and
// other reserved characters become underscores, whitespace runs collapse to a
// single space, and an empty result falls back to the given default.
func SanitizeFileName(name, fallback string) string {
	cleaned := unsafeChars.ReplaceAllString(name, "_")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || strings.Trim(cleaned, "._") == "" {
		return fallback
	}
	return cleaned
}

// Build writes the entries into a zip stream. Entry names are sanitized and
// collisions renamed "name(2).ext", "name(3).ext" and so on, preserving entry
// order. Building an empty archive is an error.
func Build(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return errors.New("archive: no entries to bundle")
	}

	writer := zip.NewWriter(w)
	seen := make(map[string]int, len(entries))

	for i, entry := range entries {
		name := SanitizeFileName(entry.FileName, fmt.Sprintf("file-%d", i+1))
		name = uniqueName(name, seen)

		file, err := writer.Create(name)
		if err != nil {
			return fmt.Errorf("archive: add %s: %w", name, err)
		}
		if _, err := file.Write(entry.Data); err != nil {
			return fmt.Errorf("archive: write %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("archive: finalize: %w", err)
	}
	return nil
}

func uniqueName(name string, seen map[string]int) string {
	key := strings.ToLower(name)
	count := seen[key]
	seen[key] = count + 1
	if count == 0 {
		return name
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for {
		count++
		candidate := fmt.Sprintf("%s(%d)%s", base, count, ext)
		candidateKey := strings.ToLower(candidate)
		if seen[candidateKey] == 0 {
			seen[candidateKey] = 1
			return candidate
		}
	}
}

// FileName builds the archive's own download name for a point in time,
// for example "openconvert-20260827-1415.zip".
func FileName(now time.Time) string {
	return "openconvert-" + now.Format("20060102-1504") + ".zip"
}
