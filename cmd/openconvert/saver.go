package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"openconvert/internal/archive"
)

// dirSaver writes produced downloads into a destination directory without
// clobbering files already there.
type dirSaver struct {
	dir   string
	saved []string
}

// Save implements queue.Saver by copying the spooled output into the
// destination directory under a collision-free name.
func (s *dirSaver) Save(fileName, _, ref string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return fmt.Errorf("read spooled output: %w", err)
	}

	name := archive.SanitizeFileName(fileName, "converted")
	target, err := uniquePath(s.dir, name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	s.saved = append(s.saved, target)
	return nil
}

// uniquePath returns dir/name, suffixing "(2)", "(3)" and so on before the
// extension until the path is free.
func uniquePath(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for counter := 2; ; counter++ {
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check output path: %w", err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s(%d)%s", base, counter, ext))
	}
}
