package catalog

import (
	"sort"
	"strings"
)

// Catalog maps a source format token to the target formats it can be
// converted to. Instances built through this package are normalized.
type Catalog map[string][]string

// extensionAliases maps file extensions to their canonical format token.
var extensionAliases = map[string]string{
	"jpeg": "jpg",
	"tif":  "tiff",
}

// NormalizeFormat lowercases and trims a format token.
func NormalizeFormat(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// New builds a normalized catalog from a raw source-to-targets mapping.
// Empty tokens and self-conversions are dropped, targets are deduplicated
// and sorted, and sources with no remaining targets are omitted.
func New(raw map[string][]string) Catalog {
	normalized := make(Catalog, len(raw))
	for source, targets := range raw {
		normalizedSource := NormalizeFormat(source)
		if normalizedSource == "" {
			continue
		}
		seen := make(map[string]struct{}, len(targets))
		cleaned := make([]string, 0, len(targets))
		for _, target := range targets {
			normalizedTarget := NormalizeFormat(target)
			if normalizedTarget == "" || normalizedTarget == normalizedSource {
				continue
			}
			if _, dup := seen[normalizedTarget]; dup {
				continue
			}
			seen[normalizedTarget] = struct{}{}
			cleaned = append(cleaned, normalizedTarget)
		}
		if len(cleaned) == 0 {
			continue
		}
		sort.Strings(cleaned)
		normalized[normalizedSource] = cleaned
	}
	return normalized
}

// Sources returns the supported source formats in sorted order.
func (c Catalog) Sources() []string {
	sources := make([]string, 0, len(c))
	for source := range c {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// IsSupportedSource reports whether a format token is a catalog key.
func (c Catalog) IsSupportedSource(format string) bool {
	_, ok := c[format]
	return ok
}

// TargetsFor returns the valid target formats for a source, or nil when the
// source is unknown.
func (c Catalog) TargetsFor(source string) []string {
	targets, ok := c[source]
	if !ok {
		return nil
	}
	cp := make([]string, len(targets))
	copy(cp, targets)
	return cp
}

// ResolveTarget normalizes a candidate target and returns it when it is a
// valid target for the source, else the empty string.
func (c Catalog) ResolveTarget(source, candidate string) string {
	normalized := NormalizeFormat(candidate)
	if normalized == "" {
		return ""
	}
	for _, target := range c[source] {
		if target == normalized {
			return normalized
		}
	}
	return ""
}

// DetectSource derives the source format from a file name's extension,
// applying known aliases. It returns false when the file has no extension or
// the derived format is not a supported source.
func (c Catalog) DetectSource(fileName string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(fileName))
	separator := strings.LastIndex(normalized, ".")
	if separator < 0 || separator == len(normalized)-1 {
		return "", false
	}

	extension := normalized[separator+1:]
	if alias, ok := extensionAliases[extension]; ok {
		extension = alias
	}
	if !c.IsSupportedSource(extension) {
		return "", false
	}
	return extension, true
}
