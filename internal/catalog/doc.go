// Package catalog owns the source-to-targets format mapping the upload queue
// validates conversions against.
//
// A Catalog is always normalized: lowercase trimmed tokens, deduplicated and
// sorted target lists, no self-conversions. The package also derives source
// formats from file names (with extension aliases such as jpeg->jpg), fetches
// the catalog from the converter's conversions endpoint, and caches it to a
// JSON file so sessions can run offline.
package catalog
