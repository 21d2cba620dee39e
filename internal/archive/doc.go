// Package archive bundles converted outputs into a single zip download,
// sanitizing entry names and de-duplicating collisions.
package archive
