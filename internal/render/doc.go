// Package render turns engine snapshots into display-ready view models. It
// is purely computational: the command layer decides how views reach the
// terminal.
package render
