// Package main hosts the openconvert CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into queue
// sessions: file intake, sequential conversion against the remote endpoint,
// output saving and bundling, catalog refreshes, and configuration
// scaffolding. It centralizes configuration resolution, session locking, and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
