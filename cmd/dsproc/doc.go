// Package main hosts the dsproc CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into dataset
// operations: listing groups, renumbering, size sorting, tag filtering,
// backups, and preflight checks. It centralizes configuration resolution,
// structured logging setup, and background job supervision so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
