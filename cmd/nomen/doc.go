// Package main hosts the nomen CLI entrypoint and command graph.
//
// The Cobra-based command tree drives batch matching runs, review of
// deferred entries, manual mapping edits, mapping validation, and
// configuration scaffolding. It centralizes configuration resolution,
// store access, and structured logging setup so subcommands can focus on
// user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags
// here.
package main
