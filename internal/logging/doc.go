// Package logging constructs the process-wide slog logger and provides the
// typed attribute helpers used throughout the codebase.
//
// Components never build their own handlers; they receive a logger and scope
// it with NewComponentLogger so every record carries a component attribute.
package logging
