// Package logging builds the slog loggers used across animutools.
//
// Two output formats are supported: a compact console format for
// interactive use and JSON for log collection. The "auto" format picks
// between them based on whether stderr is a terminal.
package logging
