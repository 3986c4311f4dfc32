// Package logging assembles structured slog loggers for medredact.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and tags log lines with the current run ID from the context. Both
// handlers withhold the values of attributes that could carry patient text
// (text, token, name, ...), so callers can log counts and decisions freely.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
