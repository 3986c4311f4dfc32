// Package history keeps an audit trail of sanitization runs in SQLite.
//
// Rows carry counts, file names, and paths only. Source or sanitized text is
// never written to the database.
package history
