// Package config loads, normalizes, and validates medredact configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment overrides such as
// MEDREDACT_NAME_DICTIONARY. Variables may also come from a .env file next to
// the config file or in the working directory.
//
// Always obtain settings through this package so the redaction engine
// receives compiled preserve patterns, canonical placeholder policies, and
// clear validation errors.
package config
