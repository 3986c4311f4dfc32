package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"medredact/internal/allowlist"
)

const maxPlaceholderWidth = 9

// Validate ensures the configuration is usable. It also compiles
// redaction.preserved_patterns for PreservePatterns.
func (c *Config) Validate() error {
	if err := c.validateRedaction(); err != nil {
		return err
	}
	if c.Processing.Workers < 1 {
		return errors.New("processing.workers must be >= 1")
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRedaction() error {
	r := c.Redaction
	switch r.NamePlaceholderPolicy {
	case PolicyFixed, PolicyUnique:
	default:
		return fmt.Errorf("redaction.name_placeholder_policy must be %q or %q, got %q", PolicyFixed, PolicyUnique, r.NamePlaceholderPolicy)
	}
	if err := validatePlaceholderText("redaction.name_placeholder", r.NamePlaceholder); err != nil {
		return err
	}
	if err := validatePlaceholderText("redaction.name_prefix", r.NamePrefix); err != nil {
		return err
	}
	if err := validatePlaceholderText("redaction.id_prefix", r.IDPrefix); err != nil {
		return err
	}
	if err := ensureWidth("redaction.name_width", r.NameWidth); err != nil {
		return err
	}
	if err := ensureWidth("redaction.id_width", r.IDWidth); err != nil {
		return err
	}

	patterns, err := allowlist.CompilePatterns(r.PreservedPatterns)
	if err != nil {
		return fmt.Errorf("redaction.preserved_patterns: %w", err)
	}
	c.patterns = patterns
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
}

func validatePlaceholderText(key, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s must be set", key)
	}
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%s must not contain whitespace", key)
	}
	return nil
}

func ensureWidth(key string, width int) error {
	if width < 1 || width > maxPlaceholderWidth {
		return fmt.Errorf("%s must be between 1 and %d", key, maxPlaceholderWidth)
	}
	return nil
}
