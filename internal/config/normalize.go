package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables that override file settings.
const (
	EnvNameDictionary        = "MEDREDACT_NAME_DICTIONARY"
	EnvNamePlaceholderPolicy = "MEDREDACT_NAME_PLACEHOLDER_POLICY"
	EnvLogLevel              = "MEDREDACT_LOG_LEVEL"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRedaction(); err != nil {
		return err
	}
	if c.Processing.Workers == 0 {
		c.Processing.Workers = defaultWorkers
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRedaction() error {
	r := &c.Redaction

	if value, ok := os.LookupEnv(EnvNameDictionary); ok && strings.TrimSpace(value) != "" {
		r.NameDictionaryPath = value
	}
	r.NameDictionaryPath = strings.TrimSpace(r.NameDictionaryPath)
	if r.NameDictionaryPath != "" {
		expanded, err := expandPath(r.NameDictionaryPath)
		if err != nil {
			return fmt.Errorf("redaction.name_dictionary_path: %w", err)
		}
		r.NameDictionaryPath = expanded
	}

	if value, ok := os.LookupEnv(EnvNamePlaceholderPolicy); ok && strings.TrimSpace(value) != "" {
		r.NamePlaceholderPolicy = value
	}
	r.NamePlaceholderPolicy = strings.ToLower(strings.TrimSpace(r.NamePlaceholderPolicy))
	if r.NamePlaceholderPolicy == "" {
		r.NamePlaceholderPolicy = defaultNamePlaceholderPolicy
	}

	r.NamePlaceholder = strings.TrimSpace(r.NamePlaceholder)
	if r.NamePlaceholder == "" {
		r.NamePlaceholder = defaultNamePlaceholder
	}
	r.NamePrefix = strings.TrimSpace(r.NamePrefix)
	if r.NamePrefix == "" {
		r.NamePrefix = defaultNamePrefix
	}
	if r.NameWidth == 0 {
		r.NameWidth = defaultNameWidth
	}
	r.IDPrefix = strings.TrimSpace(r.IDPrefix)
	if r.IDPrefix == "" {
		r.IDPrefix = defaultIDPrefix
	}
	if r.IDWidth == 0 {
		r.IDWidth = defaultIDWidth
	}

	r.PreservedTerms = dedupeTrimmed(r.PreservedTerms)
	r.PreservedPatterns = dedupeTrimmed(r.PreservedPatterns)
	if r.NameSuffixes != nil {
		r.NameSuffixes = dedupeTrimmed(r.NameSuffixes)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv(EnvLogLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func dedupeTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
