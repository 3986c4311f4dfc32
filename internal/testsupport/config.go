package testsupport

import (
	"path/filepath"
	"testing"

	"medredact/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a validated config seeded with unique temp directories
// per test. It applies any provided options before validation.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("validate test config: %v", err)
	}
	return builder.cfg
}

// WithDictionary writes names to a dictionary file under the test directory
// and points the config at it.
func WithDictionary(names ...string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "names.txt")
		WriteDictionary(b.t, path, names...)
		b.cfg.Redaction.NameDictionaryPath = path
	}
}

// WithPolicy selects the name placeholder policy.
func WithPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Redaction.NamePlaceholderPolicy = policy
	}
}

// WithPreservedTerms adds extra allowlist terms.
func WithPreservedTerms(terms ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Redaction.PreservedTerms = append(b.cfg.Redaction.PreservedTerms, terms...)
	}
}

// WithoutHistory disables run history recording.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
