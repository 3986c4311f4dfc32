package config

const (
	defaultStateDir              = "~/.local/share/medredact"
	defaultLogDir                = "~/.local/share/medredact/logs"
	defaultNamePlaceholderPolicy = PolicyFixed
	defaultNamePlaceholder       = "NAME_REDACTED"
	defaultNamePrefix            = "PERSON_"
	defaultNameWidth             = 3
	defaultIDPrefix              = "ID_"
	defaultIDWidth               = 6
	defaultWorkers               = 4
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Placeholder policies for name spans.
const (
	PolicyFixed  = "fixed"
	PolicyUnique = "unique"
)

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Redaction: Redaction{
			NamePlaceholderPolicy: defaultNamePlaceholderPolicy,
			NamePlaceholder:       defaultNamePlaceholder,
			NamePrefix:            defaultNamePrefix,
			NameWidth:             defaultNameWidth,
			IDPrefix:              defaultIDPrefix,
			IDWidth:               defaultIDWidth,
			StripArtifacts:        true,
		},
		Processing: Processing{
			Workers: defaultWorkers,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
