// Package redact removes identity numbers and person names from document text.
//
// An Engine holds the read-only collaborators (allowlist, name classifier,
// normalizer) and is safe for concurrent use. Every call to Sanitize or
// SanitizeText creates a fresh per-document state, so placeholder counters
// always start at 1 and never leak between documents.
//
// Processing order for one document:
//
//	normalize -> identity numbers -> per token: preserve | name span | pass -> rejoin
//
// Placeholders carry no encoding of the original text.
package redact

import (
	"log/slog"
	"strings"

	"medredact/internal/allowlist"
	"medredact/internal/config"
	"medredact/internal/document"
	"medredact/internal/logging"
	"medredact/internal/names"
	"medredact/internal/normalize"
)

// Options configures an Engine.
type Options struct {
	Placeholders Placeholders
	Normalize    normalize.Options
}

// Report counts what one sanitization changed. It never contains source text.
type Report struct {
	IDs        int `json:"ids"`
	NameSpans  int `json:"name_spans"`
	NameTokens int `json:"name_tokens"`
	Preserved  int `json:"preserved"`
	Tokens     int `json:"tokens"`
	// Recovered counts tokens passed through after a classifier failure.
	Recovered int `json:"recovered,omitempty"`
}

// Add accumulates other into r.
func (r *Report) Add(other Report) {
	r.IDs += other.IDs
	r.NameSpans += other.NameSpans
	r.NameTokens += other.NameTokens
	r.Preserved += other.Preserved
	r.Tokens += other.Tokens
	r.Recovered += other.Recovered
}

// Changed reports whether anything was redacted.
func (r Report) Changed() bool {
	return r.IDs > 0 || r.NameSpans > 0
}

// Engine sanitizes documents. It is immutable after construction.
type Engine struct {
	preserve   *allowlist.Set
	classifier *names.Classifier
	normalizer normalize.Normalizer
	ph         Placeholders
	logger     *slog.Logger
}

// New returns an Engine. A nil preserve set selects the built-in allowlist
// and a nil classifier uses an empty dictionary with the default suffixes.
// Zero-valued placeholder fields fall back to DefaultPlaceholders.
func New(preserve *allowlist.Set, classifier *names.Classifier, opts Options, logger *slog.Logger) *Engine {
	if preserve == nil {
		preserve = allowlist.Default()
	}
	if classifier == nil {
		classifier = names.NewClassifier(names.NewDictionary(nil), nil)
	}
	return &Engine{
		preserve:   preserve,
		classifier: classifier,
		normalizer: normalize.New(opts.Normalize),
		ph:         withDefaults(opts.Placeholders),
		logger:     logging.NewComponentLogger(logger, "redact"),
	}
}

// NewFromConfig loads the name dictionary and builds an Engine from cfg. A
// missing dictionary is logged and tolerated.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Engine {
	r := cfg.Redaction
	dict := names.LoadDictionary(r.NameDictionaryPath, logging.NewComponentLogger(logger, "names"))
	return New(
		cfg.Allowlist(),
		names.NewClassifier(dict, r.NameSuffixes),
		Options{
			Placeholders: Placeholders{
				Policy:     r.NamePlaceholderPolicy,
				Fixed:      r.NamePlaceholder,
				NamePrefix: r.NamePrefix,
				NameWidth:  r.NameWidth,
				IDPrefix:   r.IDPrefix,
				IDWidth:    r.IDWidth,
			},
			Normalize: normalize.Options{
				StripArtifacts:  r.StripArtifacts,
				StripDiacritics: r.StripDiacritics,
			},
		},
		logger,
	)
}

func withDefaults(ph Placeholders) Placeholders {
	def := DefaultPlaceholders()
	if ph.Policy == "" {
		ph.Policy = def.Policy
	}
	if ph.Fixed == "" {
		ph.Fixed = def.Fixed
	}
	if ph.NamePrefix == "" {
		ph.NamePrefix = def.NamePrefix
	}
	if ph.NameWidth <= 0 {
		ph.NameWidth = def.NameWidth
	}
	if ph.IDPrefix == "" {
		ph.IDPrefix = def.IDPrefix
	}
	if ph.IDWidth <= 0 {
		ph.IDWidth = def.IDWidth
	}
	return ph
}

// Placeholders returns the effective placeholder settings.
func (e *Engine) Placeholders() Placeholders {
	return e.ph
}

// Sanitize returns doc with its text redacted. Documents without string text
// are returned unchanged. Filename and page number are never modified.
func (e *Engine) Sanitize(doc document.Document) (document.Document, Report) {
	if !doc.HasText() {
		return doc, Report{}
	}
	text, report := e.SanitizeText(doc.TextValue())
	if report.Recovered > 0 {
		logging.WarnWithContext(e.logger, "token classification failed; tokens passed through", "classification_recovered",
			logging.String(logging.FieldFilename, doc.Filename),
			logging.Int(logging.FieldPage, doc.PageNumber),
			logging.Int("recovered", report.Recovered),
			logging.String(logging.FieldErrorHint, "review the listed page manually"),
			logging.String(logging.FieldImpact, "affected tokens were left unredacted"),
		)
	}
	return doc.WithText(text), report
}

// SanitizeDocument is Sanitize without the report.
func (e *Engine) SanitizeDocument(doc document.Document) document.Document {
	out, _ := e.Sanitize(doc)
	return out
}

// SanitizeText redacts one document's text with fresh state.
func (e *Engine) SanitizeText(text string) (string, Report) {
	out, st, _ := e.run(text, false)
	return out, st.report
}

// Explain sanitizes text and returns one decision per output-side token. The
// decisions contain source tokens and are meant for local diagnosis only.
func (e *Engine) Explain(text string) []TokenDecision {
	_, _, decisions := e.run(text, true)
	return decisions
}

func (e *Engine) run(text string, trace bool) (string, *state, []TokenDecision) {
	st := newState(e.ph)
	normalized := e.normalizer.Normalize(text)
	redacted := redactIDs(normalized, st)
	tokens := strings.Fields(redacted)
	st.report.Tokens = len(tokens)
	out, decisions := e.redactNames(tokens, st, trace)
	return strings.TrimSpace(strings.Join(out, " ")), st, decisions
}
