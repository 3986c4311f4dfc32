package redact

import (
	"strings"
	"unicode/utf8"

	"medredact/internal/names"
	"medredact/internal/script"
)

// Token actions reported by Explain.
const (
	ActionPreserve = "preserve"
	ActionRedact   = "redact"
	ActionPass     = "pass"
)

// Reasons the name pass adds to those of the allowlist and classifier.
const (
	ReasonID                = "id"
	ReasonHonorific         = "honorific"
	ReasonHonorificContext  = "honorific_context"
	ReasonSpanContinuation  = "span_continuation"
	ReasonClassifierFailure = "classifier_failure"
)

// minContextNameRunes is the shortest word accepted as a name purely because
// a title precedes it.
const minContextNameRunes = 3

// TokenDecision records what happened to one token.
type TokenDecision struct {
	Token       string `json:"token"`
	Action      string `json:"action"`
	Reason      string `json:"reason,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	// Span numbers name spans from 1 within a document; 0 means no span.
	Span int `json:"span,omitempty"`
}

type verdict struct {
	action string
	reason string
	// titled means tokens[i] is a title and the span's first name part is
	// tokens[i+1].
	titled bool
}

// redactNames runs the token loop over the ID-redacted text. Each token is
// classified once; a name token starts a span that greedily absorbs the
// following name tokens and is never revisited.
func (e *Engine) redactNames(tokens []string, st *state, trace bool) ([]string, []TokenDecision) {
	out := make([]string, 0, len(tokens))
	var decisions []TokenDecision
	if trace {
		decisions = make([]TokenDecision, 0, len(tokens))
	}
	spans := 0

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		v := e.classify(tokens, i, st)

		if v.action != ActionRedact {
			out = append(out, tok)
			if v.action == ActionPreserve {
				st.report.Preserved++
			}
			if trace {
				d := TokenDecision{Token: tok, Action: v.action, Reason: v.reason}
				if st.mintedID(names.Core(tok)) {
					d.Action, d.Reason = ActionRedact, ReasonID
				}
				decisions = append(decisions, d)
			}
			i++
			continue
		}

		first := i
		if v.titled {
			first = i + 1
		}
		keys := []string{e.nameKey(tokens[first])}
		end := first + 1
		for end < len(tokens) && e.continuesSpan(tokens[end], st) {
			keys = append(keys, e.nameKey(tokens[end]))
			end++
		}

		placeholder := st.namePlaceholder(strings.Join(keys, " "))
		lead, _, _ := names.SplitPunct(tokens[i])
		_, _, trail := names.SplitPunct(tokens[end-1])
		out = append(out, lead+placeholder+trail)
		st.report.NameTokens += end - i

		if trace {
			spans++
			for j := i; j < end; j++ {
				reason := ReasonSpanContinuation
				switch {
				case j == i && v.titled:
					reason = ReasonHonorific
				case j == first:
					reason = v.reason
				}
				decisions = append(decisions, TokenDecision{
					Token:       tokens[j],
					Action:      ActionRedact,
					Reason:      reason,
					Placeholder: placeholder,
					Span:        spans,
				})
			}
		}
		i = end
	}
	return out, decisions
}

// classify decides the fate of tokens[i]: a title followed by a name starts
// a span, then preserved tokens pass, then name tokens start a span. A panic
// inside a predicate degrades the token to pass-through.
func (e *Engine) classify(tokens []string, i int, st *state) (v verdict) {
	defer func() {
		if r := recover(); r != nil {
			st.report.Recovered++
			v = verdict{action: ActionPass, reason: ReasonClassifierFailure}
		}
	}()

	tok := tokens[i]
	if i+1 < len(tokens) && names.IsHonorific(tok) {
		next := tokens[i+1]
		if !e.preserve.Preserve(next) {
			if m, ok := e.classifier.Match(next); ok {
				return verdict{action: ActionRedact, reason: m.Reason, titled: true}
			}
			if names.IntroducesName(tok) && looksLikeName(next) {
				return verdict{action: ActionRedact, reason: ReasonHonorificContext, titled: true}
			}
		}
	}
	if reason, ok := e.preserve.Reason(tok); ok {
		return verdict{action: ActionPreserve, reason: reason}
	}
	if m, ok := e.classifier.Match(tok); ok {
		return verdict{action: ActionRedact, reason: m.Reason}
	}
	return verdict{action: ActionPass}
}

// continuesSpan reports whether tok extends the current span.
func (e *Engine) continuesSpan(tok string, st *state) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			st.report.Recovered++
			ok = false
		}
	}()
	if e.preserve.Preserve(tok) {
		return false
	}
	return e.classifier.IsName(tok)
}

// nameKey is the text that identifies a name part for pseudonym reuse.
func (e *Engine) nameKey(tok string) string {
	if m, ok := e.classifier.Match(tok); ok {
		return m.Key
	}
	return names.Core(tok)
}

// looksLikeName accepts a plain right-to-left word long enough to be a name.
func looksLikeName(tok string) bool {
	core := names.Core(tok)
	return script.IsRTLWord(core) && utf8.RuneCountInString(core) >= minContextNameRunes
}
