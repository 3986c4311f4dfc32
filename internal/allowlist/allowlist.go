// Package allowlist decides which tokens bypass redaction entirely.
//
// A token is preserved when it exactly matches a configured domain term, when
// it has the shape of a measurement or a date, or when it is a right-to-left
// token of one or two characters (too short to be a reliable name). Terms and
// tokens are compared with their quote marks folded, so בי״ח and בי"ח are the
// same term; the token itself is never rewritten. The set is
// built once at startup and is read-only afterwards, so a single Set may be
// shared by any number of concurrent sanitizations.
package allowlist

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"medredact/internal/script"
)

// Reasons reported by Set.Reason.
const (
	ReasonTerm        = "term"
	ReasonMeasurement = "measurement"
	ReasonDate        = "date"
	ReasonShortRTL    = "short_rtl"
	ReasonPattern     = "pattern"
)

var (
	measurementPattern = regexp.MustCompile(`^\d+(?:[./]\d+)?(?:\s*(?:מ"ג|מ״ג|ק"ג|ק״ג|מ"ל|מ״ל|ס"מ|ס״מ|mg|kg|ml|cm|mm|%))?$`)
	datePattern        = regexp.MustCompile(`^\d{1,2}[/.]\d{1,2}[/.]\d{2,4}$`)
)

// Rule is one ordered shape predicate.
type Rule struct {
	Name  string
	Match func(token string) bool
}

// Set is an immutable preserved-term set.
type Set struct {
	terms map[string]struct{}
	rules []Rule
}

// Default returns the built-in allowlist.
func Default() *Set {
	return New(nil, nil)
}

// New builds a Set from the built-in terms plus extra terms and extra
// patterns. Extra patterns are consulted after the built-in rules.
func New(extraTerms []string, extraPatterns []*regexp.Regexp) *Set {
	terms := make(map[string]struct{}, len(defaultTerms)+len(extraTerms))
	for _, list := range [][]string{defaultTerms, extraTerms} {
		for _, term := range list {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			terms[script.FoldQuotes(term)] = struct{}{}
		}
	}

	rules := []Rule{
		{Name: ReasonMeasurement, Match: measurementPattern.MatchString},
		{Name: ReasonDate, Match: datePattern.MatchString},
		{Name: ReasonShortRTL, Match: isShortRTL},
	}
	for _, re := range extraPatterns {
		if re == nil {
			continue
		}
		rules = append(rules, Rule{Name: ReasonPattern, Match: re.MatchString})
	}
	return &Set{terms: terms, rules: rules}
}

// CompilePatterns compiles user-supplied preserve patterns. Patterns are
// anchored to the whole token.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(`^(?:` + pattern + `)$`)
		if err != nil {
			return nil, fmt.Errorf("compile preserve pattern %q: %w", pattern, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Preserve reports whether token must pass through unchanged.
func (s *Set) Preserve(token string) bool {
	_, ok := s.Reason(token)
	return ok
}

// Reason returns which rule preserves token.
func (s *Set) Reason(token string) (string, bool) {
	if s == nil {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	if s.Contains(token) {
		return ReasonTerm, true
	}
	// Trailing colons and commas are common after section headers.
	if core := trimPunct(token); core != token && s.Contains(core) {
		return ReasonTerm, true
	}
	folded := script.FoldQuotes(token)
	for _, rule := range s.rules {
		if rule.Match(token) || (folded != token && rule.Match(folded)) {
			return rule.Name, true
		}
	}
	return "", false
}

// Contains reports exact term membership, ignoring quote mark variants.
func (s *Set) Contains(term string) bool {
	if s == nil {
		return false
	}
	_, ok := s.terms[script.FoldQuotes(term)]
	return ok
}

// Terms returns the exact-match terms in sorted order, with quote marks
// folded.
func (s *Set) Terms() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.terms))
	for term := range s.terms {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of exact-match terms.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.terms)
}

func isShortRTL(token string) bool {
	n := utf8.RuneCountInString(token)
	return n >= 1 && n <= 2 && script.HasRTL(token)
}

func trimPunct(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return unicode.IsPunct(r) && r != '"' && r != '\'' && r != '״' && r != '׳'
	})
}
