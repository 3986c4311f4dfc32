package redact

import (
	"fmt"
	"strings"
)

// Placeholders configures the replacement text for redacted content.
type Placeholders struct {
	// Policy is "fixed" or "unique".
	Policy     string
	Fixed      string
	NamePrefix string
	NameWidth  int
	IDPrefix   string
	IDWidth    int
}

// DefaultPlaceholders returns the placeholder settings used when none are
// configured.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		Policy:     PolicyFixed,
		Fixed:      "NAME_REDACTED",
		NamePrefix: "PERSON_",
		NameWidth:  3,
		IDPrefix:   "ID_",
		IDWidth:    6,
	}
}

// Placeholder policies.
const (
	PolicyFixed  = "fixed"
	PolicyUnique = "unique"
)

func formatCounter(prefix string, n, width int) string {
	return prefix + fmt.Sprintf("%0*d", width, n)
}

// state is the mutable part of one document's sanitization. It is created at
// the start of every document and never shared.
type state struct {
	ph Placeholders

	idCounter int
	ids       map[string]struct{}

	nameCounter int
	pseudonyms  map[string]string

	report Report
}

func newState(ph Placeholders) *state {
	return &state{
		ph:          ph,
		idCounter:   1,
		nameCounter: 1,
		ids:         make(map[string]struct{}),
		pseudonyms:  make(map[string]string),
	}
}

// nextID mints the next identifier placeholder.
func (s *state) nextID() string {
	id := formatCounter(s.ph.IDPrefix, s.idCounter, s.ph.IDWidth)
	s.idCounter++
	s.ids[id] = struct{}{}
	s.report.IDs++
	return id
}

// mintedID reports whether placeholder was issued for this document.
func (s *state) mintedID(placeholder string) bool {
	_, ok := s.ids[placeholder]
	return ok
}

// namePlaceholder returns the replacement for a name span. key identifies the
// source name and only matters under the unique policy, where repeated
// occurrences of the same key share one pseudonym.
func (s *state) namePlaceholder(key string) string {
	s.report.NameSpans++
	if s.ph.Policy != PolicyUnique {
		return s.ph.Fixed
	}
	key = strings.TrimSpace(key)
	if p, ok := s.pseudonyms[key]; ok {
		return p
	}
	p := formatCounter(s.ph.NamePrefix, s.nameCounter, s.ph.NameWidth)
	s.nameCounter++
	s.pseudonyms[key] = p
	return p
}
