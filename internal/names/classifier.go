package names

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"medredact/internal/script"
)

// Reasons reported by Classifier.Match.
const (
	ReasonDictionary       = "dictionary"
	ReasonDictionaryPrefix = "dictionary_prefixed"
	ReasonSuffix           = "suffix"
)

// DefaultSuffixes are common family-name endings.
var DefaultSuffixes = []string{
	"וביץ",
	"וביץ'",
	"וביטש",
	"סקי",
	"צקי",
	"שטיין",
	"ברג",
	"בוים",
}

type honorificKind int

const (
	// kinship words ("son of") only ever precede a known name.
	kinship honorificKind = iota + 1
	// plainTitle words are also ordinary words (מר is "bitter"), so they only
	// precede a name the classifier recognizes.
	plainTitle
	// title words are unambiguous and may introduce an unknown name.
	title
)

// honorifics are keyed by the quote-folded core of the token. Abbreviated
// titles keep their geresh: גב' is "Mrs." while גב is "back".
var honorifics = map[string]honorificKind{
	`ד"ר`: title, "דר'": title, "דוקטור": title,
	"פרופ'": title, "פרופסור": title,
	"גב'": title,
	"Dr":  title, "Prof": title, "Mr": title, "Mrs": title, "Ms": title,
	"מר": plainTitle, "גברת": plainTitle,
	"בן": kinship, "בת": kinship,
}

// attachedPrefixes are honorifics that OCR sometimes glues to the following
// name. Longest first so "פרופ'" wins over shorter overlaps.
var attachedPrefixes = []string{
	"פרופ'", "פרופ׳", `ד"ר`, `ד״ר`, "דר'", "דר׳", "גב'", "גב׳", "מר", "בן", "בת",
}

// minSuffixStem is the number of letters that must precede a suffix.
const minSuffixStem = 2

// Match describes why a token was classified as a name part.
type Match struct {
	Reason string
	// Key is the canonical name text used for pseudonym consistency.
	Key string
}

// Classifier tests single tokens for name-ness. It is read-only after
// construction and safe for concurrent use.
type Classifier struct {
	dict     *Dictionary
	suffixes []string
}

// NewClassifier returns a classifier over dict with the given suffix
// predicates. A nil suffix list selects DefaultSuffixes; an empty non-nil
// list disables suffix matching.
func NewClassifier(dict *Dictionary, suffixes []string) *Classifier {
	if suffixes == nil {
		suffixes = DefaultSuffixes
	}
	cleaned := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return &Classifier{dict: dict, suffixes: cleaned}
}

// Dictionary returns the underlying dictionary.
func (c *Classifier) Dictionary() *Dictionary {
	return c.dict
}

// IsName reports whether token is a name part.
func (c *Classifier) IsName(token string) bool {
	_, ok := c.Match(token)
	return ok
}

// Match classifies token: dictionary membership first, then suffixes.
func (c *Classifier) Match(token string) (Match, bool) {
	if m, ok := c.MatchDictionary(token); ok {
		return m, true
	}
	if m, ok := c.MatchSuffix(token); ok {
		return m, true
	}
	return Match{}, false
}

// MatchDictionary is the membership stage. The token is checked as written
// and then with one attached honorific prefix removed.
func (c *Classifier) MatchDictionary(token string) (Match, bool) {
	core := Core(token)
	if core == "" {
		return Match{}, false
	}
	if c.dict.Contains(core) {
		return Match{Reason: ReasonDictionary, Key: script.FoldQuotes(core)}, true
	}
	if rest, ok := StripHonorific(core); ok && c.dict.Contains(rest) {
		return Match{Reason: ReasonDictionaryPrefix, Key: script.FoldQuotes(rest)}, true
	}
	return Match{}, false
}

// MatchSuffix is the pattern stage: the token ends with a family-name suffix
// preceded by enough right-to-left letters to form a stem.
func (c *Classifier) MatchSuffix(token string) (Match, bool) {
	core := Core(token)
	if !script.HasRTL(core) {
		return Match{}, false
	}
	for _, suffix := range c.suffixes {
		if !strings.HasSuffix(core, suffix) {
			continue
		}
		stem := strings.TrimSuffix(core, suffix)
		if utf8.RuneCountInString(stem) >= minSuffixStem && script.IsRTLWord(stem) {
			return Match{Reason: ReasonSuffix, Key: core}, true
		}
	}
	return Match{}, false
}

// IsHonorific reports whether token is a standalone title or kinship word.
func IsHonorific(token string) bool {
	_, ok := honorifics[honorificKey(token)]
	return ok
}

// IntroducesName reports whether token is a title unambiguous enough that the
// word after it is taken as a name even when the classifier does not know it.
func IntroducesName(token string) bool {
	return honorifics[honorificKey(token)] == title
}

func honorificKey(token string) string {
	return script.FoldQuotes(Core(token))
}

// StripHonorific removes an honorific glued to the front of token. It reports
// false when no prefix is present or nothing meaningful remains.
func StripHonorific(token string) (string, bool) {
	for _, prefix := range attachedPrefixes {
		if !strings.HasPrefix(token, prefix) {
			continue
		}
		rest := strings.TrimLeft(token[len(prefix):], ".-:־")
		if utf8.RuneCountInString(rest) >= 2 {
			return rest, true
		}
	}
	return "", false
}

// Core trims leading and trailing punctuation, keeping the quote marks that
// Hebrew abbreviations use internally.
func Core(token string) string {
	_, core, _ := SplitPunct(token)
	return core
}

// SplitPunct splits token into leading punctuation, core, and trailing
// punctuation. Trailing geresh/apostrophe is treated as part of the core.
func SplitPunct(token string) (lead, core, trail string) {
	start := strings.IndexFunc(token, func(r rune) bool { return !isEdgePunct(r, false) })
	if start < 0 {
		return token, "", ""
	}
	end := strings.LastIndexFunc(token, func(r rune) bool { return !isEdgePunct(r, true) })
	_, size := utf8.DecodeRuneInString(token[end:])
	end += size
	return token[:start], token[start:end], token[end:]
}

func isEdgePunct(r rune, trailing bool) bool {
	switch r {
	case '\'', '׳':
		return !trailing
	case '"', '״':
		return true
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
