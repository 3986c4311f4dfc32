package redact

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	idDigits = 9
	// labelWindow bounds how far back a label is searched for.
	labelWindow = 64
)

var (
	digitRun = regexp.MustCompile(`[0-9]+`)
	// idLabel matches a label ending right before a digit run. The first
	// group is the label as written, without any trailing colon.
	idLabel = regexp.MustCompile(`(?:^|[\s(\[,;])(ת\.?ז\.?|מספר\s*זהות|I\.D\.?|ID)\s*:?\s*$`)
)

// redactIDs replaces every 9-digit identifier in text, left to right.
//
// Labeled identifiers keep their label and gain a canonical ": " separator.
// Standalone identifiers are replaced in place unless a "/" follows (dates,
// ratios) or the digits complete a placeholder this engine could have minted.
func redactIDs(text string, st *state) string {
	matches := digitRun.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if end-start != idDigits {
			continue
		}
		if followedBySlash(text[end:]) {
			continue
		}
		if isIDPlaceholder(text[:start], st.ph) {
			continue
		}

		if labelStart, label, ok := findLabel(text, start); ok && labelStart >= last {
			b.WriteString(text[last:labelStart])
			b.WriteString(label)
			b.WriteString(": ")
			b.WriteString(st.nextID())
		} else {
			b.WriteString(text[last:start])
			b.WriteString(st.nextID())
		}
		last = end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func followedBySlash(rest string) bool {
	return strings.HasPrefix(strings.TrimLeft(rest, " \t\r\n"), "/")
}

// isIDPlaceholder reports whether a 9-digit run preceded by before is an
// identifier placeholder. Only a 9-digit counter width can produce one, and
// the prefix must start a word.
func isIDPlaceholder(before string, ph Placeholders) bool {
	if ph.IDPrefix == "" || ph.IDWidth != idDigits || !strings.HasSuffix(before, ph.IDPrefix) {
		return false
	}
	return !endsInWord(strings.TrimSuffix(before, ph.IDPrefix))
}

func endsInWord(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	return size > 0 && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

// findLabel looks for an identifier label immediately before offset and
// returns where the label starts and its text.
func findLabel(text string, offset int) (int, string, bool) {
	from := max(offset-labelWindow, 0)
	for from < offset && !utf8.RuneStart(text[from]) {
		from++
	}
	window := text[from:offset]
	loc := idLabel.FindStringSubmatchIndex(window)
	if loc == nil {
		return 0, "", false
	}
	// "^" matched the window start; that is only a boundary at the start of
	// text or after a separator.
	if loc[2] == 0 && from > 0 && !labelBoundary(text[:from]) {
		return 0, "", false
	}
	return from + loc[2], window[loc[2]:loc[3]], true
}

func labelBoundary(before string) bool {
	r, _ := utf8.DecodeLastRuneInString(before)
	return unicode.IsSpace(r) || strings.ContainsRune("([,;", r)
}
