package contacts

import (
	"regexp"
	"strings"
)

// emailRx matches a complete, syntactically plausible email address. Some
// providers put an address where a display name belongs; this is how we
// detect that.
var emailRx = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]+$`)

// IsEmailAddress reports whether s is a syntactically valid email address.
func IsEmailAddress(s string) bool {
	return emailRx.MatchString(s)
}

// NormalizeName trims surrounding whitespace from a provider-supplied name.
// Casing is preserved verbatim: providers and users disagree on
// capitalization and second-guessing them loses information.
func NormalizeName(s string) string {
	return strings.TrimSpace(s)
}

// FullName synthesizes a display name from first and last name, joining
// with a single space and skipping absent parts.
func FullName(first, last string) string {
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}

// EmailToName derives first, last and display name from the local part of
// an email address: "ann.lee@x.com" → ("ann", "lee", "ann lee"),
// "bob@x.com" → ("bob", "", "bob"). Dots and underscores both act as
// separators; only the first two segments are used.
func EmailToName(email string) (first, last, full string) {
	local, _, _ := strings.Cut(email, "@")
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_'
	})
	if len(parts) >= 2 {
		first = NormalizeName(parts[0])
		last = NormalizeName(parts[1])
		return first, last, FullName(first, last)
	}
	first = NormalizeName(local)
	return first, "", first
}

// SplitAddressLines breaks a single formatted address string on its first
// embedded line break: the first line becomes line1 and the remaining lines
// are rejoined with ", " as line2. Deliberately lossy: when a provider (or
// a user) jams street, city, state and zip into one field there is no
// reliable way to recover structure, so the historical heuristic is kept
// as-is.
func SplitAddressLines(s string) (line1, line2 string) {
	if !strings.Contains(s, "\n") {
		return s, ""
	}
	lines := strings.Split(s, "\n")
	rest := make([]string, 0, len(lines)-1)
	for _, l := range lines[1:] {
		if l = strings.TrimSpace(l); l != "" {
			rest = append(rest, l)
		}
	}
	return lines[0], strings.Join(rest, ", ")
}

// Labeled pairs an open-ended provider label with a value.
type Labeled struct {
	Label string
	Value string
}

// FlattenLabeled turns an ordered list of label/value pairs into the same
// list with empty values dropped. Providers that key emails or phones by
// label leave most slots unset; those slots must not become empty canonical
// entries.
func FlattenLabeled(pairs []Labeled) []Labeled {
	out := make([]Labeled, 0, len(pairs))
	for _, p := range pairs {
		if p.Value == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
