package census

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LanguageKey is the canonical grouping identity of a mother tongue.
type LanguageKey string

var subCodePrefix = regexp.MustCompile(`^[0-9]+\s+`)

// ResolveLanguage strips a leading census sub-code ("01 Hindi"), trims and
// lower-cases. Running it on an already canonical key returns the key.
func ResolveLanguage(label string) LanguageKey {
	s := strings.TrimSpace(label)
	s = subCodePrefix.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return LanguageKey(cases.Lower(language.Und).String(s))
}
