package parse

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	mealKeywords    = `breakfast|lunch|dinner|pizza|sandwich|burrito|bagel|waffle|pancake|salad|bowl|plate|wrap`
	proteinKeywords = `chicken|turkey|beef|pork|fish`
	dishKeywords    = `burrito|pizza|sandwich|bagel|waffle|pancake|salad|bowl|plate`

	minTitleLen = 5
)

var (
	ordinalPrefix = regexp.MustCompile(`^[0-9]+\.?\s*`)

	// Direction lines start with one of these; a title never does.
	directionVerbs = []string{"throw", "add", "cook", "place"}
)

// titleRule is one step of the ordered title chain. pattern is tried once
// (first match only); candidates are vetted unless verbatim is set.
type titleRule struct {
	name     string
	pattern  *regexp.Regexp
	verbatim bool
}

func defaultTitleRules() []titleRule {
	return []titleRule{
		{
			name:    "meal",
			pattern: regexp.MustCompile(`[A-Z][^.!?]*?(?i:` + mealKeywords + `)[^.!?]*`),
		},
		{
			name:    "protein",
			pattern: regexp.MustCompile(`[A-Z][A-Za-z ]+?(?i:` + proteinKeywords + `)[^.!?]*`),
		},
		{
			name:    "leading",
			pattern: regexp.MustCompile(`^[A-Z][^.!?]{10,50}`),
		},
		{
			// Last resort: any phrase ending in a dish word, taken as is.
			name:     "dish",
			pattern:  regexp.MustCompile(`(?i)[a-z\s.]+(?:` + dishKeywords + `)`),
			verbatim: true,
		},
	}
}

func (r titleRule) apply(text string) (string, bool) {
	match := r.pattern.FindString(text)
	if match == "" {
		return "", false
	}
	candidate := strings.TrimSpace(match)
	if r.verbatim {
		return candidate, candidate != ""
	}

	candidate = ordinalPrefix.ReplaceAllString(candidate, "")
	if !plausibleTitle(candidate) {
		return "", false
	}
	return candidate, true
}

// plausibleTitle rejects short fragments and direction lines that a pattern
// picked up by mistake.
func plausibleTitle(s string) bool {
	if utf8.RuneCountInString(s) <= minTitleLen {
		return false
	}
	lower := strings.ToLower(s)
	for _, verb := range directionVerbs {
		if strings.HasPrefix(lower, verb) {
			return false
		}
	}
	return true
}
