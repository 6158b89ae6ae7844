package parse

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	ingredientsRegion = regexp.MustCompile(`(?is)Ingredients:?\s*(.*?)(?:Directions|$)`)
	directionsRegion  = regexp.MustCompile(`(?is)Directions:?\s*(.*?)(?:PRO TIP|$)`)
	tipsRegion        = regexp.MustCompile(`(?is)PRO TIPS?:?\s*(.*)$`)

	// Split points inside the flattened ingredient region. A tip marker ends
	// the region outright.
	ingredientMarker = regexp.MustCompile(`[•*]|(?:^|\s)-\s`)
	tipMarker        = regexp.MustCompile(`(?i)pro tips?`)
	ingredientPrefix = regexp.MustCompile(`^(?:[•*-]+|\d+\.(?:\s|$))\s*`)

	// A step starts at digits and a period; a digit right after the period
	// means a decimal quantity, not a new step.
	stepMarker = regexp.MustCompile(`\d+\.(?:\D|$)`)
	stepNumber = regexp.MustCompile(`^\d+\.?\s*`)
)

func region(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func ingredients(text string) []string {
	body, ok := region(ingredientsRegion, text)
	if !ok {
		return nil
	}
	if loc := tipMarker.FindStringIndex(body); loc != nil {
		body = body[:loc[0]]
	}

	var out []string
	for _, piece := range splitIngredients(body) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		piece = ingredientPrefix.ReplaceAllString(piece, "")
		piece = strings.TrimRight(strings.TrimSpace(piece), ",;")
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// splitIngredients cuts the flattened region at bullet markers and wherever a
// quantity follows a word ("2 eggs 2 turkey bacon strips" holds two entries).
// A quantity after a unit ("4 oz 93% lean") stays in the same entry.
func splitIngredients(body string) []string {
	cuts := []int{0}
	for _, loc := range ingredientMarker.FindAllStringIndex(body, -1) {
		cuts = append(cuts, loc[0])
	}

	var prev rune
	spaced := false
	wordStart, lastWord := 0, ""
	for i, r := range body {
		if unicode.IsSpace(r) {
			if !spaced {
				lastWord = body[wordStart:i]
			}
			spaced = true
			continue
		}
		if spaced {
			if isQuantity(r) && (unicode.IsLetter(prev) || prev == ')') && !isUnit(lastWord) {
				cuts = append(cuts, i)
			}
			wordStart = i
		}
		prev = r
		spaced = false
	}

	sort.Ints(cuts)
	pieces := make([]string, 0, len(cuts))
	for i, start := range cuts {
		end := len(body)
		if i+1 < len(cuts) {
			end = cuts[i+1]
		}
		if end > start {
			pieces = append(pieces, body[start:end])
		}
	}
	return pieces
}

var units = map[string]bool{
	"oz": true, "ounce": true, "ounces": true,
	"lb": true, "lbs": true, "pound": true, "pounds": true,
	"g": true, "gram": true, "grams": true, "kg": true, "ml": true, "l": true,
	"cup": true, "cups": true, "tbsp": true, "tsp": true,
	"tablespoon": true, "tablespoons": true, "teaspoon": true, "teaspoons": true,
}

// isUnit reports whether word is a measure, so the number after it belongs to
// the same ingredient.
func isUnit(word string) bool {
	return units[strings.ToLower(strings.TrimRight(word, ".,;)"))]
}

func isQuantity(r rune) bool {
	return unicode.IsDigit(r) || strings.ContainsRune("½⅓⅔¼¾⅛", r)
}

func directions(text string) []string {
	body, ok := region(directionsRegion, text)
	if !ok {
		return nil
	}
	return numbered(body)
}

func proTips(text string) []string {
	body, ok := region(tipsRegion, text)
	if !ok {
		return nil
	}
	return numbered(body)
}

// numbered splits body into "N. text" segments, each running up to the next
// marker, and strips the numbers. A region with text but no marker is kept
// as a single entry.
func numbered(body string) []string {
	locs := stepMarker.FindAllStringIndex(body, -1)
	if len(locs) == 0 {
		if s := strings.TrimSpace(body); s != "" {
			return []string{s}
		}
		return nil
	}

	var out []string
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		step := strings.TrimSpace(stepNumber.ReplaceAllString(strings.TrimSpace(body[loc[0]:end]), ""))
		if step != "" {
			out = append(out, step)
		}
	}
	return out
}
