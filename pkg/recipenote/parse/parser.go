// Package parse turns the flat text of a recipe page into a recipe.Recipe.
//
// Parsing is heuristic and total: every field is optional, and text that does
// not match any rule simply leaves the corresponding field empty.
package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cognicore/recipenote/pkg/recipenote/recipe"
)

var (
	caloriesPattern = regexp.MustCompile(`(?i)(\d+)\s*calories`)
	proteinPattern  = regexp.MustCompile(`(?i)(\d+)\s*grams?\s*of\s*protein`)
)

// Parser extracts structured recipes from raw page text
type Parser struct {
	titleRules []titleRule
}

// New creates a parser with the default title rule chain
func New() *Parser {
	return &Parser{titleRules: defaultTitleRules()}
}

// Parse converts raw extracted text into a recipe. It never fails; fields the
// text does not carry stay empty or nil.
func (p *Parser) Parse(raw string) recipe.Recipe {
	var r recipe.Recipe

	// 1. Flatten: every whitespace run, newlines included, becomes one space
	text := Normalize(raw)
	if text == "" {
		return r
	}

	// 2. Title (first rule that yields an acceptable candidate)
	r.Title = p.title(text)

	// 3-4. Nutrition
	r.Calories = firstInt(caloriesPattern, text)
	r.ProteinGrams = firstInt(proteinPattern, text)

	// 5-7. Sections
	r.Ingredients = ingredients(text)
	r.Directions = directions(text)
	r.ProTips = proTips(text)

	return r
}

// Normalize collapses whitespace runs to single spaces and trims the result
func Normalize(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func (p *Parser) title(text string) string {
	for _, rule := range p.titleRules {
		if title, ok := rule.apply(text); ok {
			return title
		}
	}
	return ""
}

// firstInt returns the first integer captured by re, or nil when there is no
// match or the digits overflow an int.
func firstInt(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return recipe.Int(n)
}
