package tags

import (
	"sort"
	"strings"

	"github.com/cognicore/recipenote/pkg/recipenote/recipe"
)

// Sentinel is the tag applied when no rule fires
const Sentinel = "recipe"

// Nutrition thresholds. Both calorie bounds are exclusive: 300 and 500 earn
// neither calorie tag.
const (
	LowCalorieBelow  = 300
	HighCalorieAbove = 500
	HighProteinAbove = 40
)

// Engine infers tags for recipes from a shared taxonomy
type Engine struct {
	taxonomy *Taxonomy
}

// NewEngine creates an engine over tax; a nil taxonomy means Default()
func NewEngine(tax *Taxonomy) *Engine {
	if tax == nil {
		tax = Default()
	}
	return &Engine{taxonomy: tax}
}

// Taxonomy returns the taxonomy the engine matches against
func (e *Engine) Taxonomy() *Taxonomy {
	return e.taxonomy
}

// Infer returns the sorted, never empty tag list for r
func (e *Engine) Infer(r recipe.Recipe) []string {
	set := make(map[string]struct{})

	// Keyword hits over title, ingredients and directions
	haystack := strings.ToLower(strings.Join([]string{
		r.Title,
		strings.Join(r.Ingredients, " "),
		strings.Join(r.Directions, " "),
	}, " "))
	for _, tag := range e.taxonomy.Match(haystack) {
		set[tag] = struct{}{}
	}

	// Nutrition thresholds
	if r.Calories != nil {
		switch {
		case *r.Calories < LowCalorieBelow:
			set["lowcalorie"] = struct{}{}
		case *r.Calories > HighCalorieAbove:
			set["highcalorie"] = struct{}{}
		}
	}
	if r.ProteinGrams != nil && *r.ProteinGrams > HighProteinAbove {
		set["highprotein"] = struct{}{}
	}

	if len(set) == 0 {
		return []string{Sentinel}
	}

	out := make([]string, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
