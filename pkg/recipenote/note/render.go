// Package note renders recipes as Obsidian-style markdown notes and reads
// such notes back.
package note

import (
	"fmt"
	"strings"

	"github.com/cognicore/recipenote/pkg/recipenote/recipe"
)

// Section headings, in render order
const (
	SectionNutrition   = "Nutrition Information"
	SectionIngredients = "Ingredients"
	SectionDirections  = "Directions"
	SectionProTips     = "Pro Tips"
)

// Render serializes r and its tags into a note. Sections without data are
// omitted; each emitted section ends with one blank line.
func Render(r recipe.Recipe, tags []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)

	hashed := make([]string, len(tags))
	for i, tag := range tags {
		hashed[i] = "#" + tag
	}
	b.WriteString(strings.Join(hashed, " "))
	b.WriteString("\n\n")

	if r.Calories != nil || r.ProteinGrams != nil {
		heading(&b, SectionNutrition)
		if r.Calories != nil {
			fmt.Fprintf(&b, "- **Calories:** %d\n", *r.Calories)
		}
		if r.ProteinGrams != nil {
			fmt.Fprintf(&b, "- **Protein:** %dg\n", *r.ProteinGrams)
		}
		b.WriteString("\n")
	}

	if len(r.Ingredients) > 0 {
		heading(&b, SectionIngredients)
		bullets(&b, r.Ingredients)
	}

	if len(r.Directions) > 0 {
		heading(&b, SectionDirections)
		for i, step := range r.Directions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		b.WriteString("\n")
	}

	if len(r.ProTips) > 0 {
		heading(&b, SectionProTips)
		bullets(&b, r.ProTips)
	}

	return b.String()
}

func heading(b *strings.Builder, name string) {
	fmt.Fprintf(b, "## %s\n\n", name)
}

func bullets(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
