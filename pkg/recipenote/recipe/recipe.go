// Package recipe holds the structured record produced by the parser.
package recipe

// Recipe is the structured form of one recipe document. It is built
// incrementally by the parser and discarded once the note is rendered.
//
// Calories and ProteinGrams are nil when the source text carried no value;
// a present value is always non-negative.
type Recipe struct {
	Title        string
	Calories     *int
	ProteinGrams *int
	Ingredients  []string
	Directions   []string
	ProTips      []string
}

// Int returns a pointer to n, for filling the optional nutrition fields.
func Int(n int) *int {
	return &n
}

// Empty reports whether parsing produced nothing at all.
func (r *Recipe) Empty() bool {
	return r.Title == "" &&
		r.Calories == nil &&
		r.ProteinGrams == nil &&
		len(r.Ingredients) == 0 &&
		len(r.Directions) == 0 &&
		len(r.ProTips) == 0
}
