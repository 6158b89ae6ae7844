package tags

// defaultCategories is the built-in recipe taxonomy
var defaultCategories = []Category{
	// Proteins
	{Tag: "chicken", Keywords: []string{"chicken", "chicken breast", "chicken tender"}},
	{Tag: "turkey", Keywords: []string{"turkey", "turkey bacon", "turkey sausage", "turkey chorizo", "turkey pepperoni"}},
	{Tag: "beef", Keywords: []string{"beef", "ground beef", "steak"}},
	{Tag: "pork", Keywords: []string{"pork", "bacon", "ham"}},
	{Tag: "fish", Keywords: []string{"fish", "salmon", "tuna", "cod"}},
	{Tag: "egg", Keywords: []string{"egg", "egg white", "eggs"}},

	// Meal types
	{Tag: "breakfast", Keywords: []string{"breakfast", "bagel", "waffle", "pancake", "burrito", "scramble"}},
	{Tag: "lunch", Keywords: []string{"lunch", "sandwich", "wrap", "salad"}},
	{Tag: "dinner", Keywords: []string{"dinner", "pasta", "rice", "stir fry"}},
	{Tag: "snack", Keywords: []string{"snack", "bar", "bite", "ball"}},

	// Food types
	{Tag: "pizza", Keywords: []string{"pizza", "flatbread", "pita"}},
	{Tag: "pasta", Keywords: []string{"pasta", "noodle", "spaghetti", "penne"}},
	{Tag: "sandwich", Keywords: []string{"sandwich", "sub", "hoagie"}},
	{Tag: "burrito", Keywords: []string{"burrito", "wrap", "tortilla"}},
	{Tag: "bagel", Keywords: []string{"bagel"}},
	{Tag: "waffle", Keywords: []string{"waffle"}},
	{Tag: "pancake", Keywords: []string{"pancake"}},
	{Tag: "salad", Keywords: []string{"salad", "bowl"}},

	// Cooking methods
	{Tag: "airfryer", Keywords: []string{"air fryer", "airfryer"}},
	{Tag: "baked", Keywords: []string{"baked", "oven", "broil"}},
	{Tag: "grilled", Keywords: []string{"grilled", "grill"}},

	// Dietary
	{Tag: "lowcarb", Keywords: []string{"low carb", "keto", "carb balance"}},
	{Tag: "highprotein", Keywords: []string{"protein", "high protein"}},
	{Tag: "fatfree", Keywords: []string{"fat free", "fat-free"}},
}

var defaultTaxonomy = NewTaxonomy(defaultCategories)

// Default returns the built-in taxonomy
func Default() *Taxonomy {
	return defaultTaxonomy
}
