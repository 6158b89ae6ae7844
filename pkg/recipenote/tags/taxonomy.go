// Package tags derives category tags for a recipe from a keyword taxonomy and
// nutrition thresholds.
package tags

import (
	"sort"
	"strings"
)

// Category is one taxonomy entry: a tag and the phrases that trigger it
type Category struct {
	Tag      string
	Keywords []string
}

// Taxonomy maps tags to trigger phrases. It is immutable once built and safe
// to share between engines.
type Taxonomy struct {
	categories []Category
}

// NewTaxonomy builds a taxonomy from the given categories. Tags and keywords
// are lowercased; empty keywords are dropped, and a repeated tag merges its
// keywords into the first occurrence.
func NewTaxonomy(categories []Category) *Taxonomy {
	index := make(map[string]int, len(categories))
	built := make([]Category, 0, len(categories))

	for _, c := range categories {
		tag := strings.ToLower(strings.TrimSpace(c.Tag))
		if tag == "" {
			continue
		}
		i, ok := index[tag]
		if !ok {
			i = len(built)
			index[tag] = i
			built = append(built, Category{Tag: tag})
		}
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || containsString(built[i].Keywords, kw) {
				continue
			}
			built[i].Keywords = append(built[i].Keywords, kw)
		}
	}

	return &Taxonomy{categories: built}
}

// Categories returns a copy of the taxonomy entries in definition order
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Tag: c.Tag, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

// Tags returns every tag name, sorted
func (t *Taxonomy) Tags() []string {
	out := make([]string, len(t.categories))
	for i, c := range t.categories {
		out[i] = c.Tag
	}
	sort.Strings(out)
	return out
}

// Match returns the tags whose keywords occur as substrings of text.
// text must already be lowercase.
func (t *Taxonomy) Match(text string) []string {
	var hits []string
	for _, c := range t.categories {
		for _, kw := range c.Keywords {
			if strings.Contains(text, kw) {
				hits = append(hits, c.Tag)
				break
			}
		}
	}
	return hits
}

// Merge returns a new taxonomy with overrides applied: a tag present in
// overrides replaces that tag's keywords, new tags are appended.
func (t *Taxonomy) Merge(overrides []Category) *Taxonomy {
	replaced := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		replaced[strings.ToLower(strings.TrimSpace(o.Tag))] = true
	}

	merged := make([]Category, 0, len(t.categories)+len(overrides))
	for _, c := range t.categories {
		if !replaced[c.Tag] {
			merged = append(merged, c)
		}
	}
	merged = append(merged, overrides...)
	return NewTaxonomy(merged)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
