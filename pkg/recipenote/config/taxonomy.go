package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/recipenote/pkg/recipenote/internalerr"
	"github.com/cognicore/recipenote/pkg/recipenote/tags"
)

// Taxonomy is the on-disk form of a tag taxonomy.
//
//	replace: false
//	tags:
//	  airfryer: [air fryer, airfryer]
//	  smoothie: [smoothie, shake]
//
// With replace unset the listed tags are merged over the built-in taxonomy;
// a listed tag replaces the built-in keywords for that tag.
type Taxonomy struct {
	Replace bool                `yaml:"replace"`
	Tags    map[string][]string `yaml:"tags"`
}

// LoadTaxonomy loads taxonomy from a YAML file
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tax Taxonomy
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, internalerr.ErrInvalidConfig, err)
	}

	for name, keywords := range tax.Tags {
		if len(keywords) == 0 {
			return nil, fmt.Errorf("%s: tag %q has no keywords: %w", path, name, internalerr.ErrInvalidConfig)
		}
	}

	return &tax, nil
}

// Categories returns the file's tags in name order
func (t *Taxonomy) Categories() []tags.Category {
	names := make([]string, 0, len(t.Tags))
	for name := range t.Tags {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]tags.Category, 0, len(names))
	for _, name := range names {
		out = append(out, tags.Category{Tag: name, Keywords: t.Tags[name]})
	}
	return out
}

// Build turns the file into a taxonomy on top of base
func (t *Taxonomy) Build(base *tags.Taxonomy) *tags.Taxonomy {
	if t.Replace || base == nil {
		return tags.NewTaxonomy(t.Categories())
	}
	return base.Merge(t.Categories())
}
