package config

import (
	"fmt"

	"github.com/cognicore/recipenote/pkg/recipenote/parse"
	"github.com/cognicore/recipenote/pkg/recipenote/tags"
)

// Loader loads configuration files and constructs components
type Loader struct {
	TaxonomyPath string
}

// Components holds the loaded pipeline components
type Components struct {
	Parser *parse.Parser
	Engine *tags.Engine
}

// Load reads the taxonomy file (if any) and returns initialized components
func (l *Loader) Load() (*Components, error) {
	tax := tags.Default()

	if l.TaxonomyPath != "" {
		file, err := LoadTaxonomy(l.TaxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("load taxonomy: %w", err)
		}
		tax = file.Build(tax)
	}

	return &Components{
		Parser: parse.New(),
		Engine: tags.NewEngine(tax),
	}, nil
}
