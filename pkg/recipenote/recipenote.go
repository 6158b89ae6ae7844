// Package recipenote converts recipe documents into markdown notes.
package recipenote

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cognicore/recipenote/pkg/recipenote/internalerr"
	"github.com/cognicore/recipenote/pkg/recipenote/note"
	"github.com/cognicore/recipenote/pkg/recipenote/parse"
	"github.com/cognicore/recipenote/pkg/recipenote/recipe"
	"github.com/cognicore/recipenote/pkg/recipenote/tags"
)

// TextSource returns the plain text of a document, or "" when extraction
// failed. *extract.Adapter satisfies it.
type TextSource interface {
	Text(ctx context.Context, path string) string
}

// Converter runs one document through extract -> parse -> tag -> render
type Converter struct {
	source        TextSource
	parser        *parse.Parser
	engine        *tags.Engine
	fallbackTitle func(path string) string
}

// Options configures a Converter
type Options struct {
	Source TextSource
	Parser *parse.Parser
	Engine *tags.Engine

	// FallbackTitle names a recipe whose text yielded no title. Defaults to
	// the source file name without its extension.
	FallbackTitle func(path string) string
}

// New creates a Converter with the given dependencies
func New(opts Options) *Converter {
	c := &Converter{
		source:        opts.Source,
		parser:        opts.Parser,
		engine:        opts.Engine,
		fallbackTitle: opts.FallbackTitle,
	}
	if c.parser == nil {
		c.parser = parse.New()
	}
	if c.engine == nil {
		c.engine = tags.NewEngine(nil)
	}
	if c.fallbackTitle == nil {
		c.fallbackTitle = BaseName
	}
	return c
}

// Note is a converted recipe ready to be written
type Note struct {
	Recipe   recipe.Recipe
	Tags     []string
	Markdown string
	Filename string // sanitized stem plus extension
}

// Convert extracts, parses, tags and renders the document at path.
// It returns internalerr.ErrNoText when extraction produced nothing.
func (c *Converter) Convert(ctx context.Context, path string) (Note, error) {
	text := c.source.Text(ctx, path)
	if text == "" {
		return Note{}, fmt.Errorf("%s: %w", filepath.Base(path), internalerr.ErrNoText)
	}
	return c.ConvertText(text, path), nil
}

// ConvertText runs already extracted text through the pipeline; path only
// feeds the fallback title.
func (c *Converter) ConvertText(text, path string) Note {
	r := c.parser.Parse(text)
	if r.Title == "" {
		r.Title = c.fallbackTitle(path)
	}

	t := c.engine.Infer(r)
	return Note{
		Recipe:   r,
		Tags:     t,
		Markdown: note.Render(r, t),
		Filename: note.Filename(r.Title) + note.Extension,
	}
}

// BaseName returns the file name of path without its extension
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
