package recipenote

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/recipenote/pkg/recipenote/internalerr"
)

type fixedSource map[string]string

func (f fixedSource) Text(ctx context.Context, path string) string { return f[path] }

func TestConvert(t *testing.T) {
	src := fixedSource{
		"Part1.pdf": "Turkey Bacon Breakfast Burrito. 350 calories Ingredients 2 eggs Directions 1. Cook bacon",
	}
	n, err := New(Options{Source: src}).Convert(context.Background(), "Part1.pdf")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if n.Recipe.Title != "Turkey Bacon Breakfast Burrito" {
		t.Errorf("Title = %q", n.Recipe.Title)
	}
	if n.Filename != "Turkey_Bacon_Breakfast_Burrito.md" {
		t.Errorf("Filename = %q", n.Filename)
	}
	if !reflect.DeepEqual(n.Tags, []string{"breakfast", "burrito", "egg", "pork", "turkey"}) {
		t.Errorf("Tags = %v", n.Tags)
	}
	if !strings.HasPrefix(n.Markdown, "# Turkey Bacon Breakfast Burrito\n\n#breakfast") {
		t.Errorf("Markdown = %q", n.Markdown)
	}
}

func TestConvertNoText(t *testing.T) {
	_, err := New(Options{Source: fixedSource{}}).Convert(context.Background(), "/in/Part2.pdf")
	if !errors.Is(err, internalerr.ErrNoText) {
		t.Errorf("expected ErrNoText, got %v", err)
	}
}

func TestConvertTextFallbackTitle(t *testing.T) {
	c := New(Options{Source: fixedSource{}})
	n := c.ConvertText("350 calories. 2 eggs.", "/in/Part4.pdf")
	if n.Recipe.Title != "Part4" {
		t.Errorf("Title = %q, want the file name", n.Recipe.Title)
	}
	if n.Filename != "Part4.md" {
		t.Errorf("Filename = %q", n.Filename)
	}

	custom := New(Options{Source: fixedSource{}, FallbackTitle: func(string) string { return "Recipe 4" }})
	if got := custom.ConvertText("", "/in/Part4.pdf").Recipe.Title; got != "Recipe 4" {
		t.Errorf("custom fallback Title = %q", got)
	}
}

func TestBaseName(t *testing.T) {
	if got := BaseName("/a/b/Tasty_Part3.pdf"); got != "Tasty_Part3" {
		t.Errorf("BaseName = %q", got)
	}
}
