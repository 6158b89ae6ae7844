package note

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Summary is what Read recovers from a rendered note
type Summary struct {
	Title    string
	Tags     []string
	Sections []string
}

var reader = goldmark.New()

// Read parses a markdown note and returns its title (first level-1 heading),
// its tags (the first paragraph made only of #tag tokens) and the names of its
// level-2 sections in document order.
func Read(source []byte) (Summary, error) {
	var s Summary
	doc := reader.Parser().Parse(text.NewReader(source))

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			label := inlineText(node, source)
			switch {
			case node.Level == 1 && s.Title == "":
				s.Title = label
			case node.Level == 2:
				s.Sections = append(s.Sections, label)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if s.Tags == nil {
				if tags, ok := tagLine(inlineText(node, source)); ok {
					s.Tags = tags
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return s, err
}

// inlineText concatenates the raw text segments under n
func inlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

func tagLine(line string) ([]string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || f[0] != '#' {
			return nil, false
		}
		tags = append(tags, f[1:])
	}
	return tags, true
}
