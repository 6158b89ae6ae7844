package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// Fitz reads PDFs through MuPDF
type Fitz struct{}

// Text implements Backend
func (Fitz) Text(ctx context.Context, path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("fitz open %s: %w", path, err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("fitz page %d of %s: %w", i+1, path, err)
		}
		b.WriteString(page)
	}
	return b.String(), nil
}

// PDF reads PDFs with the pure-Go ledongthuc/pdf reader
type PDF struct{}

// Text implements Backend
func (PDF) Text(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(content) == 0 {
		return "", fmt.Errorf("empty pdf %s", path)
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d of %s: %w", i, path, err)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
