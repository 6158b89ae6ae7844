// Package extract provides the text source for recipe documents: pluggable
// backends that turn one file into plain text, and an Adapter that never
// fails.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/recipenote/pkg/recipenote/internalerr"
)

// Backend extracts the plain text of one document
type Backend interface {
	Text(ctx context.Context, path string) (string, error)
}

// Chain tries each backend in order and returns the first non-empty text.
// When every backend fails the errors are joined.
type Chain []Backend

// Text implements Backend
func (c Chain) Text(ctx context.Context, path string) (string, error) {
	var errs []error
	for _, b := range c {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := b.Text(ctx, path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	if len(errs) == 0 {
		return "", nil
	}
	return "", errors.Join(errs...)
}

// Router dispatches on the lowercase file extension (".pdf", ".html", ...)
type Router map[string]Backend

// Text implements Backend
func (r Router) Text(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	b, ok := r[ext]
	if !ok {
		return "", fmt.Errorf("%s: %w", ext, internalerr.ErrUnsupported)
	}
	return b.Text(ctx, path)
}

// Backend names accepted by ForName
const (
	BackendAuto = "auto"
	BackendFitz = "fitz"
	BackendPDF  = "pdf"
)

// ForName returns the router for a configured backend name. "auto" reads PDFs
// with MuPDF and falls back to the pure-Go reader.
func ForName(name string) (Router, error) {
	var pdfBackend Backend
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendAuto:
		pdfBackend = Chain{Fitz{}, PDF{}}
	case BackendFitz:
		pdfBackend = Fitz{}
	case BackendPDF:
		pdfBackend = PDF{}
	default:
		return nil, fmt.Errorf("extract backend %q: %w", name, internalerr.ErrInvalidConfig)
	}

	return Router{
		".pdf":  pdfBackend,
		".html": HTML{},
		".htm":  HTML{},
		".txt":  Plain{},
		".md":   Plain{},
	}, nil
}

// Adapter is the pipeline's view of text extraction: it returns the best
// effort text of a document, or "" after logging why extraction failed.
type Adapter struct {
	backend Backend
	logger  *slog.Logger
}

// AdapterOption configures an Adapter
type AdapterOption func(*Adapter)

// WithLogger sets the logger used for extraction diagnostics
func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdapter wraps backend
func NewAdapter(backend Backend, opts ...AdapterOption) *Adapter {
	a := &Adapter{backend: backend, logger: nopLogger}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Text returns the normalized text of the document at path. An empty result
// means extraction failed.
func (a *Adapter) Text(ctx context.Context, path string) string {
	text, err := a.backend.Text(ctx, path)
	if err != nil {
		a.logger.Error("text extraction failed", "path", path, "error", err)
		return ""
	}
	return Clean(text)
}

// Clean applies NFKC normalization so ligatures, full-width digits and
// non-breaking spaces reach the parser as plain characters.
func Clean(text string) string {
	return strings.TrimSpace(norm.NFKC.String(text))
}

var nopLogger = slog.New(slog.DiscardHandler)
