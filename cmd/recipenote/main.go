package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cognicore/recipenote/pkg/recipenote"
	"github.com/cognicore/recipenote/pkg/recipenote/batch"
	"github.com/cognicore/recipenote/pkg/recipenote/config"
	"github.com/cognicore/recipenote/pkg/recipenote/extract"
	"github.com/cognicore/recipenote/pkg/recipenote/internalerr"
	"github.com/cognicore/recipenote/pkg/recipenote/store"
	"github.com/cognicore/recipenote/pkg/recipenote/store/memstore"
	"github.com/cognicore/recipenote/pkg/recipenote/store/sqlite"
)

// overrides holds flag values; empty strings leave settings untouched
type overrides struct {
	dir, pattern, out, taxonomy, ledger, backend string
}

func main() {
	var (
		configPath = flag.String("config", "", "Settings file (default recipenote.toml if present)")
		o          overrides
	)
	flag.StringVar(&o.dir, "dir", "", "Directory holding the recipe documents")
	flag.StringVar(&o.pattern, "pattern", "", "Glob for input documents")
	flag.StringVar(&o.out, "out", "", "Output directory for notes")
	flag.StringVar(&o.taxonomy, "taxonomy", "", "Taxonomy YAML file (optional)")
	flag.StringVar(&o.ledger, "ledger", "", "SQLite conversion ledger (optional)")
	flag.StringVar(&o.backend, "backend", "", "PDF backend: auto|fitz|pdf")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load settings:", err)
	}
	settings = o.apply(settings)

	fmt.Println("Recipe PDF to Obsidian Markdown Converter")
	fmt.Println("==================================================")
	fmt.Printf("Input directory: %s\n", settings.Input.Dir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	runner, cleanup, err := buildRunner(ctx, settings, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	sum, err := runner.Run(ctx)
	if errors.Is(err, internalerr.ErrNoInput) {
		cleanup()
		os.Exit(1)
	}
	if err != nil {
		log.Printf("Run interrupted: %v", err)
	}

	fmt.Printf("\nConversion complete! %d created, %d failed. Notes are in %s\n",
		sum.Successful, sum.Failed, sum.OutputDir)
}

func (o overrides) apply(s config.Settings) config.Settings {
	if o.dir != "" {
		s.Input.Dir = o.dir
	}
	if o.pattern != "" {
		s.Input.Pattern = o.pattern
	}
	if o.out != "" {
		s.Output.Dir = o.out
	}
	if o.taxonomy != "" {
		s.Taxonomy.Path = o.taxonomy
	}
	if o.ledger != "" {
		s.Ledger.Path = o.ledger
	}
	if o.backend != "" {
		s.Extract.Backend = o.backend
	}
	return s
}

// buildRunner wires settings into a batch runner. The returned cleanup closes
// the ledger and is safe to call more than once.
func buildRunner(ctx context.Context, s config.Settings, logger *slog.Logger) (*batch.Runner, func(), error) {
	loader := config.Loader{TaxonomyPath: s.Taxonomy.Path}
	components, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	backend, err := extract.ForName(s.Extract.Backend)
	if err != nil {
		return nil, nil, err
	}

	var ledger store.Ledger = memstore.New()
	if s.Ledger.Path != "" {
		ledger, err = sqlite.OpenSQLite(ctx, s.Ledger.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open ledger: %w", err)
		}
	}

	converter := recipenote.New(recipenote.Options{
		Source:        extract.NewAdapter(backend, extract.WithLogger(logger)),
		Parser:        components.Parser,
		Engine:        components.Engine,
		FallbackTitle: batch.TitleFromPattern(s.Input.Pattern),
	})

	runner := batch.New(batch.Options{
		Converter: converter,
		InputDir:  s.Input.Dir,
		Pattern:   s.Input.Pattern,
		OutputDir: s.OutputDir(),
		Ledger:    ledger,
		Logger:    logger,
	})

	closed := false
	cleanup := func() {
		if closed {
			return
		}
		closed = true
		if err := ledger.Close(); err != nil {
			log.Printf("Failed to close ledger: %v", err)
		}
	}
	return runner, cleanup, nil
}
