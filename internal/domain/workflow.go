package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"

	"retype.dev/pkg/retype/internal/adapter"
	"retype.dev/pkg/retype/internal/controller"
	"retype.dev/pkg/retype/internal/domain/indent"
	m "retype.dev/pkg/retype/internal/model"
)

// RunArgs contains the arguments for annotating a compiled program.
type RunArgs struct {
	Typedefs m.Path
	Input    m.Path
	Output   m.Path
	Symbols  m.Path
	NoCache  bool
	DryRun   bool
}

// IndexArgs contains the arguments for rebuilding the symbol cache.
type IndexArgs struct {
	Typedefs m.Path
	Symbols  m.Path
}

// StatsArgs contains the arguments for a coverage-only walk.
type StatsArgs struct {
	Typedefs m.Path
	Input    m.Path
	Symbols  m.Path
	NoCache  bool
}

// Config groups the conventions of the corpus and the compiled program.
type Config struct {
	Corpus    CorpusConfig
	Resolver  ResolverConfig
	Annotator AnnotatorConfig
}

// DefaultConfig returns the Impact conventions.
func DefaultConfig() Config {
	return Config{
		Corpus:    DefaultCorpusConfig(),
		Resolver:  DefaultResolverConfig(),
		Annotator: DefaultAnnotatorConfig(),
	}
}

// Workflow sequences the annotation pipeline.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	Index(ctx context.Context, args IndexArgs) error
	Stats(ctx context.Context, args StatsArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.SyntaxAdapter
	adapter.SymbolStore
	adapter.Normalizer
	adapter.AliasSource
	controller.UI

	config Config
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	syntaxAdapter adapter.SyntaxAdapter,
	symbolStore adapter.SymbolStore,
	normalizer adapter.Normalizer,
	aliasSource adapter.AliasSource,
	ui controller.UI,
	config Config,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		SyntaxAdapter:   syntaxAdapter,
		SymbolStore:     symbolStore,
		Normalizer:      normalizer,
		AliasSource:     aliasSource,
		UI:              ui,
		config:          config,
	}
}

type namedPath struct {
	name string
	path m.Path
}

func requirePaths(paths ...namedPath) error {
	for _, p := range paths {
		if p.path == "" {
			slog.Error("Missing required path", "key", p.name)
			return fmt.Errorf("%w: %s", ErrMissingConfig, p.name)
		}
	}

	return nil
}

// Run annotates the compiled program and writes the result, or prints a
// unified diff when DryRun is set.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	err := requirePaths(
		namedPath{"paths.typedefs", args.Typedefs},
		namedPath{"paths.input", args.Input},
		namedPath{"paths.output", args.Output},
	)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithRunMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	src, annotation, err := w.annotate(ctx, args.Typedefs, args.Input, args.Symbols, args.NoCache, true)
	if err != nil {
		return err
	}

	w.DisplayStage(ctx, controller.StageApply)

	output, err := Apply(src, annotation.Edits)
	if err != nil {
		slog.Error("Failed to apply edits", "edits", len(annotation.Edits), "error", err)
		return fmt.Errorf("apply edits: %w", err)
	}

	if args.DryRun {
		diff, err := UnifiedDiff(string(args.Input), string(args.Output), src, output)
		if err != nil {
			slog.Error("Failed to render diff", "error", err)
			return fmt.Errorf("render diff: %w", err)
		}

		if err := w.DisplayDiff(ctx, diff); err != nil {
			return fmt.Errorf("display diff: %w", err)
		}
	} else {
		w.DisplayStage(ctx, controller.StageWrite)

		if err := w.WriteFile(ctx, args.Output, output, 0o644); err != nil {
			slog.Error("Failed to write output", "path", args.Output, "error", err)
			return fmt.Errorf("write output %s: %w", args.Output, err)
		}

		w.DisplayWritten(ctx, args.Output, len(annotation.Edits))
	}

	if err := w.DisplayCoverage(ctx, annotation.Coverage); err != nil {
		return fmt.Errorf("display coverage: %w", err)
	}

	return nil
}

// Index loads the corpus ignoring any cache and rewrites the symbol cache.
func (w *workflow) Index(ctx context.Context, args IndexArgs) error {
	err := requirePaths(
		namedPath{"paths.typedefs", args.Typedefs},
		namedPath{"paths.symbols", args.Symbols},
	)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithIndexMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	w.DisplayStage(ctx, controller.StageSymbols)

	loader := NewLoader(w.SourceFSAdapter, w.SyntaxAdapter, w.config.Corpus)

	units, err := loader.Units(ctx, args.Typedefs)
	if err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}

	table, err := loader.Load(ctx, units)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	if err := w.SaveSymbols(ctx, args.Symbols, table); err != nil {
		slog.Error("Failed to save symbol cache", "path", args.Symbols, "error", err)
		return fmt.Errorf("save symbols: %w", err)
	}

	w.DisplayIndexed(ctx, args.Symbols, len(table.Modules), len(table.ClassPathToModule))

	return nil
}

// Stats walks the compiled program without generating edits and reports
// coverage only.
func (w *workflow) Stats(ctx context.Context, args StatsArgs) error {
	err := requirePaths(
		namedPath{"paths.typedefs", args.Typedefs},
		namedPath{"paths.input", args.Input},
	)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithStatsMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	_, annotation, err := w.annotate(ctx, args.Typedefs, args.Input, args.Symbols, args.NoCache, false)
	if err != nil {
		return err
	}

	if err := w.DisplayCoverage(ctx, annotation.Coverage); err != nil {
		return fmt.Errorf("display coverage: %w", err)
	}

	return nil
}

// annotate runs the shared front half of the pipeline and returns the
// normalized program together with its annotation.
func (w *workflow) annotate(
	ctx context.Context,
	typedefs, input, symbols m.Path,
	noCache, generate bool,
) ([]byte, Annotation, error) {
	w.DisplayStage(ctx, controller.StageNormalize)

	raw, err := w.ReadFile(ctx, input)
	if err != nil {
		slog.Error("Failed to read compiled program", "path", input, "error", err)
		return nil, Annotation{}, fmt.Errorf("read input %s: %w", input, err)
	}

	src, err := w.Normalize(ctx, raw)
	if err != nil {
		slog.Error("Failed to normalize compiled program", "path", input, "error", err)
		return nil, Annotation{}, fmt.Errorf("normalize input: %w", err)
	}

	w.DisplayStage(ctx, controller.StageSymbols)

	loader := NewLoader(w.SourceFSAdapter, w.SyntaxAdapter, w.config.Corpus)

	units, err := loader.Units(ctx, typedefs)
	if err != nil {
		return nil, Annotation{}, fmt.Errorf("read corpus: %w", err)
	}

	table, err := w.symbols(ctx, loader, units, symbols, noCache)
	if err != nil {
		return nil, Annotation{}, err
	}

	w.DisplayStage(ctx, controller.StageAliases)

	groups, err := w.Aliases(ctx)
	if err != nil {
		slog.Error("Failed to load alias table", "error", err)
		return nil, Annotation{}, fmt.Errorf("load aliases: %w", err)
	}

	slog.Debug("aliases applied", "count", ApplyAliases(table, groups))

	var styles map[string]indent.Style

	if generate {
		styles, err = Profiles(ctx, units)
		if err != nil {
			return nil, Annotation{}, fmt.Errorf("profile corpus: %w", err)
		}
	}

	resolver, err := NewResolver(table, w.config.Resolver)
	if err != nil {
		return nil, Annotation{}, fmt.Errorf("create resolver: %w", err)
	}

	w.DisplayStage(ctx, controller.StageAnnotate)

	tree, err := w.Parse(ctx, m.LanguageJavaScript, src)
	if err != nil {
		slog.Error("Failed to parse compiled program", "path", input, "error", err)
		return nil, Annotation{}, fmt.Errorf("parse input: %w", err)
	}
	defer tree.Close()

	config := w.config.Annotator
	config.GenerateEdits = generate

	annotation, err := NewAnnotator(resolver, config, styles).Annotate(ctx, tree.RootNode(), src)
	if err != nil {
		return nil, Annotation{}, fmt.Errorf("annotate %s: %w", input, err)
	}

	return src, annotation, nil
}

// symbols returns the cached table when allowed, otherwise loads the corpus
// and refreshes the cache.
func (w *workflow) symbols(
	ctx context.Context,
	loader *Loader,
	units []m.DeclarationUnit,
	path m.Path,
	noCache bool,
) (*m.SymbolTable, error) {
	if !noCache && path != "" {
		table, err := w.LoadSymbols(ctx, path)

		switch {
		case err == nil:
			slog.Debug("symbol cache hit", "path", path)
			return table, nil
		case errors.Is(err, adapter.ErrNoSymbolCache):
			slog.Debug("symbol cache miss", "path", path)
		default:
			slog.Warn("symbol cache unreadable, rebuilding", "path", path, "error", err)
		}
	}

	table, err := loader.Load(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	if path == "" || noCache {
		return table, nil
	}

	if err := w.SaveSymbols(ctx, path, table); err != nil {
		slog.Error("Failed to save symbol cache", "path", path, "error", err)
		return nil, fmt.Errorf("save symbols: %w", err)
	}

	return table, nil
}

// UnifiedDiff renders the change from before to after with three lines of
// context.
func UnifiedDiff(fromName, toName string, before, after []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
}
