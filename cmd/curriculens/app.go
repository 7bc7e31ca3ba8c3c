package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/c360studio/curriculens/analysis"
	"github.com/c360studio/curriculens/config"
	"github.com/c360studio/curriculens/coverage"
	"github.com/c360studio/curriculens/export"
	"github.com/c360studio/curriculens/source"
	"github.com/c360studio/curriculens/taxonomy"
	"github.com/c360studio/curriculens/watch"
)

// App wires configuration, loading, analysis and export together.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer

	// metrics accumulates across runs of one process.
	metrics *analysis.Metrics
}

// NewApp creates an application for a loaded configuration.
func NewApp(cfg *config.Config, logger *slog.Logger, out io.Writer) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{cfg: cfg, logger: logger, out: out}
	if cfg.Output.MetricsFile != "" {
		a.metrics = analysis.NewMetrics()
	}
	return a
}

func (a *App) analysisOptions() (analysis.Options, error) {
	q, err := a.cfg.QualityOptions()
	if err != nil {
		return analysis.Options{}, err
	}
	return analysis.Options{
		Coverage: coverage.Options{
			Programs:      a.cfg.Input.Programs,
			ContextWindow: a.cfg.Matcher.ContextWindow,
		},
		Quality:         q,
		TextMining:      a.cfg.TextMining,
		ActivityMethods: a.cfg.Taxonomy.ActivityMethods,
		Metrics:         a.metrics,
		Logger:          a.logger,
	}, nil
}

func (a *App) newAnalyzer(opts analysis.Options) *analysis.Analyzer {
	registry := source.NewRegistry()
	loader := source.NewLoader(source.LoaderOptions{
		Sheets:         a.cfg.Input.Sheets,
		HeaderScanRows: a.cfg.Input.HeaderScanRows,
		Registry:       registry,
		Logger:         a.logger,
	})
	return analysis.NewAnalyzer(registry, loader, opts)
}

// Analyze runs one analysis of the configured inputs against dict and
// writes every configured report.
func (a *App) Analyze(ctx context.Context, dict *taxonomy.Dictionary) (*analysis.Result, error) {
	formats, err := export.ParseFormats(a.cfg.Output.Formats)
	if err != nil {
		return nil, err
	}
	opts, err := a.analysisOptions()
	if err != nil {
		return nil, err
	}

	res, err := a.newAnalyzer(opts).AnalyzePaths(ctx, a.cfg.Input.Paths, dict)
	if err != nil {
		return nil, err
	}

	files, err := export.Export(a.cfg.Output.Dir, res, formats)
	if err != nil {
		return nil, err
	}
	if a.metrics != nil {
		if err := a.metrics.WriteTextfile(a.cfg.Output.MetricsFile); err != nil {
			return nil, fmt.Errorf("write metrics: %w", err)
		}
		files = append(files, a.cfg.Output.MetricsFile)
	}

	a.printSummary(res, files)
	return res, nil
}

func (a *App) printSummary(res *analysis.Result, files []string) {
	fmt.Fprintf(a.out, "Analyzed %d programs, %d records (run %s)\n", len(res.Programs), res.Records, res.RunID)
	if res.Coverage != nil {
		fmt.Fprintf(a.out, "Themes present: %d of %d\n", len(res.Coverage.Present), len(res.Themes))
	}
	for _, p := range res.Programs {
		if p.Quality != nil {
			fmt.Fprintf(a.out, "  %-30s quality %5.1f  drafting %5.1f\n", p.Program, p.Quality.Score, p.Quality.Validation.Score)
		}
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintf(a.out, "%d warnings (see report)\n", len(res.Warnings))
	}
	for _, f := range files {
		fmt.Fprintf(a.out, "Wrote %s\n", f)
	}
}

// Watch analyzes once, then again every time the dictionary file changes,
// until ctx is done. Failed runs are logged and do not stop the loop.
func (a *App) Watch(ctx context.Context, dictPath string, debounce time.Duration) error {
	if dictPath == "" {
		return errors.New("watch needs a dictionary file (--dictionary or dictionary.path)")
	}
	dict, err := taxonomy.LoadDictionary(dictPath)
	if err != nil {
		return err
	}
	store := watch.NewStore(dict)

	w, err := watch.NewDictionaryWatcher(dictPath, store, debounce, a.logger)
	if err != nil {
		return err
	}
	defer w.Stop()
	if err := w.Start(ctx); err != nil {
		return err
	}

	a.runOnce(ctx, store)
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Watch stopped")
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if ev.Err != nil {
				fmt.Fprintf(a.out, "Dictionary not reloaded: %v\n", ev.Err)
				continue
			}
			a.runOnce(ctx, store)
		}
	}
}

func (a *App) runOnce(ctx context.Context, store *watch.Store) {
	dict := store.Load()
	if _, err := a.Analyze(ctx, dict); err != nil {
		if ctx.Err() != nil {
			return
		}
		a.logger.Error("Analysis failed", "error", err)
	}
}
