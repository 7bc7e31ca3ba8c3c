// Package analysis runs every indicator over a set of loaded programs and
// bundles the outcome into one Result.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/curriculens/coverage"
	"github.com/c360studio/curriculens/curriculum"
	"github.com/c360studio/curriculens/quality"
	"github.com/c360studio/curriculens/source"
	"github.com/c360studio/curriculens/taxonomy"
	"github.com/c360studio/curriculens/textmining"
)

// ErrNoDictionary is returned when a run has no thematic dictionary.
var ErrNoDictionary = errors.New("no thematic dictionary")

// ErrNoInputs is returned when input patterns match nothing.
var ErrNoInputs = errors.New("no input files matched")

// Options configure a run.
type Options struct {
	Coverage   coverage.Options
	Quality    quality.Options
	TextMining textmining.Options

	// ActivityMethods classify learning activities; nil uses
	// curriculum.DefaultActivityMethods.
	ActivityMethods []curriculum.ActivityMethod

	// Metrics, when set, is updated after every run.
	Metrics *Metrics
	Logger  *slog.Logger
}

// DefaultOptions returns the built-in thresholds and weights.
func DefaultOptions() Options {
	return Options{
		Coverage:        coverage.Options{ContextWindow: 100},
		Quality:         quality.DefaultOptions(),
		TextMining:      textmining.DefaultOptions(),
		ActivityMethods: curriculum.DefaultActivityMethods(),
	}
}

// ProgramReport is the per-program part of a run.
type ProgramReport struct {
	Program    string                  `json:"program"`
	SourceFile string                  `json:"source_file,omitempty"`
	Quality    *quality.Report         `json:"quality"`
	Workload   curriculum.Workload     `json:"workload"`
	Micro      curriculum.MicroProfile `json:"micro"`
}

// Result is the full outcome of a run.
type Result struct {
	RunID      string               `json:"run_id"`
	StartedAt  time.Time            `json:"started_at"`
	Duration   time.Duration        `json:"duration_ns"`
	Themes     []taxonomy.Theme     `json:"themes"`
	Records    int                  `json:"records"`
	Programs   []ProgramReport      `json:"programs"`
	Coverage   *coverage.Result     `json:"coverage"`
	TextMining *textmining.Result   `json:"text_mining"`
	Warnings   []curriculum.Warning `json:"warnings"`
}

// activities flattens the programs' activities in load order.
func activities(programs []*curriculum.Program) []curriculum.Activity {
	var out []curriculum.Activity
	for _, p := range programs {
		out = append(out, p.Activities...)
	}
	return out
}

// Run analyzes programs against one dictionary snapshot. Warnings already
// collected while loading are carried into the result.
func Run(ctx context.Context, programs []*curriculum.Program, dict *taxonomy.Dictionary, w *curriculum.Warnings, opts Options) (*Result, error) {
	if dict == nil {
		return nil, ErrNoDictionary
	}
	if err := opts.Quality.Validate(); err != nil {
		return nil, err
	}
	if err := opts.TextMining.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	res := &Result{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Themes:    dict.Themes(),
	}
	methods := opts.ActivityMethods
	if methods == nil {
		methods = curriculum.DefaultActivityMethods()
	}
	logger = logger.With("run_id", res.RunID)
	logger.Info("Analysis started", "programs", len(programs), "themes", dict.Len())

	acts := activities(programs)
	res.Records = len(acts)

	covOpts := opts.Coverage
	covOpts.Programs = declaredPrograms(opts.Coverage.Programs, programs)
	res.Coverage = coverage.Aggregate(acts, dict, covOpts)

	for _, p := range programs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report, err := quality.Score(p, opts.Quality)
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", p.Name, err)
		}
		res.Programs = append(res.Programs, ProgramReport{
			Program:    p.Name,
			SourceFile: p.SourceFile,
			Quality:    report,
			Workload:   curriculum.SummarizeWorkload(p.Name, p.Activities),
			Micro:      curriculum.SummarizeMicro(p.Name, p.Activities, methods),
		})
		logger.Debug("Program scored", "program", p.Name, "score", report.Score)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.TextMining = textmining.Analyze(textmining.Documents(acts), opts.TextMining)
	if !res.TextMining.Similarity.Computed {
		logger.Info("Subject similarity skipped", "reason", res.TextMining.Similarity.Reason)
	}

	res.Warnings = w.Items()
	res.Duration = time.Since(res.StartedAt)

	if opts.Metrics != nil {
		opts.Metrics.Observe(res)
	}
	logger.Info("Analysis finished",
		"records", res.Records,
		"present_themes", len(res.Coverage.Present),
		"warnings", len(res.Warnings),
		"duration", res.Duration)
	return res, nil
}

// declaredPrograms lists configured programs first, then loaded ones.
func declaredPrograms(configured []string, programs []*curriculum.Program) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range configured {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, p := range programs {
		if !seen[p.Name] {
			seen[p.Name] = true
			out = append(out, p.Name)
		}
	}
	return out
}

// Analyzer discovers, loads and analyzes input files.
type Analyzer struct {
	registry *source.Registry
	loader   *source.Loader
	opts     Options
}

// NewAnalyzer creates an analyzer. A nil registry uses
// source.DefaultRegistry.
func NewAnalyzer(registry *source.Registry, loader *source.Loader, opts Options) *Analyzer {
	if registry == nil {
		registry = source.DefaultRegistry
	}
	if loader == nil {
		loader = source.NewLoader(source.LoaderOptions{Registry: registry, Logger: opts.Logger})
	}
	return &Analyzer{registry: registry, loader: loader, opts: opts}
}

// AnalyzePaths expands patterns, loads every match and runs the analysis
// with dict.
func (a *Analyzer) AnalyzePaths(ctx context.Context, patterns []string, dict *taxonomy.Dictionary) (*Result, error) {
	paths, err := a.registry.Discover(patterns)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoInputs, patterns)
	}

	var w curriculum.Warnings
	programs, err := a.loader.LoadAll(ctx, paths, &w)
	if err != nil {
		return nil, err
	}
	return Run(ctx, programs, dict, &w, a.opts)
}
