package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/curriculens/analysis"
	"github.com/c360studio/curriculens/config"
	"github.com/c360studio/curriculens/export"
	"github.com/c360studio/curriculens/matcher"
	"github.com/c360studio/curriculens/taxonomy"
	"github.com/c360studio/curriculens/watch"
)

// loadApp builds the logger and the layered configuration for cmd.
func loadApp(cmd *cobra.Command, g *globalFlags) (*App, error) {
	logger := newLogger(g.logLevel, cmd.ErrOrStderr())
	cfg, err := config.NewLoader(logger).Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewApp(cfg, logger, cmd.OutOrStdout()), nil
}

// dictionaryFlag overrides dictionary.path when set.
func dictionaryFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "dictionary", "d", "", "Thematic dictionary file (YAML or JSON)")
}

func analyzeCmd(g *globalFlags) *cobra.Command {
	var (
		outDir      string
		formats     []string
		metricsFile string
		dictPath    string
	)

	cmd := &cobra.Command{
		Use:   "analyze [paths or globs...]",
		Short: "Analyze program workbooks and write reports",
		Long: `Analyze loads every workbook matching the given paths or doublestar
globs (input.paths when none are given), runs all indicators and writes
the reports to the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			applyOverrides(app, args, outDir, formats, metricsFile, dictPath)
			if err := app.cfg.Validate(); err != nil {
				return err
			}

			dict, err := app.cfg.LoadDictionary()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			_, err = app.Analyze(ctx, dict)
			return err
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil,
		"Report formats ("+strings.Join(export.Names(), ", ")+")")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format")
	dictionaryFlag(cmd, &dictPath)
	return cmd
}

func applyOverrides(app *App, paths []string, outDir string, formats []string, metricsFile, dictPath string) {
	if len(paths) > 0 {
		app.cfg.Input.Paths = paths
	}
	if outDir != "" {
		app.cfg.Output.Dir = outDir
	}
	if len(formats) > 0 {
		app.cfg.Output.Formats = formats
	}
	if metricsFile != "" {
		app.cfg.Output.MetricsFile = metricsFile
		if app.metrics == nil {
			app.metrics = analysis.NewMetrics()
		}
	}
	if dictPath != "" {
		app.cfg.Dictionary.Path = dictPath
	}
}

func matchCmd(g *globalFlags) *cobra.Command {
	var (
		contextWindow int
		dictPath      string
	)

	cmd := &cobra.Command{
		Use:   "match <text>",
		Short: "Show which themes a piece of text mentions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			if dictPath != "" {
				app.cfg.Dictionary.Path = dictPath
			}
			dict, err := app.cfg.LoadDictionary()
			if err != nil {
				return err
			}
			if contextWindow < 0 {
				return fmt.Errorf("--context must not be negative, got %d", contextWindow)
			}

			results := matcher.Match(strings.Join(args, " "), dict, matcher.Options{ContextWindow: contextWindow})
			ids := matcher.MatchedThemes(dict, results)
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No themes detected")
				return nil
			}
			for _, id := range ids {
				r := results[id]
				fmt.Fprintf(out, "%s (%d): %s\n", id, r.Count, strings.Join(r.Forms, ", "))
				if r.Context != "" {
					fmt.Fprintf(out, "  %s\n", r.Context)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&contextWindow, "context", matcher.DefaultContextWindow, "Characters of context around the first match (0 disables)")
	dictionaryFlag(cmd, &dictPath)
	return cmd
}

func themesCmd(g *globalFlags) *cobra.Command {
	var dictPath string

	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List or edit the thematic dictionary",
	}
	cmd.PersistentFlags().StringVarP(&dictPath, "dictionary", "d", "", "Thematic dictionary file (YAML or JSON)")

	load := func(cmd *cobra.Command) (*App, *taxonomy.Dictionary, error) {
		app, err := loadApp(cmd, g)
		if err != nil {
			return nil, nil, err
		}
		if dictPath != "" {
			app.cfg.Dictionary.Path = dictPath
		}
		dict, err := app.cfg.LoadDictionary()
		return app, dict, err
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dict, err := load(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLABEL\tKEYWORDS")
			for _, t := range dict.Themes() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.DisplayLabel(), strings.Join(t.Keywords, ", "))
			}
			return tw.Flush()
		},
	})

	var (
		label    string
		color    string
		keywords []string
		output   string
	)
	save := func(cmd *cobra.Command, app *App, d *taxonomy.Dictionary) error {
		target := output
		if target == "" {
			target = app.cfg.Dictionary.Path
		}
		if target == "" {
			return errors.New("--output is required when editing the built-in dictionary")
		}
		if err := taxonomy.SaveDictionary(target, d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d themes to %s\n", d.Len(), target)
		return nil
	}

	add := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a theme, or replace the theme with the same ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, dict, err := load(cmd)
			if err != nil {
				return err
			}
			next, err := dict.WithTheme(taxonomy.Theme{ID: args[0], Label: label, Color: color, Keywords: keywords})
			if err != nil {
				return err
			}
			return save(cmd, app, next)
		},
	}
	add.Flags().StringVar(&label, "label", "", "Human-readable label")
	add.Flags().StringVar(&color, "color", "", "Presentation color (e.g. #2ECC71)")
	add.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "Keyword (repeatable or comma separated)")
	add.Flags().StringVar(&output, "output", "", "File to write (default: the dictionary file)")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, dict, err := load(cmd)
			if err != nil {
				return err
			}
			next, err := dict.WithoutTheme(args[0])
			if err != nil {
				return err
			}
			return save(cmd, app, next)
		},
	}
	remove.Flags().StringVar(&output, "output", "", "File to write (default: the dictionary file)")

	cmd.AddCommand(add, remove)
	return cmd
}

func watchCmd(g *globalFlags) *cobra.Command {
	var (
		outDir   string
		formats  []string
		dictPath string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [paths or globs...]",
		Short: "Re-run the analysis whenever the dictionary file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			applyOverrides(app, args, outDir, formats, "", dictPath)
			if err := app.cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return app.Watch(ctx, app.cfg.Dictionary.Path, debounce)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "Report formats")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounceDelay, "Quiet period before reloading")
	dictionaryFlag(cmd, &dictPath)
	return cmd
}

func validateConfigCmd(g *globalFlags) *cobra.Command {
	var (
		show     bool
		initUser bool
	)

	cmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Check the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initUser {
				if err := config.NewLoader(newLogger(g.logLevel, cmd.ErrOrStderr())).EnsureUserConfig(); err != nil {
					return err
				}
			}
			app, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			if _, err := export.ParseFormats(app.cfg.Output.Formats); err != nil {
				return err
			}
			if _, err := app.cfg.LoadDictionary(); err != nil {
				return err
			}
			if _, err := app.cfg.QualityOptions(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if show {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(app.cfg); err != nil {
					return err
				}
				if err := enc.Close(); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, "Configuration is valid")
			return nil
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the effective configuration")
	cmd.Flags().BoolVar(&initUser, "init-user", false, "Create the user config file with defaults when missing")
	return cmd
}
