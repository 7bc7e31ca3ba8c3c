// Package config provides configuration loading and management for curriculens.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/curriculens/curriculum"
	"github.com/c360studio/curriculens/quality"
	"github.com/c360studio/curriculens/source"
	"github.com/c360studio/curriculens/taxonomy"
	"github.com/c360studio/curriculens/textmining"
)

// Config represents the complete curriculens configuration
type Config struct {
	Input               InputConfig                 `yaml:"input"`
	Output              OutputConfig                `yaml:"output"`
	Dictionary          DictionaryConfig            `yaml:"dictionary"`
	Taxonomy            TaxonomyConfig              `yaml:"taxonomy"`
	Weights             quality.Weights             `yaml:"weights"`
	CompletenessWeights quality.CompletenessWeights `yaml:"completeness_weights"`
	Matcher             MatcherConfig               `yaml:"matcher"`
	TextMining          textmining.Options          `yaml:"textmining"`
}

// InputConfig configures where program workbooks come from
type InputConfig struct {
	// Paths are files, directories or doublestar globs
	Paths []string `yaml:"paths"`
	// Programs are always reported, even when none of their files load
	Programs []string `yaml:"programs,omitempty"`
	// Sheets overrides the sheet names of the workbook template
	Sheets source.SheetNames `yaml:"sheets"`
	// HeaderScanRows is how many leading rows are searched for a header
	HeaderScanRows int `yaml:"header_scan_rows"`
}

// OutputConfig configures report output
type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
	// MetricsFile, when set, receives run metrics in Prometheus text format
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// DictionaryConfig locates the thematic dictionary (empty = built-in)
type DictionaryConfig struct {
	Path string `yaml:"path"`
}

// TaxonomyConfig overrides the cognitive taxonomy and its helper tables
type TaxonomyConfig struct {
	// Path to a levels file (empty = built-in Bloom verbs)
	Path                string                `yaml:"path"`
	DomainRules         []taxonomy.DomainRule `yaml:"domain_rules,omitempty"`
	ActiveMethodologies []string              `yaml:"active_methodologies,omitempty"`
	// ActivityMethods classify learning activity texts (empty = built-in)
	ActivityMethods []curriculum.ActivityMethod `yaml:"activity_methods,omitempty"`
}

// MatcherConfig configures keyword matching
type MatcherConfig struct {
	// ContextWindow is the snippet size around a match (0 = no snippet)
	ContextWindow int `yaml:"context_window"`
}

// Error reports an invalid configuration value
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err comes from configuration validation
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

func invalid(field string, err error) error {
	return &Error{Field: field, Err: err}
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Paths:          []string{"*.xlsx"},
			Sheets:         source.DefaultSheetNames(),
			HeaderScanRows: source.DefaultHeaderScanRows,
		},
		Output: OutputConfig{
			Dir:     "out",
			Formats: []string{"json", "md"},
		},
		Weights:             quality.DefaultWeights(),
		CompletenessWeights: quality.DefaultCompletenessWeights(),
		Matcher: MatcherConfig{
			ContextWindow: 100,
		},
		TextMining: textmining.DefaultOptions(),
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if len(c.Input.Paths) == 0 {
		return invalid("input.paths", errors.New("at least one path or glob is required"))
	}
	for _, p := range c.Input.Paths {
		if strings.TrimSpace(p) == "" {
			return invalid("input.paths", errors.New("blank entry"))
		}
	}
	if c.Input.HeaderScanRows < 1 {
		return invalid("input.header_scan_rows", fmt.Errorf("must be positive, got %d", c.Input.HeaderScanRows))
	}
	if c.Output.Dir == "" {
		return invalid("output.dir", errors.New("is required"))
	}
	if len(c.Output.Formats) == 0 {
		return invalid("output.formats", errors.New("at least one format is required"))
	}
	if err := c.Weights.Validate(); err != nil {
		return invalid("weights", err)
	}
	if err := c.CompletenessWeights.Validate(); err != nil {
		return invalid("completeness_weights", err)
	}
	for _, r := range c.Taxonomy.DomainRules {
		if strings.TrimSpace(r.Pattern) == "" || !r.Level.Valid() {
			return invalid("taxonomy.domain_rules", fmt.Errorf("%w: %q -> %d", taxonomy.ErrInvalidLevel, r.Pattern, r.Level))
		}
	}
	for _, m := range c.Taxonomy.ActivityMethods {
		if strings.TrimSpace(m.Name) == "" || len(m.Keywords) == 0 {
			return invalid("taxonomy.activity_methods", fmt.Errorf("method %q needs a name and keywords", m.Name))
		}
	}
	if c.Matcher.ContextWindow < 0 {
		return invalid("matcher.context_window", fmt.Errorf("must not be negative, got %d", c.Matcher.ContextWindow))
	}
	if err := c.TextMining.Validate(); err != nil {
		return invalid("textmining", err)
	}
	if c.TextMining.MinSubjects < textmining.MinSimilaritySubjects {
		return invalid("textmining.min_subjects", fmt.Errorf("must be at least %d, got %d", textmining.MinSimilaritySubjects, c.TextMining.MinSubjects))
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.overlay(path); err != nil {
		return nil, err
	}
	return config, nil
}

// overlay decodes path onto c; keys absent from the file keep their value
func (c *Config) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.resolvePaths(filepath.Dir(path))
	return nil
}

// resolvePaths makes file references relative to the config file's directory
func (c *Config) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.Dictionary.Path = abs(c.Dictionary.Path)
	c.Taxonomy.Path = abs(c.Taxonomy.Path)
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDictionary returns the configured thematic dictionary
func (c *Config) LoadDictionary() (*taxonomy.Dictionary, error) {
	if c.Dictionary.Path == "" {
		return taxonomy.DefaultDictionary(), nil
	}
	d, err := taxonomy.LoadDictionary(c.Dictionary.Path)
	if err != nil {
		return nil, invalid("dictionary.path", err)
	}
	return d, nil
}

// QualityOptions builds the scoring options, loading the taxonomy override
// when one is configured
func (c *Config) QualityOptions() (quality.Options, error) {
	opts := quality.DefaultOptions()
	opts.Weights = c.Weights
	opts.CompletenessWeights = c.CompletenessWeights

	if c.Taxonomy.Path != "" {
		tax, err := taxonomy.LoadCognitiveTaxonomy(c.Taxonomy.Path)
		if err != nil {
			return quality.Options{}, invalid("taxonomy.path", err)
		}
		opts.Taxonomy = tax
	}
	if len(c.Taxonomy.DomainRules) > 0 {
		opts.DomainRules = c.Taxonomy.DomainRules
	}
	if len(c.Taxonomy.ActiveMethodologies) > 0 {
		opts.ActiveMethodologies = c.Taxonomy.ActiveMethodologies
	}
	return opts, nil
}
