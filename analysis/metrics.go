package analysis

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes run results as Prometheus metrics. Each Metrics owns its
// registry so several can coexist (tests, watch mode).
type Metrics struct {
	registry *prometheus.Registry

	runs          prometheus.Counter
	warnings      prometheus.Counter
	duration      prometheus.Histogram
	programs      prometheus.Gauge
	records       prometheus.Gauge
	diversity     prometheus.Gauge
	themeMentions *prometheus.GaugeVec
	themePrograms *prometheus.GaugeVec
	qualityScore  *prometheus.GaugeVec
}

// NewMetrics creates and registers the run metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "curriculens_runs_total",
			Help: "Completed analysis runs.",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "curriculens_warnings_total",
			Help: "Data warnings reported across runs.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "curriculens_run_duration_seconds",
			Help:    "Wall time of analysis runs.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		programs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "curriculens_programs",
			Help: "Programs in the last run.",
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "curriculens_records",
			Help: "Activity records in the last run.",
		}),
		diversity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "curriculens_tag_diversity_index",
			Help: "Normalized Shannon diversity of thematic tags in the last run.",
		}),
		themeMentions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "curriculens_theme_mentions",
			Help: "Keyword matches per theme in the last run.",
		}, []string{"theme"}),
		themePrograms: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "curriculens_theme_programs",
			Help: "Programs with at least one match per theme in the last run.",
		}, []string{"theme"}),
		qualityScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "curriculens_quality_score",
			Help: "Composite quality score per program in the last run.",
		}, []string{"program"}),
	}
	m.registry.MustRegister(m.runs, m.warnings, m.duration, m.programs, m.records,
		m.diversity, m.themeMentions, m.themePrograms, m.qualityScore)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records a finished run. Per-theme and per-program gauges are
// reset so removed themes or programs do not linger.
func (m *Metrics) Observe(r *Result) {
	m.runs.Inc()
	m.warnings.Add(float64(len(r.Warnings)))
	m.duration.Observe(r.Duration.Seconds())
	m.programs.Set(float64(len(r.Programs)))
	m.records.Set(float64(r.Records))

	m.themeMentions.Reset()
	m.themePrograms.Reset()
	if r.Coverage != nil {
		m.diversity.Set(r.Coverage.Diversity.Index)
		for _, t := range r.Coverage.Themes {
			m.themeMentions.WithLabelValues(t.Theme).Set(float64(t.Mentions))
			m.themePrograms.WithLabelValues(t.Theme).Set(float64(t.Programs))
		}
	}

	m.qualityScore.Reset()
	for _, p := range r.Programs {
		if p.Quality != nil {
			m.qualityScore.WithLabelValues(p.Program).Set(p.Quality.Score)
		}
	}
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
