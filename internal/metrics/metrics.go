package metrics

import (
	"fmt"
	"strings"

	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/prometheus/client_golang/prometheus"
)

// DurationBuckets span 10ms to 5min; most temp sweeps finish in well under a second
var DurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 60, 300}

// Metrics holds the sweep collectors on a private registry so a CLI run can
// export exactly its own numbers
type Metrics struct {
	registry *prometheus.Registry

	SweepsTotal      *prometheus.CounterVec
	EntriesSeen      prometheus.Counter
	EntriesRemoved   prometheus.Counter
	EntriesSkipped   prometheus.Counter
	EntryErrorsTotal *prometheus.CounterVec
	LastSuccessRate  prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
	SweepDuration    prometheus.Histogram
}

// New creates and registers the sweep metrics
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SweepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tempclean_sweeps_total",
			Help: "Total sweeps run, by mode.",
		}, []string{"mode"}),
		EntriesSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempclean_entries_seen_total",
			Help: "Total immediate children enumerated across sweeps.",
		}),
		EntriesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempclean_entries_removed_total",
			Help: "Total entries removed by execute sweeps.",
		}),
		EntriesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempclean_entries_skipped_total",
			Help: "Total entries of unknown kind left in place.",
		}),
		EntryErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tempclean_entry_errors_total",
			Help: "Total per-entry removal failures, by reason.",
		}, []string{"reason"}),
		LastSuccessRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tempclean_last_sweep_success_rate",
			Help: "Success rate percentage of the most recent sweep.",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tempclean_last_sweep_timestamp_seconds",
			Help: "Start time of the most recent sweep (Unix epoch seconds).",
		}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tempclean_sweep_duration_seconds",
			Help:    "Duration of sweeps in seconds.",
			Buckets: DurationBuckets,
		}),
	}

	m.registry.MustRegister(
		m.SweepsTotal,
		m.EntriesSeen,
		m.EntriesRemoved,
		m.EntriesSkipped,
		m.EntryErrorsTotal,
		m.LastSuccessRate,
		m.LastRunTimestamp,
		m.SweepDuration,
	)

	return m
}

// Registry exposes the registry for gathering
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records a completed sweep
func (m *Metrics) Observe(report *cleaner.Report) {
	if report == nil {
		return
	}

	m.SweepsTotal.WithLabelValues(report.Mode.String()).Inc()
	m.EntriesSeen.Add(float64(report.EntriesSeen))
	m.EntriesRemoved.Add(float64(report.EntriesRemoved))
	m.EntriesSkipped.Add(float64(report.EntriesSkipped))
	for _, e := range report.Errors {
		m.EntryErrorsTotal.WithLabelValues(ReasonLabel(e.Reason)).Inc()
	}
	m.LastSuccessRate.Set(report.SuccessRate)
	if !report.StartedAt.IsZero() {
		m.LastRunTimestamp.Set(float64(report.StartedAt.Unix()))
	}
	m.SweepDuration.Observe(report.Duration.Seconds())
}

// WriteTextfile writes the current values in the text exposition format, for
// the node_exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// ReasonLabel turns an error reason into a label value
func ReasonLabel(r cleaner.ErrorReason) string {
	text, err := r.MarshalText()
	if err != nil {
		return strings.ToLower(r.String())
	}
	return string(text)
}
