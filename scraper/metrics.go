package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry         *prometheus.Registry
	ScrapesTotal     *prometheus.CounterVec
	StagesTotal      *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	RowsScrapedTotal prometheus.Counter
	ErrorsTotal      *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evds_scrapes_total",
			Help: "Total scrape runs by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)
	stages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evds_stages_total",
			Help: "Total portal stages executed by outcome.",
		},
		[]string{"stage", "outcome"},
	)
	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evds_stage_duration_seconds",
			Help:    "Time spent in each scrape stage.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"stage"},
	)
	rows := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "evds_rows_scraped_total",
			Help: "Total number of dated rows read from report grids.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evds_errors_total",
			Help: "Total number of scraper errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(scrapes, stages, stageDuration, rows, errorsTotal)

	return &Metrics{
		Registry:         registry,
		ScrapesTotal:     scrapes,
		StagesTotal:      stages,
		StageDuration:    stageDuration,
		RowsScrapedTotal: rows,
		ErrorsTotal:      errorsTotal,
	}
}

// ObserveStage records the outcome and duration of one stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.StagesTotal.WithLabelValues(stage, outcome(err)).Inc()
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// IncScrape counts a finished scrape run.
func (m *Metrics) IncScrape(mode string, err error) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(mode, outcome(err)).Inc()
}

// AddRows increments the rows scraped counter.
func (m *Metrics) AddRows(n int) {
	if m == nil {
		return
	}
	m.RowsScrapedTotal.Add(float64(n))
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
