// Package scraper drives a scrape job through the portal, stage by stage,
// in automatic or interactive mode.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/models"
	"github.com/aluiziolira/go-scrape-evds/pipeline"
)

// Scrape modes, used as metric labels.
const (
	ModeAutomatic   = "automatic"
	ModeInteractive = "interactive"
)

// Driver performs the portal steps of a scrape.
type Driver interface {
	Navigate(ctx context.Context, lang models.Language) error
	FillForm(ctx context.Context, job config.Scrape) error
	Submit(ctx context.Context) error
	ReadTable(ctx context.Context) (*models.ScrapeResult, error)
}

// Catalog lists what the portal offers. Interactive mode needs it.
type Catalog interface {
	Categories(ctx context.Context) ([]string, error)
	Subcategories(ctx context.Context, category string) ([]string, error)
	Series(ctx context.Context, category, subcategory string) ([]models.Variable, error)
	CalculationTypes(ctx context.Context, v models.Variable) ([]string, error)
	// AddToCart adds a chosen series so AvailableRange covers it.
	AddToCart(ctx context.Context, v models.Variable) error
	// AvailableRange returns the first and last dates the portal offers for
	// the series in the cart.
	AvailableRange(ctx context.Context) (string, string, error)
}

type snapshotter interface {
	SaveSnapshot(ctx context.Context, path string) error
}

// Report is the outcome of a successful scrape.
type Report struct {
	Job      config.Scrape
	Result   *models.ScrapeResult
	Output   *pipeline.Output
	Snapshot string
	Duration time.Duration
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithMetrics records stage metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(s *Scraper) {
		s.Metrics = m
	}
}

// WithSnapshot saves the rendered report page to path before the table is
// read. Drivers that cannot save pages ignore it.
func WithSnapshot(path string) Option {
	return func(s *Scraper) {
		s.snapshotPath = path
	}
}

// Scraper runs scrape jobs against a Driver. It is not safe for concurrent use:
// the driver holds a single browser page.
type Scraper struct {
	driver       Driver
	snapshotPath string
	Metrics      *Metrics
}

// NewScraper builds a scraper around driver.
func NewScraper(driver Driver, opts ...Option) *Scraper {
	s := &Scraper{driver: driver}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes job in automatic mode: navigate, fill the form, submit, read
// the table and convert it. On failure no partial result is returned and the
// error names the failed stage.
func (s *Scraper) Run(ctx context.Context, job config.Scrape) (*Report, error) {
	report, err := s.execute(ctx, job)
	s.Metrics.IncScrape(ModeAutomatic, err)
	return report, err
}

// RunInteractive asks for a job through p, browsing the live catalog for the
// variables, then runs it. The job is returned even when the run fails so it
// can be saved and retried.
func (s *Scraper) RunInteractive(ctx context.Context, p Prompter) (*Report, config.Scrape, error) {
	job, err := s.gather(ctx, p)
	if err != nil {
		s.Metrics.IncScrape(ModeInteractive, err)
		return nil, config.Scrape{}, err
	}
	report, err := s.execute(ctx, job)
	s.Metrics.IncScrape(ModeInteractive, err)
	return report, job, err
}

func (s *Scraper) gather(ctx context.Context, p Prompter) (config.Scrape, error) {
	catalog, ok := s.driver.(Catalog)
	if !ok {
		return config.Scrape{}, ErrStage{Stage: StageGather, Err: errors.New("driver cannot list the series catalog")}
	}

	var lang models.Language
	err := s.stage(ctx, StageGather, func(ctx context.Context) error {
		var err error
		lang, err = AskLanguage(p)
		return err
	})
	if err != nil {
		return config.Scrape{}, err
	}
	if err := s.stage(ctx, StageNavigate, func(ctx context.Context) error {
		return s.driver.Navigate(ctx, lang)
	}); err != nil {
		return config.Scrape{}, err
	}

	var job config.Scrape
	err = s.stage(ctx, StageGather, func(ctx context.Context) error {
		var err error
		job, err = Gather(ctx, catalog, p, lang)
		return err
	})
	return job, err
}

func (s *Scraper) execute(ctx context.Context, job config.Scrape) (*Report, error) {
	started := time.Now()

	if err := s.stage(ctx, StageValidate, func(context.Context) error {
		var err error
		job, err = config.NewScrape(job)
		return err
	}); err != nil {
		return nil, err
	}

	slog.Info("starting scrape",
		slog.Any("variables", job.Codes()),
		slog.String("frequency", string(job.Frequency)),
		slog.String("start", job.Frequency.Label(job.Start)),
		slog.String("end", job.Frequency.Label(job.End)),
		slog.String("format", string(job.OutputFormat)),
	)

	if err := s.stage(ctx, StageNavigate, func(ctx context.Context) error {
		return s.driver.Navigate(ctx, job.Language)
	}); err != nil {
		return nil, err
	}
	if err := s.stage(ctx, StageFillForm, func(ctx context.Context) error {
		return s.driver.FillForm(ctx, job)
	}); err != nil {
		return nil, err
	}
	if err := s.stage(ctx, StageSubmit, s.driver.Submit); err != nil {
		return nil, err
	}

	report := &Report{Job: job}
	if s.snapshotPath != "" {
		report.Snapshot = s.saveSnapshot(ctx)
	}

	var result *models.ScrapeResult
	if err := s.stage(ctx, StageReadTable, func(ctx context.Context) error {
		var err error
		result, err = s.driver.ReadTable(ctx)
		return err
	}); err != nil {
		return nil, err
	}
	s.Metrics.AddRows(result.Len())

	var out *pipeline.Output
	if err := s.stage(ctx, StageConvert, func(context.Context) error {
		var err error
		out, err = pipeline.Convert(result, job)
		return err
	}); err != nil {
		return nil, err
	}

	report.Result = result
	report.Output = out
	report.Duration = time.Since(started)
	slog.Info("scrape finished",
		slog.Int("rows", result.Len()),
		slog.Int("columns", len(result.Columns)),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}

// saveSnapshot writes the report page for later replay. Failures are logged
// and do not stop the scrape.
func (s *Scraper) saveSnapshot(ctx context.Context) string {
	saver, ok := s.driver.(snapshotter)
	if !ok {
		slog.Warn("driver cannot save snapshots", slog.String("path", s.snapshotPath))
		return ""
	}
	started := time.Now()
	err := saver.SaveSnapshot(ctx, s.snapshotPath)
	s.Metrics.ObserveStage(StageSnapshot, time.Since(started), err)
	if err != nil {
		s.Metrics.IncError(errorTypeLabel(err))
		slog.Warn("snapshot failed", slog.String("path", s.snapshotPath), slog.Any("error", err))
		return ""
	}
	slog.Info("snapshot saved", slog.String("path", s.snapshotPath))
	return s.snapshotPath
}

func (s *Scraper) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return ErrStage{Stage: name, Err: err}
	}

	started := time.Now()
	slog.Debug("stage started", slog.String("stage", name))
	err := fn(ctx)
	took := time.Since(started)
	s.Metrics.ObserveStage(name, took, err)
	if err != nil {
		kind := errorTypeLabel(err)
		s.Metrics.IncError(kind)
		slog.Error("stage failed",
			slog.String("stage", name),
			slog.String("error_type", kind),
			slog.Any("error", err),
		)
		return ErrStage{Stage: name, Err: err}
	}
	slog.Debug("stage finished", slog.String("stage", name), slog.Duration("took", took))
	return nil
}
