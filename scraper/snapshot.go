package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/models"
	"github.com/aluiziolira/go-scrape-evds/parser"
)

// SnapshotReader parses saved report pages, from disk or over HTTP, into
// results without a browser.
type SnapshotReader struct {
	collector *colly.Collector
	dedupeMax int
}

// NewSnapshotReader builds a reader configured from cfg. Local paths are
// served through a file transport.
func NewSnapshotReader(cfg *config.Config) *SnapshotReader {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(0),
	)
	collector.SetRequestTimeout(cfg.Timeout)

	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	collector.WithTransport(transport)

	return &SnapshotReader{collector: collector, dedupeMax: cfg.DedupeMaxSize}
}

// Read loads source and returns the rows of its report grid that fall in the
// job's range. Explanations are read when the job asks for them.
func (r *SnapshotReader) Read(ctx context.Context, source string, job config.Scrape) (*models.ScrapeResult, error) {
	job, err := config.NewScrape(job)
	if err != nil {
		return nil, err
	}
	target, err := snapshotURL(source)
	if err != nil {
		return nil, err
	}
	asm, err := parser.NewAssembler(job, r.dedupeMax)
	if err != nil {
		return nil, err
	}

	var (
		grid         parser.Grid
		gridErr      error
		found        bool
		explanations []models.Explanation
		visitErr     error
	)

	c := r.collector.Clone()
	c.OnHTML(parser.GridSelector, func(e *colly.HTMLElement) {
		if found {
			return
		}
		found = true
		grid, gridErr = parser.GridFromSelection(e.DOM)
	})
	if job.IncludeExplanations {
		c.OnHTML(parser.ExplanationsSelector, func(e *colly.HTMLElement) {
			explanations = append(explanations, parser.ExplanationsFromSelection(e.DOM)...)
		})
	}
	c.OnError(func(resp *colly.Response, err error) {
		visitErr = err
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slog.Debug("reading snapshot", slog.String("url", target))
	if err := c.Visit(target); err != nil {
		return nil, models.ErrNavigation{Step: "load snapshot", Err: err}
	}
	c.Wait()
	if visitErr != nil {
		return nil, models.ErrNavigation{Step: "load snapshot", Err: visitErr}
	}

	if !found {
		return nil, models.ErrParse{Reason: "data grid not found"}
	}
	if gridErr != nil {
		return nil, gridErr
	}
	if _, err := asm.Add(grid); err != nil {
		return nil, err
	}
	result, err := asm.Result()
	if err != nil {
		return nil, err
	}
	result.Explanations = explanations
	return result, nil
}

func snapshotURL(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", models.ErrConfiguration{Field: "snapshot", Err: errors.New("no snapshot given")}
	}
	if strings.Contains(source, "://") {
		return source, nil
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", models.ErrConfiguration{Field: "snapshot", Err: err}
	}
	if _, err := os.Stat(abs); err != nil {
		return "", models.ErrConfiguration{Field: "snapshot", Err: fmt.Errorf("open snapshot: %w", err)}
	}
	return "file://" + filepath.ToSlash(abs), nil
}
