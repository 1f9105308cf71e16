package parser

import (
	"fmt"
	"math"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/models"
)

// Assembler accumulates the rows of a scrolling grid into a ScrapeResult.
// The grid only renders the rows in view, so the same row is usually read
// more than once; a bounded LRU of row keys tells new rows from repeats.
type Assembler struct {
	job      config.Scrape
	codes    []string
	seen     *lru.Cache[string, struct{}]
	rows     map[string]models.Observation
	first    time.Time
	last     time.Time
	observed bool
}

// NewAssembler prepares an assembler for job. dedupeMax bounds the number of
// remembered row keys.
func NewAssembler(job config.Scrape, dedupeMax int) (*Assembler, error) {
	seen, err := lru.New[string, struct{}](dedupeMax)
	if err != nil {
		return nil, fmt.Errorf("failed to create row cache: %w", err)
	}
	return &Assembler{
		job:   job,
		codes: job.Codes(),
		seen:  seen,
		rows:  make(map[string]models.Observation),
	}, nil
}

// Add merges the visible rows of g and returns how many rows were not seen
// before. A no-data page, a missing series column, or an unreadable cell
// fails with models.ErrParse.
func (a *Assembler) Add(g Grid) (int, error) {
	if g.NoData {
		return 0, models.ErrParse{Reason: "portal returned no data for the requested range"}
	}
	if len(g.Headers) < 2 {
		return 0, models.ErrParse{Reason: fmt.Sprintf("grid has %d header columns", len(g.Headers))}
	}

	columns := make([]int, len(a.codes))
	for i, code := range a.codes {
		idx, err := g.ColumnIndex(code)
		if err != nil {
			return 0, models.ErrParse{Reason: "missing series column", Err: err}
		}
		columns[i] = idx
	}

	added := 0
	for _, cells := range g.Rows {
		if len(cells) == 0 || cells[0] == "" {
			continue
		}
		key := rowKey(cells)
		if a.seen.Contains(key) {
			continue
		}
		a.seen.Add(key, struct{}{})
		added++

		date, err := a.job.Frequency.ParsePeriod(cells[0])
		if err != nil {
			return added, models.ErrParse{Reason: "unreadable period", Err: err}
		}
		a.observe(date)
		if !a.job.Contains(date) {
			continue
		}

		values := make([]float64, len(columns))
		for i, idx := range columns {
			if idx >= len(cells) {
				values[i] = math.NaN()
				continue
			}
			v, err := ParseValue(a.job.Language, cells[idx])
			if err != nil {
				return added, models.ErrParse{
					Reason: fmt.Sprintf("unreadable value for %s at %s", a.codes[i], cells[0]),
					Err:    err,
				}
			}
			values[i] = v
		}

		label := a.job.Frequency.Label(date)
		a.rows[label] = models.Observation{Date: date, Period: label, Values: values}
	}
	return added, nil
}

// Complete reports whether rows at both ends of the requested range have
// been read.
func (a *Assembler) Complete() bool {
	return a.observed && !a.first.After(a.job.Start) && !a.last.Before(a.job.End)
}

// Len is the number of in-range rows collected so far.
func (a *Assembler) Len() int {
	return len(a.rows)
}

// Result returns the collected rows in ascending order. An empty range is a
// parse failure, not an empty result.
func (a *Assembler) Result() (*models.ScrapeResult, error) {
	if len(a.rows) == 0 {
		return nil, models.ErrParse{Reason: "no rows within the requested range"}
	}

	rows := make([]models.Observation, 0, len(a.rows))
	for _, row := range a.rows {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	columns := make([]string, len(a.codes))
	copy(columns, a.codes)

	return &models.ScrapeResult{
		Columns:   columns,
		Frequency: a.job.Frequency,
		Rows:      rows,
		ScrapedAt: time.Now().UTC(),
	}, nil
}

func (a *Assembler) observe(date time.Time) {
	if !a.observed || date.Before(a.first) {
		a.first = date
	}
	if !a.observed || date.After(a.last) {
		a.last = date
	}
	a.observed = true
}

func rowKey(cells []string) string {
	key := cells[0]
	for _, c := range cells[1:] {
		key += "\x1f" + c
	}
	return key
}
