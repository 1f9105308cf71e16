package scraper

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func januaryJob(format models.OutputFormat, codes ...string) config.Scrape {
	job := config.Scrape{
		Start:        day(2020, time.January, 1),
		End:          day(2020, time.January, 31),
		Frequency:    models.Daily,
		Language:     models.English,
		OutputFormat: format,
	}
	for _, code := range codes {
		job.Variables = append(job.Variables, models.Variable{Code: code})
	}
	return job
}

// workdayResult has one row per January 2020 workday with a value per column.
func workdayResult(columns ...string) *models.ScrapeResult {
	r := &models.ScrapeResult{Columns: columns, Frequency: models.Daily, ScrapedAt: day(2020, time.February, 1)}
	for d := 2; d <= 31; d++ {
		date := day(2020, time.January, d)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}
		values := make([]float64, len(columns))
		for i := range values {
			values[i] = 5.9 + float64(d)/1000 + float64(i)
		}
		if d == 17 && len(values) > 1 {
			values[1] = math.NaN()
		}
		r.Rows = append(r.Rows, models.Observation{Date: date, Period: date.Format("2006-01-02"), Values: values})
	}
	return r
}

// fakeDriver records the steps it is asked to perform.
type fakeDriver struct {
	calls []string

	navigateErr error
	fillErr     error
	submitErr   error
	readErr     error
	snapshotErr error
	result      *models.ScrapeResult

	lang models.Language
	job  config.Scrape

	categories    []string
	subcategories map[string][]string
	series        map[string][]models.Variable
	calculations  []string
	cart          []string
	available     [2]string
	rangeErr      error
}

func (d *fakeDriver) Navigate(ctx context.Context, lang models.Language) error {
	d.calls = append(d.calls, "navigate")
	d.lang = lang
	return d.navigateErr
}

func (d *fakeDriver) FillForm(ctx context.Context, job config.Scrape) error {
	d.calls = append(d.calls, "fill form")
	d.job = job
	return d.fillErr
}

func (d *fakeDriver) Submit(ctx context.Context) error {
	d.calls = append(d.calls, "submit")
	return d.submitErr
}

func (d *fakeDriver) ReadTable(ctx context.Context) (*models.ScrapeResult, error) {
	d.calls = append(d.calls, "read table")
	if d.readErr != nil {
		return nil, d.readErr
	}
	return d.result, nil
}

func (d *fakeDriver) SaveSnapshot(ctx context.Context, path string) error {
	d.calls = append(d.calls, "snapshot")
	if d.snapshotErr != nil {
		return d.snapshotErr
	}
	return os.WriteFile(path, []byte("<html></html>"), 0o644)
}

func (d *fakeDriver) Categories(ctx context.Context) ([]string, error) {
	return d.categories, nil
}

func (d *fakeDriver) Subcategories(ctx context.Context, category string) ([]string, error) {
	return d.subcategories[category], nil
}

func (d *fakeDriver) Series(ctx context.Context, category, subcategory string) ([]models.Variable, error) {
	return d.series[subcategory], nil
}

func (d *fakeDriver) CalculationTypes(ctx context.Context, v models.Variable) ([]string, error) {
	return d.calculations, nil
}

func (d *fakeDriver) AddToCart(ctx context.Context, v models.Variable) error {
	d.cart = append(d.cart, v.Key())
	return nil
}

func (d *fakeDriver) AvailableRange(ctx context.Context) (string, string, error) {
	if d.rangeErr != nil {
		return "", "", d.rangeErr
	}
	return d.available[0], d.available[1], nil
}

// catalogDriver is a fakeDriver with a small exchange-rate catalog.
func catalogDriver() *fakeDriver {
	return &fakeDriver{
		categories: []string{"Exchange Rates", "Interest Rates"},
		subcategories: map[string][]string{
			"Exchange Rates": {"Exchange Rates (Daily)", "Effective Exchange Rates"},
		},
		series: map[string][]models.Variable{
			"Exchange Rates (Daily)": {
				{Category: "Exchange Rates", Subcategory: "Exchange Rates (Daily)", Item: "header row"},
				{Code: "TP.DK.USD.A", Category: "Exchange Rates", Subcategory: "Exchange Rates (Daily)", Item: "(USD) US Dollar (Buying)"},
				{Code: "TP.DK.EUR.A", Category: "Exchange Rates", Subcategory: "Exchange Rates (Daily)", Item: "(EUR) Euro (Buying)"},
			},
		},
		calculations: []string{"Level", "Percentage change"},
		available:    [2]string{"02-01-1950", "17-10-2026"},
	}
}

// driverOnly hides every method beyond Driver.
type driverOnly struct {
	Driver
}

// scriptedPrompter answers from queues and records the questions asked.
// Ask keeps taking answers until one passes validation, like a terminal loop.
type scriptedPrompter struct {
	selects   []int
	answers   []string
	confirms  []bool
	questions []string
	rejected  int
}

func (p *scriptedPrompter) Select(question string, options []string) (int, error) {
	p.questions = append(p.questions, question)
	if len(p.selects) == 0 {
		return 0, fmt.Errorf("unexpected select %q", question)
	}
	i := p.selects[0]
	p.selects = p.selects[1:]
	if i < 0 || i >= len(options) {
		return 0, fmt.Errorf("choice %d out of range for %q", i, question)
	}
	return i, nil
}

func (p *scriptedPrompter) Ask(question, def string, validate func(string) error) (string, error) {
	p.questions = append(p.questions, question)
	for len(p.answers) > 0 {
		answer := p.answers[0]
		p.answers = p.answers[1:]
		if answer == "" {
			answer = def
		}
		if validate != nil {
			if err := validate(answer); err != nil {
				p.rejected++
				continue
			}
		}
		return answer, nil
	}
	return "", fmt.Errorf("no answer left for %q", question)
}

func (p *scriptedPrompter) Confirm(question string, def bool) (bool, error) {
	p.questions = append(p.questions, question)
	if len(p.confirms) == 0 {
		return false, errors.New("unexpected confirm " + question)
	}
	b := p.confirms[0]
	p.confirms = p.confirms[1:]
	return b, nil
}
