package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/models"
)

// DefaultOutputFile is offered when a spreadsheet is requested interactively.
const DefaultOutputFile = "evds.xlsx"

// AskLanguage asks for the portal language.
func AskLanguage(p Prompter) (models.Language, error) {
	languages := models.Languages()
	i, err := p.Select("Portal language", stringsOf(languages))
	if err != nil {
		return "", err
	}
	return languages[i], nil
}

// Gather builds a scrape job from the user's answers. Variables are picked
// from the live catalog until the user stops adding them; dates are asked
// again until they parse for the chosen frequency and are in order.
func Gather(ctx context.Context, catalog Catalog, p Prompter, lang models.Language) (config.Scrape, error) {
	job := config.Scrape{Language: lang}

	for {
		v, err := pickVariable(ctx, catalog, p)
		if err != nil {
			return config.Scrape{}, err
		}
		if containsKey(job.Variables, v.Key()) {
			slog.Warn("variable already selected", slog.String("code", v.Key()))
		} else {
			if err := catalog.AddToCart(ctx, v); err != nil {
				return config.Scrape{}, err
			}
			job.Variables = append(job.Variables, v)
			slog.Info("variable selected", slog.String("variable", v.String()))
		}

		more, err := p.Confirm("Add more variables?", false)
		if err != nil {
			return config.Scrape{}, err
		}
		if !more {
			break
		}
	}

	frequencies := models.Frequencies()
	i, err := p.Select("Frequency", stringsOf(frequencies))
	if err != nil {
		return config.Scrape{}, err
	}
	job.Frequency = frequencies[i]

	first, last := availableRange(ctx, catalog)

	start, err := p.Ask(dateQuestion("Start date", job.Frequency, "available from", first), "", func(s string) error {
		_, err := config.ParseDate(job.Frequency, s)
		return err
	})
	if err != nil {
		return config.Scrape{}, err
	}
	if job.Start, err = config.ParseDate(job.Frequency, start); err != nil {
		return config.Scrape{}, err
	}

	end, err := p.Ask(dateQuestion("End date", job.Frequency, "available until", last), "", func(s string) error {
		t, err := config.ParseDate(job.Frequency, s)
		if err != nil {
			return err
		}
		if t.Before(job.Start) {
			return errors.New("end date is before the start date")
		}
		return nil
	})
	if err != nil {
		return config.Scrape{}, err
	}
	if job.End, err = config.ParseDate(job.Frequency, end); err != nil {
		return config.Scrape{}, err
	}

	formats := models.OutputFormats()
	i, err = p.Select("Output format", stringsOf(formats))
	if err != nil {
		return config.Scrape{}, err
	}
	job.OutputFormat = formats[i]

	if job.OutputFormat == models.Spreadsheet {
		job.OutputFile, err = p.Ask("Output file", DefaultOutputFile, nil)
		if err != nil {
			return config.Scrape{}, err
		}
	}

	if job.IncludeExplanations, err = p.Confirm("Include explanations?", true); err != nil {
		return config.Scrape{}, err
	}

	return config.NewScrape(job)
}

func pickVariable(ctx context.Context, catalog Catalog, p Prompter) (models.Variable, error) {
	categories, err := catalog.Categories(ctx)
	if err != nil {
		return models.Variable{}, err
	}
	if len(categories) == 0 {
		return models.Variable{}, models.ErrNavigation{Step: "list categories", Err: errors.New("portal listed no categories")}
	}
	i, err := p.Select("Category", categories)
	if err != nil {
		return models.Variable{}, err
	}
	category := categories[i]

	subcategories, err := catalog.Subcategories(ctx, category)
	if err != nil {
		return models.Variable{}, err
	}
	if len(subcategories) == 0 {
		return models.Variable{}, models.ErrNavigation{Step: "list subcategories", Err: fmt.Errorf("%s has no data groups", category)}
	}
	if i, err = p.Select("Subcategory", subcategories); err != nil {
		return models.Variable{}, err
	}
	subcategory := subcategories[i]

	listed, err := catalog.Series(ctx, category, subcategory)
	if err != nil {
		return models.Variable{}, err
	}
	series := listed[:0:0]
	for _, v := range listed {
		if strings.TrimSpace(v.Code) != "" {
			series = append(series, v)
		}
	}
	if len(series) == 0 {
		return models.Variable{}, models.ErrNavigation{Step: "list series", Err: fmt.Errorf("%s has no series", subcategory)}
	}
	if i, err = p.Select("Series", seriesLabels(series)); err != nil {
		return models.Variable{}, err
	}
	v := series[i]

	calculations, err := catalog.CalculationTypes(ctx, v)
	if err != nil {
		return models.Variable{}, err
	}
	if len(calculations) > 0 {
		if i, err = p.Select("Calculation type", calculations); err != nil {
			return models.Variable{}, err
		}
		v.CalculationType = calculations[i]
	}
	return v, nil
}

// availableRange reads the range offered for the cart. The range is only a
// hint, so a failure is logged and yields empty bounds.
func availableRange(ctx context.Context, catalog Catalog) (string, string) {
	first, last, err := catalog.AvailableRange(ctx)
	if err != nil {
		slog.Warn("available range unknown", slog.Any("error", err))
		return "", ""
	}
	return first, last
}

func dateQuestion(label string, f models.Frequency, relation, bound string) string {
	if bound == "" {
		return fmt.Sprintf("%s (%s)", label, f.DateFormat())
	}
	return fmt.Sprintf("%s (%s, %s %s)", label, f.DateFormat(), relation, bound)
}

// seriesLabels lines series names up after their codes.
func seriesLabels(series []models.Variable) []string {
	width := 0
	for _, v := range series {
		if w := runewidth.StringWidth(v.Code); w > width {
			width = w
		}
	}
	labels := make([]string, len(series))
	for i, v := range series {
		labels[i] = strings.TrimSpace(runewidth.FillRight(v.Code, width) + "  " + v.Item)
	}
	return labels
}

func containsKey(vars []models.Variable, key string) bool {
	for _, v := range vars {
		if v.Key() == key {
			return true
		}
	}
	return false
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
