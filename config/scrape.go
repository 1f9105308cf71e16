package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-evds/models"
)

// Scrape is one scrape job: which series, over which range, at which
// frequency, and how the result is handed back. Build it with NewScrape.
type Scrape struct {
	Variables           []models.Variable
	Start               time.Time
	End                 time.Time
	Frequency           models.Frequency
	Language            models.Language
	OutputFormat        models.OutputFormat
	OutputFile          string
	IncludeExplanations bool
}

// NewScrape validates s and returns a copy with trimmed variables and dates
// truncated to the start of their period.
func NewScrape(s Scrape) (Scrape, error) {
	out := s
	out.Variables = make([]models.Variable, len(s.Variables))
	for i, v := range s.Variables {
		out.Variables[i] = models.Variable{
			Code:            models.NormalizeCode(v.Code),
			Category:        strings.TrimSpace(v.Category),
			Subcategory:     strings.TrimSpace(v.Subcategory),
			Item:            strings.TrimSpace(v.Item),
			CalculationType: strings.TrimSpace(v.CalculationType),
		}
	}
	out.OutputFile = strings.TrimSpace(s.OutputFile)

	if err := out.Validate(); err != nil {
		return Scrape{}, err
	}

	out.Start = out.Frequency.Truncate(out.Start)
	out.End = out.Frequency.Truncate(out.End)
	return out, nil
}

// Validate checks every field of the job.
func (s Scrape) Validate() error {
	if len(s.Variables) == 0 {
		return invalid("variables", errors.New("at least one variable is required"))
	}
	seen := make(map[string]struct{}, len(s.Variables))
	for i, v := range s.Variables {
		key := v.Key()
		if key == "" {
			return invalid("variables", fmt.Errorf("variable %d has no code", i+1))
		}
		if _, dup := seen[key]; dup {
			return invalid("variables", fmt.Errorf("duplicate variable %s", key))
		}
		seen[key] = struct{}{}
	}

	if !s.Frequency.Valid() {
		_, err := models.ParseFrequency(string(s.Frequency))
		return err
	}
	if !s.Language.Valid() {
		_, err := models.ParseLanguage(string(s.Language))
		return err
	}
	if !s.OutputFormat.Valid() {
		_, err := models.ParseOutputFormat(string(s.OutputFormat))
		return err
	}

	if s.Start.IsZero() {
		return invalid("start", errors.New("start date is required"))
	}
	if s.End.IsZero() {
		return invalid("end", errors.New("end date is required"))
	}
	if s.Start.After(s.End) {
		return invalid("start", fmt.Errorf("start date %s is after end date %s",
			s.Start.Format("2006-01-02"), s.End.Format("2006-01-02")))
	}

	if s.OutputFormat == models.Spreadsheet && strings.TrimSpace(s.OutputFile) == "" {
		return invalid("output_file", errors.New("spreadsheet output needs a target file"))
	}
	return nil
}

// Codes returns the normalised variable codes in job order.
func (s Scrape) Codes() []string {
	codes := make([]string, len(s.Variables))
	for i, v := range s.Variables {
		codes[i] = v.Key()
	}
	return codes
}

// Contains reports whether t falls inside the job's period range.
func (s Scrape) Contains(t time.Time) bool {
	p := s.Frequency.Truncate(t)
	return !p.Before(s.Frequency.Truncate(s.Start)) && !p.After(s.Frequency.Truncate(s.End))
}

// ParseDate reads an ISO date or a date in the portal layout of freq and
// returns the start of its period.
func ParseDate(freq models.Frequency, s string) (time.Time, error) {
	if !freq.Valid() {
		_, err := models.ParseFrequency(string(freq))
		return time.Time{}, err
	}
	t, err := freq.ParsePeriod(s)
	if err != nil {
		return time.Time{}, invalid("date", err)
	}
	return t, nil
}

func invalid(field string, err error) error {
	return models.ErrConfiguration{Field: field, Err: err}
}
