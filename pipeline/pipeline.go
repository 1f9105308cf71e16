// Package pipeline turns a ScrapeResult into the output a scrape job asks
// for: a plain mapping, a gota DataFrame or an xlsx workbook. It also holds
// the CSV and JSON writers the CLI uses to persist in-memory outputs.
package pipeline

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/models"
	"github.com/aluiziolira/go-scrape-evds/parser"
)

// OutputWriter persists a result.
type OutputWriter interface {
	Write(result *models.ScrapeResult) error
	Close() error
	Validate() error
}

// Output is a converted result. Exactly one of Mapping, Frame or Path is set,
// according to Format.
type Output struct {
	Format       models.OutputFormat
	Mapping      Mapping
	Frame        *dataframe.DataFrame
	Path         string
	Explanations []models.Explanation
}

// Convert renders result in the job's output format. The result is checked
// against the job first and is never modified.
func Convert(result *models.ScrapeResult, job config.Scrape) (*Output, error) {
	if err := parser.ValidateResult(result, job); err != nil {
		return nil, models.ErrParse{Reason: "result does not match the job", Err: err}
	}

	out := &Output{Format: job.OutputFormat}
	if len(result.Explanations) > 0 {
		out.Explanations = append([]models.Explanation(nil), result.Explanations...)
	}

	switch job.OutputFormat {
	case models.Mapping:
		out.Mapping = ToMapping(result)
	case models.DataFrame:
		df, err := ToDataFrame(result)
		if err != nil {
			return nil, err
		}
		out.Frame = &df
	case models.Spreadsheet:
		path, err := WriteSpreadsheet(result, job.OutputFile)
		if err != nil {
			return nil, err
		}
		out.Path = path
	default:
		return nil, models.ErrConfiguration{Field: "output_format", Err: fmt.Errorf("unsupported format %q", job.OutputFormat)}
	}
	return out, nil
}

// Persist writes result through w, checks the output and closes w.
func Persist(w OutputWriter, result *models.ScrapeResult) error {
	if err := w.Write(result); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return w.Validate()
}

// NewWriter returns a writer for the given CSV and/or JSON paths, or nil when
// both are empty.
func NewWriter(csvPath, jsonPath string) (OutputWriter, error) {
	switch {
	case csvPath != "" && jsonPath != "":
		return NewDualWriter(csvPath, jsonPath)
	case csvPath != "":
		return NewCSVWriter(csvPath)
	case jsonPath != "":
		return NewJSONWriter(jsonPath)
	default:
		return nil, nil
	}
}
