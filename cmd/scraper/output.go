package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/aluiziolira/go-scrape-evds/models"
	"github.com/aluiziolira/go-scrape-evds/pipeline"
	"github.com/aluiziolira/go-scrape-evds/scraper"
)

// previewRows is how many rows of each end of a result are printed.
const previewRows = 5

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// printPreview prints the first and last rows of result.
func printPreview(w io.Writer, result *models.ScrapeResult) {
	if result.Len() == 0 {
		return
	}
	t := newTable(w)
	header := table.Row{pipeline.DateColumn}
	configs := make([]table.ColumnConfig, 0, len(result.Columns))
	for i, code := range result.Columns {
		header = append(header, code)
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for i, row := range result.Rows {
		if i == previewRows && result.Len() > 2*previewRows {
			t.AppendSeparator()
			t.AppendRow(table.Row{fmt.Sprintf("... %d rows", result.Len()-2*previewRows)})
			t.AppendSeparator()
		}
		if i >= previewRows && i < result.Len()-previewRows {
			continue
		}
		line := table.Row{row.Period}
		for _, v := range row.Values {
			line = append(line, cell(v))
		}
		t.AppendRow(line)
	}
	t.Render()
}

// printExplanations lists the series descriptions read from the report.
func printExplanations(w io.Writer, explanations []models.Explanation) {
	if len(explanations) == 0 {
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Code", "Description", "Calculation", "Info"})
	for _, e := range explanations {
		t.AppendRow(table.Row{e.Code, e.Description, e.CalculationType, e.Info})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 60}, {Number: 4, WidthMax: 40}})
	t.Render()
}

func printSummary(w io.Writer, report *scraper.Report) {
	t := newTable(w)
	t.SetTitle("Scrape complete")
	t.AppendRow(table.Row{"Variables", len(report.Job.Variables)})
	t.AppendRow(table.Row{"Frequency", report.Job.Frequency})
	t.AppendRow(table.Row{"Range", report.Job.Frequency.Label(report.Job.Start) + " .. " + report.Job.Frequency.Label(report.Job.End)})
	t.AppendRow(table.Row{"Rows", report.Result.Len()})
	t.AppendRow(table.Row{"Format", report.Job.OutputFormat})
	if report.Output != nil && report.Output.Path != "" {
		t.AppendRow(table.Row{"Output file", report.Output.Path})
	}
	if report.Snapshot != "" {
		t.AppendRow(table.Row{"Snapshot", report.Snapshot})
	}
	t.AppendRow(table.Row{"Duration", report.Duration.Round(time.Millisecond)})
	t.Render()
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// persist writes result to the CSV and JSON files given on the command line.
func persist(csvPath, jsonPath string, result *models.ScrapeResult) error {
	w, err := pipeline.NewWriter(csvPath, jsonPath)
	if err != nil {
		return err
	}
	if w == nil {
		return nil
	}
	return pipeline.Persist(w, result)
}
