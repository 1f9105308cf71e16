package models

import (
	"math"
	"time"
)

// Observation is one dated row of a report. Values line up with
// ScrapeResult.Columns; a missing cell is NaN.
type Observation struct {
	Date   time.Time `json:"date"`
	Period string    `json:"period"`
	Values []float64 `json:"values"`
}

// Explanation describes one series as listed on the report's explanations tab.
type Explanation struct {
	Code            string `json:"code"`
	Description     string `json:"description"`
	CalculationType string `json:"calculation_type"`
	Info            string `json:"info,omitempty"`
}

// ScrapeResult holds the table retrieved by one scrape.
type ScrapeResult struct {
	Columns      []string
	Frequency    Frequency
	Rows         []Observation
	Explanations []Explanation
	ScrapedAt    time.Time
}

// Len is the number of dated rows.
func (r *ScrapeResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// ColumnIndex returns the position of code in Columns, or -1.
func (r *ScrapeResult) ColumnIndex(code string) int {
	key := NormalizeCode(code)
	for i, c := range r.Columns {
		if c == key {
			return i
		}
	}
	return -1
}

// Value returns the value of code in row i; ok is false for missing cells.
func (r *ScrapeResult) Value(i int, code string) (float64, bool) {
	col := r.ColumnIndex(code)
	if col < 0 || i < 0 || i >= len(r.Rows) {
		return 0, false
	}
	v := r.Rows[i].Values[col]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
