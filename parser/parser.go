package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/models"
)

// ValidateResult ensures a result matches the job that produced it: one
// column per variable in job order, one value per column, every row inside
// the requested range and rows strictly ascending.
func ValidateResult(r *models.ScrapeResult, job config.Scrape) error {
	if r == nil {
		return fmt.Errorf("result is nil")
	}
	codes := job.Codes()
	if len(r.Columns) != len(codes) {
		return fmt.Errorf("result has %d columns, job has %d variables", len(r.Columns), len(codes))
	}
	for i, code := range codes {
		if r.Columns[i] != code {
			return fmt.Errorf("column %d is %s, expected %s", i, r.Columns[i], code)
		}
	}
	for i, row := range r.Rows {
		if len(row.Values) != len(codes) {
			return fmt.Errorf("row %s has %d values, expected %d", row.Period, len(row.Values), len(codes))
		}
		if !job.Contains(row.Date) {
			return fmt.Errorf("row %s is outside the requested range", row.Period)
		}
		if i > 0 && !row.Date.After(r.Rows[i-1].Date) {
			return fmt.Errorf("row %s is out of order", row.Period)
		}
	}
	return nil
}

// NormalizeCell collapses whitespace (including non-breaking spaces) in a
// rendered cell.
func NormalizeCell(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.Join(strings.Fields(text), " ")
}

// ParseValue converts a rendered number to float64 using the portal's number
// format for lang. Empty cells and "ND" markers become NaN.
func ParseValue(lang models.Language, text string) (float64, error) {
	value := strings.ReplaceAll(NormalizeCell(text), " ", "")
	switch strings.ToUpper(value) {
	case "", "-", "ND", "N/A":
		return math.NaN(), nil
	}

	if lang == models.Turkish {
		value = strings.ReplaceAll(value, ".", "")
		value = strings.ReplaceAll(value, ",", ".")
	} else {
		value = strings.ReplaceAll(value, ",", "")
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", text)
	}
	return f, nil
}

// MatchHeader reports whether a grid header belongs to code. Headers are
// either the bare code (dots may be rendered as "_" or spaces) or the code
// followed by a calculation-type suffix such as "TP_DK_USD_A-Level".
func MatchHeader(header, code string) bool {
	key := models.NormalizeCode(code)
	if models.NormalizeCode(header) == key {
		return true
	}
	if i := strings.IndexAny(header, "(-"); i > 0 {
		return models.NormalizeCode(strings.TrimRight(header[:i], " ._")) == key
	}
	return false
}
