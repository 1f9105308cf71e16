package pipeline

import (
	"sort"

	"github.com/aluiziolira/go-scrape-evds/models"
)

// Mapping is the plain form of a result: period label → series code → value.
// Missing values are left out.
type Mapping map[string]map[string]float64

// ToMapping converts result into a Mapping.
func ToMapping(result *models.ScrapeResult) Mapping {
	m := make(Mapping, len(result.Rows))
	for i, row := range result.Rows {
		values := make(map[string]float64, len(result.Columns))
		for _, code := range result.Columns {
			if v, ok := result.Value(i, code); ok {
				values[code] = v
			}
		}
		m[row.Period] = values
	}
	return m
}

// Periods returns the period labels in ascending order.
func (m Mapping) Periods() []string {
	periods := make([]string, 0, len(m))
	for p := range m {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	return periods
}
