package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	quarterPattern  = regexp.MustCompile(`^(?i)(?:Q([1-4])[-/ ](\d{4})|(\d{4})[-/ ]Q([1-4]))$`)
	halfYearPattern = regexp.MustCompile(`^(?i)(?:S([1-2])[-/ ](\d{4})|(\d{4})[-/ ]S([1-2]))$`)
)

var (
	dayLayouts   = []string{"02-01-2006", "2006-01-02", "02.01.2006", "02/01/2006"}
	monthLayouts = []string{"1-2006", "2006-1", "1.2006", "2006-01-02"}
)

// ParsePeriod reads a period as rendered by the portal (or as an ISO date) and
// returns the start of that period.
func (f Frequency) ParsePeriod(s string) (time.Time, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty %s period", f)
	}
	switch f {
	case Monthly:
		return parseLayouts(f, value, monthLayouts)
	case Quarterly:
		return parseNumbered(f, value, quarterPattern, 3)
	case Semiannual:
		return parseNumbered(f, value, halfYearPattern, 6)
	case Annual:
		if t, err := time.Parse("2006-01-02", value); err == nil {
			return f.Truncate(t), nil
		}
		return parseLayouts(f, value, []string{"2006"})
	default:
		return parseLayouts(f, value, dayLayouts)
	}
}

func parseLayouts(f Frequency, value string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return f.Truncate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a %s period (expected %s)", value, f, f.DateFormat())
}

func parseNumbered(f Frequency, value string, pattern *regexp.Regexp, monthsPerPeriod int) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return f.Truncate(t), nil
	}
	m := pattern.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, fmt.Errorf("%q is not a %s period (expected %s)", value, f, f.DateFormat())
	}
	number, year := m[1], m[2]
	if number == "" {
		year, number = m[3], m[4]
	}
	n, _ := strconv.Atoi(number)
	y, _ := strconv.Atoi(year)
	month := time.Month((n-1)*monthsPerPeriod + 1)
	return time.Date(y, month, 1, 0, 0, 0, 0, time.UTC), nil
}
