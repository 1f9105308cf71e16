// Package models defines data structures for the scraper.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Variable identifies one series on the portal. Code is the output column key;
// Category, Subcategory and Item locate it in the series-market tree.
type Variable struct {
	Code            string `json:"code" yaml:"code" mapstructure:"code"`
	Category        string `json:"category,omitempty" yaml:"category,omitempty" mapstructure:"category"`
	Subcategory     string `json:"subcategory,omitempty" yaml:"subcategory,omitempty" mapstructure:"subcategory"`
	Item            string `json:"item,omitempty" yaml:"item,omitempty" mapstructure:"item"`
	CalculationType string `json:"calculation_type,omitempty" yaml:"calculation_type,omitempty" mapstructure:"calculation_type"`
}

// Key is the normalised code used for set membership and column matching.
func (v Variable) Key() string {
	return NormalizeCode(v.Code)
}

// HasPath reports whether the variable can be reached through the category tree.
func (v Variable) HasPath() bool {
	return strings.TrimSpace(v.Category) != "" && strings.TrimSpace(v.Subcategory) != ""
}

func (v Variable) String() string {
	if v.HasPath() {
		return fmt.Sprintf("%s (%s / %s)", v.Key(), v.Category, v.Subcategory)
	}
	return v.Key()
}

// NormalizeCode upper-cases a series code and maps the separators the portal
// uses in grid headers ("_" and spaces) to dots.
func NormalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	code = strings.NewReplacer("_", ".", " ", ".").Replace(code)
	for strings.Contains(code, "..") {
		code = strings.ReplaceAll(code, "..", ".")
	}
	return code
}

// Frequency is the sampling interval requested for a series.
type Frequency string

const (
	Daily      Frequency = "daily"
	Workday    Frequency = "workday"
	Weekly     Frequency = "weekly"
	Monthly    Frequency = "monthly"
	Quarterly  Frequency = "quarterly"
	Semiannual Frequency = "semiannual"
	Annual     Frequency = "annual"
)

var frequencies = []Frequency{Daily, Workday, Weekly, Monthly, Quarterly, Semiannual, Annual}

var portalFrequencies = map[Frequency]string{
	Daily:      "Date",
	Workday:    "WORKDAY",
	Weekly:     "YEARWEEK",
	Monthly:    "MONTH",
	Quarterly:  "QUARTER",
	Semiannual: "SEMIYEAR",
	Annual:     "YEAR",
}

var dateFormats = map[Frequency]string{
	Daily:      "DD-MM-YYYY",
	Workday:    "DD-MM-YYYY",
	Weekly:     "DD-MM-YYYY",
	Monthly:    "MM-YYYY",
	Quarterly:  "Q[1-4]-YYYY",
	Semiannual: "S[1-2]-YYYY",
	Annual:     "YYYY",
}

// Frequencies lists every supported frequency in portal order.
func Frequencies() []Frequency {
	out := make([]Frequency, len(frequencies))
	copy(out, frequencies)
	return out
}

// ParseFrequency accepts a frequency name or the portal's option value.
func ParseFrequency(s string) (Frequency, error) {
	value := strings.TrimSpace(s)
	for _, f := range frequencies {
		if strings.EqualFold(value, string(f)) || strings.EqualFold(value, portalFrequencies[f]) {
			return f, nil
		}
	}
	return "", ErrConfiguration{
		Field: "frequency",
		Err:   fmt.Errorf("unknown value %q (available: %s)", s, joinValues(frequencies)),
	}
}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	_, ok := portalFrequencies[f]
	return ok
}

// PortalValue is the option value of the portal's frequency select.
func (f Frequency) PortalValue() string {
	return portalFrequencies[f]
}

// DateFormat is the human-readable layout the portal expects for this frequency.
func (f Frequency) DateFormat() string {
	if format, ok := dateFormats[f]; ok {
		return format
	}
	return "MM-YYYY"
}

// Truncate returns the start of the period containing t, in UTC.
func (f Frequency) Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	switch f {
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case Quarterly:
		return time.Date(y, ((m-1)/3)*3+1, 1, 0, 0, 0, 0, time.UTC)
	case Semiannual:
		return time.Date(y, ((m-1)/6)*6+1, 1, 0, 0, 0, 0, time.UTC)
	case Annual:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// Label is the canonical period key for t: 2006-01-02, 2006-01, 2006-Q1, 2006-S1 or 2006.
func (f Frequency) Label(t time.Time) string {
	switch f {
	case Monthly:
		return t.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case Semiannual:
		return fmt.Sprintf("%d-S%d", t.Year(), (int(t.Month())-1)/6+1)
	case Annual:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// PortalDate formats t the way the portal's begin/end date inputs expect it.
func (f Frequency) PortalDate(t time.Time) string {
	switch f {
	case Monthly:
		return t.Format("01-2006")
	case Quarterly:
		return fmt.Sprintf("Q%d-%d", (int(t.Month())-1)/3+1, t.Year())
	case Semiannual:
		return fmt.Sprintf("S%d-%d", (int(t.Month())-1)/6+1, t.Year())
	case Annual:
		return t.Format("2006")
	default:
		return t.Format("02-01-2006")
	}
}

// Language selects the portal UI language, which also decides number formatting.
type Language string

const (
	English Language = "english"
	Turkish Language = "turkish"
)

var languages = []Language{English, Turkish}

// Languages lists the supported portal languages.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// ParseLanguage accepts "english"/"turkish" or the short "en"/"tr".
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english", "en":
		return English, nil
	case "turkish", "tr":
		return Turkish, nil
	}
	return "", ErrConfiguration{
		Field: "language",
		Err:   fmt.Errorf("unknown value %q (available: %s)", s, joinValues(languages)),
	}
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == English || l == Turkish
}

// SwitchLabel is the caption the portal's language button shows while the page
// is in the other language; clicking it switches to l.
func (l Language) SwitchLabel() string {
	if l == Turkish {
		return "TR"
	}
	return "EN"
}

// DecimalSeparator is the decimal mark the portal renders numbers with.
func (l Language) DecimalSeparator() string {
	if l == Turkish {
		return ","
	}
	return "."
}

// OutputFormat selects how a ScrapeResult is handed back.
type OutputFormat string

const (
	Spreadsheet OutputFormat = "spreadsheet"
	DataFrame   OutputFormat = "dataframe"
	Mapping     OutputFormat = "mapping"
)

var outputFormats = []OutputFormat{Spreadsheet, DataFrame, Mapping}

// OutputFormats lists the supported output formats.
func OutputFormats() []OutputFormat {
	out := make([]OutputFormat, len(outputFormats))
	copy(out, outputFormats)
	return out
}

// ParseOutputFormat accepts a format name or one of its aliases.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spreadsheet", "excel", "xlsx":
		return Spreadsheet, nil
	case "dataframe", "df", "table":
		return DataFrame, nil
	case "mapping", "dict", "map":
		return Mapping, nil
	}
	return "", ErrConfiguration{
		Field: "output_format",
		Err:   fmt.Errorf("unknown value %q (available: %s)", s, joinValues(outputFormats)),
	}
}

// Valid reports whether o is a supported output format.
func (o OutputFormat) Valid() bool {
	return o == Spreadsheet || o == DataFrame || o == Mapping
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
