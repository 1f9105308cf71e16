package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/aluiziolira/go-scrape-evds/models"
)

// ScrapeFile is the on-disk and flag form of a Scrape; enums and dates are
// kept as text until Build.
type ScrapeFile struct {
	Variables           []models.Variable `mapstructure:"variables" yaml:"variables"`
	Start               string            `mapstructure:"start" yaml:"start"`
	End                 string            `mapstructure:"end" yaml:"end"`
	Frequency           string            `mapstructure:"frequency" yaml:"frequency"`
	Language            string            `mapstructure:"language" yaml:"language"`
	OutputFormat        string            `mapstructure:"output_format" yaml:"output_format"`
	OutputFile          string            `mapstructure:"output_file" yaml:"output_file,omitempty"`
	IncludeExplanations bool              `mapstructure:"include_explanations" yaml:"include_explanations"`
}

// Build parses the text fields and validates the resulting job.
func (f ScrapeFile) Build() (Scrape, error) {
	frequency, err := models.ParseFrequency(f.Frequency)
	if err != nil {
		return Scrape{}, err
	}
	language, err := models.ParseLanguage(f.Language)
	if err != nil {
		return Scrape{}, err
	}
	format, err := models.ParseOutputFormat(f.OutputFormat)
	if err != nil {
		return Scrape{}, err
	}
	start, err := frequency.ParsePeriod(f.Start)
	if err != nil {
		return Scrape{}, invalid("start", err)
	}
	end, err := frequency.ParsePeriod(f.End)
	if err != nil {
		return Scrape{}, invalid("end", err)
	}

	return NewScrape(Scrape{
		Variables:           f.Variables,
		Start:               start,
		End:                 end,
		Frequency:           frequency,
		Language:            language,
		OutputFormat:        format,
		OutputFile:          f.OutputFile,
		IncludeExplanations: f.IncludeExplanations,
	})
}

// FileFromScrape renders s in its file form.
func FileFromScrape(s Scrape) ScrapeFile {
	return ScrapeFile{
		Variables:           s.Variables,
		Start:               s.Start.Format("2006-01-02"),
		End:                 s.End.Format("2006-01-02"),
		Frequency:           string(s.Frequency),
		Language:            string(s.Language),
		OutputFormat:        string(s.OutputFormat),
		OutputFile:          s.OutputFile,
		IncludeExplanations: s.IncludeExplanations,
	}
}

// LoadScrape reads a job file (YAML or JSON). EVDS_* environment variables
// override top-level keys, e.g. EVDS_OUTPUT_FORMAT=mapping.
func LoadScrape(path string) (Scrape, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("EVDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only reaches keys viper already knows from the file or a
	// default; the dates have neither.
	for _, key := range []string{"start", "end"} {
		if err := v.BindEnv(key); err != nil {
			return Scrape{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	v.SetDefault("language", string(models.English))
	v.SetDefault("frequency", string(models.Daily))
	v.SetDefault("output_format", string(models.Spreadsheet))
	v.SetDefault("output_file", "evds.xlsx")
	v.SetDefault("include_explanations", true)

	if err := v.ReadInConfig(); err != nil {
		return Scrape{}, fmt.Errorf("failed to read job file %s: %w", path, err)
	}

	var file ScrapeFile
	if err := v.Unmarshal(&file); err != nil {
		return Scrape{}, fmt.Errorf("failed to decode job file %s: %w", path, err)
	}
	return file.Build()
}

// ExportScrape writes s as YAML and returns the path written. ".yaml" is
// appended when path has no YAML extension.
func ExportScrape(path string, s Scrape) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	default:
		path += ".yaml"
	}

	data, err := yaml.Marshal(FileFromScrape(s))
	if err != nil {
		return "", fmt.Errorf("failed to encode job: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write job file %s: %w", path, err)
	}
	return path, nil
}
