package main

import (
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/models"
)

// jobFlags describe a scrape job on the command line. With --config the file
// is loaded first and explicitly set flags override it.
type jobFlags struct {
	configPath   string
	variables    []string
	start        string
	end          string
	frequency    string
	language     string
	format       string
	output       string
	explanations bool
}

func (f *jobFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "Job file (YAML or JSON)")
	flags.StringSliceVar(&f.variables, "var", nil, "Series code, repeatable (e.g. TP.DK.USD.A)")
	flags.StringVar(&f.start, "start", "", "First period, in the frequency's date format or ISO")
	flags.StringVar(&f.end, "end", "", "Last period, in the frequency's date format or ISO")
	flags.StringVar(&f.frequency, "frequency", string(models.Daily), "daily, workday, weekly, monthly, quarterly, semiannual or annual")
	flags.StringVar(&f.language, "language", string(models.English), "Portal language: english or turkish")
	flags.StringVar(&f.format, "format", string(models.Spreadsheet), "Output format: spreadsheet, dataframe or mapping")
	flags.StringVarP(&f.output, "output", "o", "evds.xlsx", "Spreadsheet file")
	flags.BoolVar(&f.explanations, "explanations", true, "Read the series explanations")
}

func (f *jobFlags) job(cmd *cobra.Command) (config.Scrape, error) {
	file := config.ScrapeFile{
		Start:               f.start,
		End:                 f.end,
		Frequency:           f.frequency,
		Language:            f.language,
		OutputFormat:        f.format,
		OutputFile:          f.output,
		IncludeExplanations: f.explanations,
	}
	for _, code := range f.variables {
		file.Variables = append(file.Variables, models.Variable{Code: code})
	}
	if f.configPath == "" {
		return file.Build()
	}

	loaded, err := config.LoadScrape(f.configPath)
	if err != nil {
		return config.Scrape{}, err
	}
	merged := config.FileFromScrape(loaded)
	flags := cmd.Flags()
	if flags.Changed("var") {
		merged.Variables = file.Variables
	}
	if flags.Changed("frequency") {
		merged.Frequency = file.Frequency
	}
	if flags.Changed("start") {
		merged.Start = file.Start
	}
	if flags.Changed("end") {
		merged.End = file.End
	}
	if flags.Changed("language") {
		merged.Language = file.Language
	}
	if flags.Changed("format") {
		merged.OutputFormat = file.OutputFormat
	}
	if flags.Changed("output") {
		merged.OutputFile = file.OutputFile
	}
	if flags.Changed("explanations") {
		merged.IncludeExplanations = file.IncludeExplanations
	}
	return merged.Build()
}
