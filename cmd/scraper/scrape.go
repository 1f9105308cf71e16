package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/scraper"
)

// exportFlags are the extra outputs every command can write.
type exportFlags struct {
	csvPath    string
	jsonPath   string
	snapshot   string
	saveConfig string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.csvPath, "csv", "", "Also write the table as CSV")
	flags.StringVar(&f.jsonPath, "json", "", "Also write the table as JSON lines")
	flags.StringVar(&f.saveConfig, "save-config", "", "Save the job to a YAML file for later runs")
}

var (
	scrapeJob    jobFlags
	scrapeExport exportFlags
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--config job.yaml] [--var CODE ...] [--start DATE --end DATE]",
	Short: "Retrieves series from the portal for a job given by flags or a job file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := scrapeJob.job(cmd)
		if err != nil {
			return err
		}
		if err := saveJob(scrapeExport.saveConfig, job); err != nil {
			return err
		}

		metrics := scraper.NewMetrics()
		stopMetrics := serveMetrics(settings, metrics)
		defer stopMetrics()

		ctx, driver, closeBrowser, err := openPortal(cmd.Context(), settings)
		if err != nil {
			return err
		}
		defer closeBrowser()

		s := scraper.NewScraper(driver, scraper.WithMetrics(metrics), scraper.WithSnapshot(scrapeExport.snapshot))
		report, err := s.Run(ctx, job)
		if err != nil {
			return err
		}
		return finish(report, scrapeExport)
	},
}

func init() {
	scrapeJob.register(scrapeCmd)
	scrapeExport.register(scrapeCmd)
	scrapeCmd.Flags().StringVar(&scrapeExport.snapshot, "snapshot", "", "Save the rendered report page for the parse command")
	rootCmd.AddCommand(scrapeCmd)
}

// finish prints the report and writes the optional CSV and JSON copies.
func finish(report *scraper.Report, export exportFlags) error {
	printPreview(os.Stdout, report.Result)
	if report.Job.IncludeExplanations {
		printExplanations(os.Stdout, report.Result.Explanations)
	}
	if err := persist(export.csvPath, export.jsonPath, report.Result); err != nil {
		return err
	}
	printSummary(os.Stdout, report)
	return nil
}

func saveJob(path string, job config.Scrape) error {
	if path == "" {
		return nil
	}
	written, err := config.ExportScrape(path, job)
	if err != nil {
		return err
	}
	slog.Info("job saved", slog.String("path", written))
	return nil
}
