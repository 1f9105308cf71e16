package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-evds/portal"
	"github.com/aluiziolira/go-scrape-evds/scraper"
)

var _ scraper.Catalog = (*portal.Portal)(nil)

var interactiveExport exportFlags

var interactiveCmd = &cobra.Command{
	Use:   "interactive [--save-config job.yaml]",
	Short: "Builds a job from menus over the live series catalog and runs it.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal(os.Stdin) {
			return errors.New("interactive mode needs a terminal on stdin")
		}

		metrics := scraper.NewMetrics()
		stopMetrics := serveMetrics(settings, metrics)
		defer stopMetrics()

		ctx, driver, closeBrowser, err := openPortal(cmd.Context(), settings)
		if err != nil {
			return err
		}
		defer closeBrowser()

		s := scraper.NewScraper(driver, scraper.WithMetrics(metrics))
		report, job, err := s.RunInteractive(ctx, scraper.NewTerminalPrompter(os.Stdin, os.Stdout))
		if len(job.Variables) > 0 {
			if saveErr := saveJob(interactiveExport.saveConfig, job); saveErr != nil {
				slog.Error("saving job failed", slog.Any("error", saveErr))
			}
		}
		if err != nil {
			return err
		}
		return finish(report, interactiveExport)
	},
}

func init() {
	interactiveExport.register(interactiveCmd)
	rootCmd.AddCommand(interactiveCmd)
}
