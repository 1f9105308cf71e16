package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-evds/pipeline"
	"github.com/aluiziolira/go-scrape-evds/scraper"
)

var (
	parseJob    jobFlags
	parseExport exportFlags
)

var parseCmd = &cobra.Command{
	Use:   "parse <snapshot> [--config job.yaml] [--var CODE ...]",
	Short: "Reads a saved report page (file or URL) without a browser.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := parseJob.job(cmd)
		if err != nil {
			return err
		}

		started := time.Now()
		result, err := scraper.NewSnapshotReader(settings).Read(cmd.Context(), args[0], job)
		if err != nil {
			return scraper.ErrStage{Stage: scraper.StageReadTable, Err: err}
		}
		out, err := pipeline.Convert(result, job)
		if err != nil {
			return scraper.ErrStage{Stage: scraper.StageConvert, Err: err}
		}

		return finish(&scraper.Report{
			Job:      job,
			Result:   result,
			Output:   out,
			Snapshot: args[0],
			Duration: time.Since(started),
		}, parseExport)
	},
}

func init() {
	parseJob.register(parseCmd)
	parseExport.register(parseCmd)
	rootCmd.AddCommand(parseCmd)
}
