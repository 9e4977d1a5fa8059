package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-match/internal/ingestion"
	"github.com/jonathan/talent-match/internal/observability"
	"github.com/jonathan/talent-match/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run one talent match from the command line",
	Long: `Registers the role profile, runs the scoring query, and prints the ranked
table, score distribution and AI summary.`,
	RunE: runMatch,
}

var (
	runRole       string
	runLevel      string
	runPurpose    string
	runBenchmarks string
)

func init() {
	defaults := ingestion.DefaultForm()
	runCommand.Flags().StringVarP(&runRole, "role", "r", defaults.RoleName, "Role name")
	runCommand.Flags().StringVarP(&runLevel, "level", "l", defaults.JobLevel, "Job level (Junior, Mid, Senior)")
	runCommand.Flags().StringVarP(&runPurpose, "purpose", "p", defaults.RolePurpose, "Role purpose")
	runCommand.Flags().StringVarP(&runBenchmarks, "benchmarks", "b", defaults.BenchmarkIDs, "Comma-separated benchmark employee IDs")
	rootCmd.AddCommand(runCommand)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	req, err := ingestion.Form{
		RoleName:     runRole,
		JobLevel:     runLevel,
		RolePurpose:  runPurpose,
		BenchmarkIDs: runBenchmarks,
	}.Collect()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	printer := observability.NewPrinter(os.Stdout)
	report, err := a.pipeline.RunWithProgress(cmd.Context(), req, func(e pipeline.ProgressEvent) {
		printer.PrintStage(e.Step, e.Message)
	})
	printer.PrintReport(report)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}
