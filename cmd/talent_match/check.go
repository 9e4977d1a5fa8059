package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jonathan/talent-match/internal/narrative"
	"github.com/jonathan/talent-match/internal/sqltemplate"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the database connection and the SQL asset",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	if err := a.db.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	pterm.Success.Println("Database reachable")

	tmpl, err := sqltemplate.Load(a.cfg.SQLAsset)
	if err != nil {
		return err
	}
	_, args, err := sqltemplate.Render(tmpl, sqltemplate.Params{BenchmarkIDs: []int64{1}})
	if err != nil {
		return err
	}
	pterm.Success.Printf("SQL asset %s renders with %d parameters\n", a.cfg.SQLAsset, len(args))

	if err := narrative.CheckPrompts(); err != nil {
		return err
	}
	pterm.Success.Println("Narrative prompts loaded")

	if a.llm == nil {
		pterm.Warning.Println("LLM client not configured; summaries will be skipped")
	} else {
		pterm.Success.Printf("LLM model: %s\n", a.llm.Model())
	}
	return nil
}
