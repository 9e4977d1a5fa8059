// Package main provides the entry point for the AI Talent Match dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

var (
	cfgFile  string
	logDebug bool
	logJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "talent_match",
	Short: "AI Talent Match dashboard",
	Long: `Talent Match registers a role profile, scores employees against benchmark
talent with an external SQL query, and summarizes the ranking with an LLM.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is talent-match.yaml in current directory)")
	rootCmd.PersistentFlags().BoolVarP(&logDebug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&logJSON, "json", "j", false, "json format for logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
