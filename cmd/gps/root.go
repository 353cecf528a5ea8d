package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gps/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "gps",
	Short: "Means-ends planner with goal protection",
	Long: "gps searches for a sequence of operations that transforms a world state\n" +
		"into one satisfying a set of goals, protecting goals it has already\n" +
		"achieved from being undone along the way.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
