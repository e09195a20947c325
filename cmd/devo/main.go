package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:     "devo",
	Short:   "Assemble, validate, and export multi-day devotional books",
	Version: version,
	Long: `devo assembles multi-day devotional books: retrieval-grounded
expositions, validated sections, traceable prayers, and a usage
registry that keeps quotes from repeating across volumes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(artifactCmd)
	rootCmd.AddCommand(scriptureCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
