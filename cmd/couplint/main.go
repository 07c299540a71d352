// Package main provides the entry point for the couplint CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/couplint/cmd/couplint/commands"
	"github.com/Sumatoshi-tech/couplint/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "couplint",
		Short: "Couplint - connascence and compliance analysis for source trees",
		Long: `Couplint parses a source tree, detects coupling (connascence) between
code elements, clusters near-duplicate blocks, and scores rule compliance,
producing a single machine-readable report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(os.Stdout, version.String())
		},
	}
}
