// Package commands implements the couplint CLI subcommands.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/couplint/internal/analysis"
	"github.com/Sumatoshi-tech/couplint/internal/config"
	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/pkg/observability"
	"github.com/Sumatoshi-tech/couplint/pkg/version"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// Sentinel command errors.
var (
	// ErrUnknownFormat is returned for an unrecognized --format value.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrViolationsFound is returned when --fail-on matches at least one
	// violation, so CI runs can gate on the exit code.
	ErrViolationsFound = errors.New("violations at or above the fail-on severity")
)

// analyzeOptions collects the analyze command's flags.
type analyzeOptions struct {
	configPath string
	format     string
	cacheDir   string
	workers    int
	include    []string
	exclude    []string
	failOn     string
}

// NewAnalyzeCommand creates the analyze subcommand.
func NewAnalyzeCommand() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <path>",
		Short: "Analyze a source tree for coupling and compliance violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default .couplint.yaml)")
	flags.StringVarP(&opts.format, "format", "f", formatTable, "output format: table, json, or yaml")
	flags.StringVar(&opts.cacheDir, "cache-dir", "", "directory for cross-run caches")
	flags.IntVar(&opts.workers, "workers", 0, "parallel workers (0 = one per CPU)")
	flags.StringSliceVar(&opts.include, "include", nil, "glob patterns files must match")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "glob patterns to skip")
	flags.StringVar(&opts.failOn, "fail-on", "", "exit nonzero on violations at this severity or above")

	return cmd
}

func runAnalyze(cmd *cobra.Command, root string, opts *analyzeOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	applyFlags(cfg, opts)

	logger := observability.NewLogger(observability.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Version: version.Version,
	}, os.Stderr)

	analyzer, err := analysis.New(cfg.AnalyzerConfig(root, logger))
	if err != nil {
		return err
	}

	rep, err := analyzer.Analyze(cmd.Context())
	if err != nil {
		return err
	}

	renderErr := renderReport(cmd.OutOrStdout(), rep, opts.format)
	if renderErr != nil {
		return renderErr
	}

	return checkFailOn(rep, opts.failOn)
}

// applyFlags lets command-line flags override the loaded configuration.
func applyFlags(cfg *config.Config, opts *analyzeOptions) {
	if opts.cacheDir != "" {
		cfg.Cache.Directory = opts.cacheDir
	}

	if opts.workers > 0 {
		cfg.Analysis.Workers = opts.workers
	}

	cfg.Analysis.Include = append(cfg.Analysis.Include, opts.include...)
	cfg.Analysis.Exclude = append(cfg.Analysis.Exclude, opts.exclude...)
}

// checkFailOn turns matching violations into a nonzero exit.
func checkFailOn(rep *report.Report, failOn string) error {
	if failOn == "" {
		return nil
	}

	var threshold report.Severity
	if err := threshold.UnmarshalText([]byte(failOn)); err != nil {
		return fmt.Errorf("--fail-on: %w", err)
	}

	count := 0

	for _, v := range rep.Violations {
		if v.Severity >= threshold {
			count++
		}
	}

	if count > 0 {
		return fmt.Errorf("%w: %d at %s+", ErrViolationsFound, count, threshold)
	}

	return nil
}
