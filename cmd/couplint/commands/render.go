package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/couplint/internal/report"
)

// maxMessageWidth truncates violation messages in table output.
const maxMessageWidth = 72

// renderReport writes the report to w in the requested format.
func renderReport(w io.Writer, rep *report.Report, format string) error {
	switch format {
	case formatTable:
		renderTable(w, rep)

		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}

		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)

		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// renderTable writes the human-readable report.
func renderTable(w io.Writer, rep *report.Report) {
	renderSummary(w, rep)

	if len(rep.Violations) > 0 {
		renderViolations(w, rep.Violations)
	}

	if len(rep.Duplication.Clusters) > 0 {
		renderClusters(w, rep.Duplication.Clusters)
	}

	if len(rep.Errors) > 0 {
		renderErrors(w, rep.Errors)
	}
}

func renderSummary(w io.Writer, rep *report.Report) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("Analysis Summary")

	tbl.AppendRows([]table.Row{
		{"Files analyzed", humanize.Comma(int64(rep.Metrics.FilesAnalyzed))},
		{"Duration", (time.Duration(rep.Metrics.DurationMS) * time.Millisecond).String()},
		{"Cache hit rate", fmt.Sprintf("%.1f%%", rep.Metrics.CacheHitRate*100)},
		{"Violations", humanize.Comma(int64(len(rep.Violations)))},
		{"Duplicate clusters", humanize.Comma(int64(len(rep.Duplication.Clusters)))},
		{"MECE score", fmt.Sprintf("%.3f", rep.Duplication.MECEScore)},
		{"Compliance score", fmt.Sprintf("%.3f", rep.Compliance.Score)},
	})

	tbl.Render()
}

func renderViolations(w io.Writer, violations []report.Violation) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("Violations")
	tbl.AppendHeader(table.Row{"Severity", "Kind", "Location", "Message"})

	for _, v := range violations {
		tbl.AppendRow(table.Row{
			colorSeverity(v.Severity),
			v.Kind,
			fmt.Sprintf("%s:%d", v.File, v.Line),
			truncate(v.Message, maxMessageWidth),
		})
	}

	tbl.AppendFooter(table.Row{"", "", "Total", humanize.Comma(int64(len(violations)))})
	tbl.Render()
}

func renderClusters(w io.Writer, clusters []report.Cluster) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("Duplicate Clusters")
	tbl.AppendHeader(table.Row{"Similarity", "Blocks"})

	for _, cluster := range clusters {
		blocks := ""

		for i, member := range cluster.Members {
			if i > 0 {
				blocks += ", "
			}

			blocks += fmt.Sprintf("%s:%d (%s)", member.File, member.StartLine, member.Function)
		}

		tbl.AppendRow(table.Row{
			fmt.Sprintf("%.2f", cluster.Similarity),
			truncate(blocks, maxMessageWidth),
		})
	}

	tbl.Render()
}

func renderErrors(w io.Writer, entries []report.Entry) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("Warnings")
	tbl.AppendHeader(table.Row{"Phase", "File", "Detector", "Cause"})

	for _, entry := range entries {
		tbl.AppendRow(table.Row{
			string(entry.Phase),
			entry.File,
			entry.Detector,
			truncate(entry.Cause, maxMessageWidth),
		})
	}

	tbl.Render()
}

// colorSeverity renders a severity name in its conventional color.
func colorSeverity(s report.Severity) string {
	switch s {
	case report.SeverityCritical:
		return color.New(color.FgRed).Sprint(s.String())
	case report.SeverityWarning:
		return color.New(color.FgYellow).Sprint(s.String())
	case report.SeverityInfo:
		return color.New(color.FgCyan).Sprint(s.String())
	default:
		return s.String()
	}
}

// truncate shortens s to at most width runes.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}

	return string(runes[:width-3]) + "..."
}
