// Package observability renders run progress and reports for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/jonathan/talent-match/internal/ingestion"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// barWidth is the longest histogram bar
	barWidth = 40
)

// Printer handles formatted terminal output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %s%s │\n", line, strings.Repeat(" ", boxWidth-4-len([]rune(line))))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStage prints one pipeline progress line
//
//nolint:errcheck
func (p *Printer) PrintStage(stage, message string) {
	fmt.Fprintln(p.out, pterm.Sprintf("🔄 %s: %s", pterm.LightCyan(stage), message))
}

// PrintReport prints the job banner, ranked table, histogram and narrative
//
//nolint:errcheck
func (p *Printer) PrintReport(report *types.Report) {
	if report == nil {
		return
	}

	fmt.Fprintln(p.out, pterm.Green(fmt.Sprintf("Created Job Vacancy ID: %d", report.JobID)))
	fmt.Fprintf(p.out, "%s (%s) benchmarks: [%s]\n",
		report.Request.RoleName, report.Request.JobLevel, ingestion.FormatBenchmarkIDs(report.Request.BenchmarkIDs))

	if report.Warning != "" {
		fmt.Fprintln(p.out, pterm.Yellow("Warning: "+report.Warning))
		return
	}

	p.PrintRanked(report.Ranked)
	p.PrintHistogram(report.Histogram)
	p.PrintNarrative(report.Narrative)
}

// PrintRanked prints the ranked employees as a table
//
//nolint:errcheck
func (p *Printer) PrintRanked(ranked []types.MatchResult) {
	if len(ranked) == 0 {
		return
	}

	data := pterm.TableData{{"#", ranking.NameColumn, ranking.RateColumn}}
	for i, r := range ranked {
		rate := "-"
		if r.HasRate {
			rate = fmt.Sprintf("%.2f", r.MatchRate)
		}
		data = append(data, []string{fmt.Sprintf("%d", i+1), r.EmployeeName, rate})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		fmt.Fprintf(p.out, "failed to render table: %v\n", err)
		return
	}
	fmt.Fprintln(p.out, table)
}

// PrintHistogram prints the match-rate distribution as horizontal bars
func (p *Printer) PrintHistogram(bins []types.HistogramBin) {
	if len(bins) == 0 {
		return
	}

	peak := ranking.MaxCount(bins)
	var sb strings.Builder
	for i, b := range bins {
		width := 0
		if peak > 0 {
			width = b.Count * barWidth / peak
		}
		if b.Count > 0 && width == 0 {
			width = 1
		}
		fmt.Fprintf(&sb, "%7.2f - %7.2f │%s %d", b.Lower, b.Upper, strings.Repeat("█", width), b.Count)
		if i < len(bins)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("Distribution of Talent Match Scores", sb.String())
}

// PrintNarrative prints the AI summary, or the reason it is missing
//
//nolint:errcheck
func (p *Printer) PrintNarrative(n *types.Narrative) {
	if n == nil {
		return
	}
	if n.Failed() {
		fmt.Fprintln(p.out, pterm.Red(n.Err))
		return
	}
	p.printBox("AI Insight Summary", wrap(n.Text, boxWidth-4))
}

// wrap breaks text into lines of at most width runes, keeping paragraphs
func wrap(text string, width int) string {
	var lines []string
	for _, para := range strings.Split(strings.TrimSpace(text), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
