// Package report renders benchmark records for the terminal and writes the
// final ranked table to disk.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/yllada/vpn-bench/common"
	"github.com/yllada/vpn-bench/results"
)

// Headers are the column titles of every rendered table.
var Headers = []string{"Config", "Latency (ms)", "Download Speed (Mbps)", "Upload Speed (Mbps)"}

// clearScreen moves the cursor home and wipes the terminal.
const clearScreen = "\033[H\033[2J"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// RenderTable formats records as a grid table, one row per record, in the
// given order. Absent measurements show as "-".
func RenderTable(records []results.Record) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Config.Name(),
			r.Latency.String(),
			r.Download.String(),
			r.Upload.String(),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		Headers(Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// Console reports campaign progress on a terminal.
type Console struct {
	// Out receives tables and messages.
	Out io.Writer
	// Redraw clears the screen before each incremental table.
	Redraw bool
	// ResultsPath is where Final writes the ranked table.
	ResultsPath string
}

// NewConsole creates a reporter on stdout that redraws in place when stdout
// is a terminal.
func NewConsole(resultsPath string) *Console {
	return &Console{
		Out:         os.Stdout,
		Redraw:      term.IsTerminal(int(os.Stdout.Fd())),
		ResultsPath: resultsPath,
	}
}

// Warn reports a filter that matched no configuration.
func (c *Console) Warn(filter string) {
	common.LogWarn("No configuration files found for filter: %s", filter)
}

// NoConfigurations reports that there is nothing to benchmark.
func (c *Console) NoConfigurations() {
	fmt.Fprintln(c.Out, "No valid configurations found for any of the provided filters.")
}

// Interrupted reports a user interruption.
func (c *Console) Interrupted() {
	fmt.Fprintln(c.Out, "\nBenchmarking interrupted by user.")
}

// Disconnected reports the outcome of the final tunnel cleanup.
func (c *Console) Disconnected(name string, err error) {
	if err != nil {
		common.LogDebug("Final cleanup of %s: %v", name, err)
	}
	fmt.Fprintf(c.Out, "Gracefully disconnected from %s\n", name)
}

// Progress shows the records collected so far, in completion order.
func (c *Console) Progress(records []results.Record) {
	if c.Redraw {
		fmt.Fprint(c.Out, clearScreen)
	}
	fmt.Fprintln(c.Out, RenderTable(records))
}

// Final shows the ranked records and saves the table to ResultsPath.
func (c *Console) Final(ranked []results.Record) error {
	rendered := RenderTable(ranked)
	fmt.Fprintln(c.Out, "\nFinal Benchmark Results:")
	fmt.Fprintln(c.Out, rendered)

	if c.ResultsPath == "" {
		return nil
	}
	if err := Save(c.ResultsPath, rendered); err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "Results saved to %s\n", c.ResultsPath)
	return nil
}

// Save writes a rendered table to path, replacing any previous content.
func Save(path, rendered string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to save results to file: %w", err)
	}
	if err := os.WriteFile(path, []byte(rendered+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to save results to file: %w", err)
	}
	return nil
}
