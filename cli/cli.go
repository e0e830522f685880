// Package cli provides the command-line interface of the benchmark tool:
// argument handling, wiring of the benchmark components, and the history
// browser.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yllada/vpn-bench/bench"
	"github.com/yllada/vpn-bench/campaign"
	"github.com/yllada/vpn-bench/common"
	"github.com/yllada/vpn-bench/config"
	"github.com/yllada/vpn-bench/discovery"
	"github.com/yllada/vpn-bench/probe"
	"github.com/yllada/vpn-bench/report"
	"github.com/yllada/vpn-bench/results"
	"github.com/yllada/vpn-bench/tunnel"
)

// defaultHistoryLimit is how many campaigns `history` lists by default.
const defaultHistoryLimit = 10

// CLI holds the state shared by all commands.
type CLI struct {
	cfg     *config.Config
	verbose bool
	limit   int

	out    io.Writer
	errOut io.Writer
}

// New creates a CLI writing to stdout and stderr.
func New() *CLI {
	return &CLI{out: os.Stdout, errOut: os.Stderr, limit: defaultHistoryLimit}
}

// Command builds the root command.
func (c *CLI) Command(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   common.AppName + " [--verbose] <config-dir> <code> [<code>...]",
		Short: "Benchmark WireGuard configurations by latency and throughput",
		Long: `vpn-bench brings up each WireGuard configuration in <config-dir> whose
file name starts with one of the given codes, measures latency and
download/upload speed through it, brings it down again, and prints the
configurations ranked by download speed.`,
		Example: `  vpn-bench /etc/wireguard us ch
  vpn-bench --verbose ~/wg de-01`,
		Version:           version,
		Args:              cobra.MinimumNArgs(2),
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.runBench,
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false,
		"Enable debug logging and show tunnel command output")

	root.AddCommand(c.historyCommand())
	return root
}

// Execute runs the CLI with os.Args and returns the process exit code.
// SIGINT and SIGTERM interrupt a running campaign gracefully.
func Execute(version string) int {
	ctx, stop := interruptContext(context.Background())
	defer stop()
	defer common.CloseLogger()

	err := New().Command(version).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

// interruptContext returns a context cancelled by the first SIGINT or
// SIGTERM. Signal handling is reset once it fires, so a second signal
// terminates the process even while cleanup is blocked.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

// setup loads the settings and configures logging before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		if cfg == nil {
			return err
		}
		// Defaults are usable even when they could not be written.
		fmt.Fprintf(c.errOut, "Warning: %v\n", err)
	}
	c.cfg = cfg

	common.GetLogger().SetOutput(c.errOut)
	level := common.LevelInfo
	if c.verbose {
		level = common.LevelDebug
	}
	if err := common.InitLogger(common.LogConfig{
		Level:      level,
		EnableFile: cfg.LogToFile,
	}); err != nil {
		fmt.Fprintf(c.errOut, "Warning: Could not initialize file logging: %v\n", err)
	}
	return nil
}

func (c *CLI) runBench(cmd *cobra.Command, args []string) error {
	// Arguments are valid from here on; errors are no longer usage errors.
	cmd.SilenceUsage = true

	dir, filters := args[0], args[1:]

	if err := c.checkTools(); err != nil {
		return err
	}

	configs, misses, err := discovery.Find(dir, filters, common.ConfigExtension)
	if err != nil {
		return err
	}

	resultsPath, err := c.cfg.ResultsPath()
	if err != nil {
		return fmt.Errorf("resolving results file: %w", err)
	}
	console := report.NewConsole(resultsPath)
	console.Out = c.out

	ctrl := tunnel.NewWGQuick(c.cfg.TunnelCommand, c.cfg.UseSudo, c.verbose)

	runner := &bench.Runner{
		Tunnel:     ctrl,
		Latency:    probe.NewLatencyProbe(c.cfg.PingTarget, c.cfg.PingCount),
		Throughput: probe.NewThroughputProbe(),
	}
	if len(c.cfg.VerifyHosts) > 0 {
		runner.Verifier = tunnel.NewVerifier(c.cfg.VerifyHosts)
	}

	controller := &campaign.Controller{
		Tunnel:   ctrl,
		Runner:   runner,
		Reporter: console,
		Settle:   c.cfg.SettleDelay,
	}
	if c.cfg.HistoryEnabled && len(configs) > 0 {
		store, err := openHistory()
		if err != nil {
			common.LogWarn("Campaign history disabled: %v", err)
		} else {
			defer store.Close()
			controller.Store = store
		}
	}

	out := controller.Run(cmd.Context(), campaign.Plan{
		Configs: configs,
		Filters: filters,
		Misses:  misses,
	})
	common.LogInfo("Campaign %s finished: %s, %d records, %d failed",
		out.ID, out.State, len(out.Ranked), len(out.Failed))
	return nil
}

// checkTools verifies that the tunnel command, and sudo when configured,
// are installed.
func (c *CLI) checkTools() error {
	tools := []string{c.cfg.TunnelCommand}
	if c.cfg.UseSudo {
		tools = append(tools, "sudo")
	}
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			common.LogError("%s is not installed on the system", tool)
			return fmt.Errorf("%s is not installed on the system: %w", tool, err)
		}
	}
	return nil
}

func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [<campaign-id>]",
		Short: "List past campaigns, or show the ranked results of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid campaign id %q: %w", args[0], err)
				}
				return c.ShowCampaign(cmd.Context(), store, id)
			}
			return c.ListCampaigns(cmd.Context(), store)
		},
	}
	cmd.Flags().IntVarP(&c.limit, "limit", "n", defaultHistoryLimit, "Number of campaigns to list")
	return cmd
}

func openHistory() (*results.Store, error) {
	path, err := results.DefaultStorePath()
	if err != nil {
		return nil, err
	}
	return results.OpenStore(path)
}

// ListCampaigns prints the most recent campaigns.
func (c *CLI) ListCampaigns(ctx context.Context, store *results.Store) error {
	campaigns, err := store.Recent(ctx, c.limit)
	if err != nil {
		return err
	}

	if len(campaigns) == 0 {
		fmt.Fprintln(c.out, "No benchmark campaigns recorded.")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tSTATUS\tFILTERS")
	fmt.Fprintln(w, "--\t-------\t--------\t------\t-------")

	for _, cp := range campaigns {
		status := campaign.StateCompleted.String()
		if cp.Interrupted {
			status = campaign.StateInterrupted.String()
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			cp.ID, cp.StartedAt.Local().Format(time.DateTime),
			formatDuration(cp.FinishedAt.Sub(cp.StartedAt)), status,
			strings.Join(cp.Filters, " "))
	}

	return w.Flush()
}

// ShowCampaign prints the ranked results of one campaign.
func (c *CLI) ShowCampaign(ctx context.Context, store *results.Store, id uuid.UUID) error {
	records, err := store.Records(ctx, id)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(c.out, "No records for campaign %s.\n", id)
		return nil
	}

	ledger := results.NewLedger()
	for _, r := range records {
		ledger.Append(r)
	}
	fmt.Fprintln(c.out, report.RenderTable(ledger.Ranked()))
	return nil
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// exitCode maps a command error to a process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
