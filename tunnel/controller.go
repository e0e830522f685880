package tunnel

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/yllada/vpn-bench/common"
)

// Controller brings a tunnel described by a definition file up or down.
type Controller interface {
	// Up activates the tunnel for path.
	Up(ctx context.Context, path string) error
	// Down deactivates the tunnel for path.
	Down(ctx context.Context, path string) error
}

// WGQuick drives tunnels through the wg-quick command line tool, or any
// command taking "up <path>" and "down <path>" arguments.
type WGQuick struct {
	// Command is the executable to run. Empty means wg-quick.
	Command string
	// UseSudo runs Command through sudo.
	UseSudo bool
	// Verbose passes the command's own output through to Stdout/Stderr
	// instead of capturing it.
	Verbose bool
	// Stdout and Stderr receive passthrough output; nil means os.Stdout and
	// os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewWGQuick creates a controller running command, optionally through sudo.
func NewWGQuick(command string, useSudo, verbose bool) *WGQuick {
	return &WGQuick{Command: command, UseSudo: useSudo, Verbose: verbose}
}

// Up runs "<command> up <path>". A non-zero exit status is reported as
// common.ErrActivationFailed.
func (w *WGQuick) Up(ctx context.Context, path string) error {
	return w.run(ctx, "up", path, common.ErrActivationFailed)
}

// Down runs "<command> down <path>". A non-zero exit status, including the
// one wg-quick reports for a tunnel that is not up, is reported as
// common.ErrDeactivationFailed.
func (w *WGQuick) Down(ctx context.Context, path string) error {
	return w.run(ctx, "down", path, common.ErrDeactivationFailed)
}

// argv returns the full command line for action.
func (w *WGQuick) argv(action, path string) []string {
	command := w.Command
	if command == "" {
		command = common.DefaultTunnelCommand
	}
	args := []string{command, action, path}
	if w.UseSudo {
		args = append([]string{"sudo"}, args...)
	}
	return args
}

func (w *WGQuick) run(ctx context.Context, action, path string, failure error) error {
	argv := w.argv(action, path)
	common.LogDebug("Tunnel: %s", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var captured bytes.Buffer
	if w.Verbose {
		cmd.Stdout = orDefault(w.Stdout, os.Stdout)
		cmd.Stderr = orDefault(w.Stderr, os.Stderr)
	} else {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	}

	if err := cmd.Run(); err != nil {
		if out := strings.TrimSpace(captured.String()); out != "" {
			return fmt.Errorf("%w: %s %s: %v: %s", failure, action, path, err, out)
		}
		return fmt.Errorf("%w: %s %s: %v", failure, action, path, err)
	}
	return nil
}

func orDefault(w io.Writer, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
