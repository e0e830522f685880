package probe

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/yllada/vpn-bench/common"
)

// Pinger issues round-trip checks and returns the tool's raw text output.
type Pinger interface {
	Ping(ctx context.Context, target string, count int) (string, error)
}

// ExecPinger runs the system ping command.
type ExecPinger struct{}

// Ping runs "ping -c <count> <target>". The output is returned even when
// ping exits non-zero, since partial packet loss still yields samples.
func (ExecPinger) Ping(ctx context.Context, target string, count int) (string, error) {
	cmd := exec.CommandContext(ctx, "ping", "-c", strconv.Itoa(count), target)
	out, err := cmd.Output()
	if err != nil {
		return string(out), fmt.Errorf("ping %s: %w", target, err)
	}
	return string(out), nil
}

// LatencyProbe measures the mean round-trip time to a reference host.
type LatencyProbe struct {
	Pinger Pinger
	Target string
	Count  int
}

// NewLatencyProbe creates a probe pinging target count times with the system
// ping command. Zero values select the defaults.
func NewLatencyProbe(target string, count int) *LatencyProbe {
	if target == "" {
		target = common.DefaultPingTarget
	}
	if count <= 0 {
		count = common.DefaultPingCount
	}
	return &LatencyProbe{Pinger: ExecPinger{}, Target: target, Count: count}
}

// Run pings the target once (Count round trips) and returns the mean RTT in
// milliseconds. It never fails: errors become an absent measurement.
func (p *LatencyProbe) Run(ctx context.Context) (m Measurement) {
	defer func() {
		if r := recover(); r != nil {
			common.LogError("Latency test failed: %v", r)
			m = Absent()
		}
	}()

	output, err := p.Pinger.Ping(ctx, p.Target, p.Count)
	common.LogDebug("ping output:\n%s", output)

	m = MeanRTT(output)
	if !m.Valid {
		if err != nil {
			common.LogWarn("Latency test failed: %v", err)
		} else {
			common.LogWarn("Latency test failed: %v", common.ErrNoSamples)
		}
		return Absent()
	}
	if err != nil {
		common.LogDebug("ping exited with %v, using %d-sample output", err, len(ParseRTTs(output)))
	}

	common.LogInfo("Average latency to %s: %s ms", p.Target, m)
	return m
}
