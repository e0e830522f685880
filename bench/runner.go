// Package bench benchmarks one tunnel configuration: activate, measure,
// deactivate, record.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/yllada/vpn-bench/common"
	"github.com/yllada/vpn-bench/discovery"
	"github.com/yllada/vpn-bench/probe"
	"github.com/yllada/vpn-bench/results"
	"github.com/yllada/vpn-bench/tunnel"
)

// LatencyProber measures round-trip time through the active tunnel.
type LatencyProber interface {
	Run(ctx context.Context) probe.Measurement
}

// ThroughputProber measures download and upload speed through the active
// tunnel.
type ThroughputProber interface {
	Run(ctx context.Context) (download, upload probe.Measurement)
}

// ConnectivityChecker confirms traffic flows after activation.
type ConnectivityChecker interface {
	Check(ctx context.Context) (time.Duration, error)
}

// Runner benchmarks configurations one at a time.
type Runner struct {
	Tunnel     tunnel.Controller
	Latency    LatencyProber
	Throughput ThroughputProber
	// Verifier is optional; a failed check is logged and measuring goes on.
	Verifier ConnectivityChecker
	// Now stamps records; defaults to time.Now.
	Now func() time.Time
}

// Run activates the tunnel for cfg, measures latency then throughput, and
// deactivates the tunnel before returning, on every path.
//
// An activation failure returns an error wrapping common.ErrActivationFailed
// and no record. Cancellation of ctx while measuring returns an error
// wrapping common.ErrInterrupted and no record.
func (r *Runner) Run(ctx context.Context, cfg discovery.Configuration) (results.Record, error) {
	common.LogInfo("Benchmarking config: %s", cfg.Name())

	h, err := tunnel.Acquire(ctx, r.Tunnel, cfg)
	defer h.Release()
	if err != nil {
		return results.Record{}, err
	}

	if r.Verifier != nil {
		if rtt, err := r.Verifier.Check(ctx); err != nil {
			common.LogWarn("Tunnel %s is up but connectivity check failed: %v", cfg.Name(), err)
		} else {
			common.LogDebug("Tunnel %s connectivity confirmed in %v", cfg.Name(), rtt)
		}
	}

	latency := r.Latency.Run(ctx)
	if err := interrupted(ctx, cfg); err != nil {
		return results.Record{}, err
	}

	download, upload := r.Throughput.Run(ctx)
	if err := interrupted(ctx, cfg); err != nil {
		return results.Record{}, err
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	return results.Record{
		Config:     cfg,
		Latency:    latency,
		Download:   download,
		Upload:     upload,
		FinishedAt: now(),
	}, nil
}

func interrupted(ctx context.Context, cfg discovery.Configuration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w while benchmarking %s: %v", common.ErrInterrupted, cfg.Name(), err)
	}
	return nil
}
