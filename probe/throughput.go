package probe

import (
	"context"
	"errors"
	"fmt"

	"github.com/yllada/vpn-bench/common"
)

// SpeedTester runs download and upload tests against a remote measurement
// server. Rates are raw bytes per second.
type SpeedTester interface {
	SelectBestServer(ctx context.Context) error
	Download(ctx context.Context) (float64, error)
	Upload(ctx context.Context) (float64, error)
}

// ThroughputProbe measures download and upload throughput in Mbps.
type ThroughputProbe struct {
	// NewTester builds a fresh tester per run, so that no server choice
	// made through a previous tunnel leaks into the next one.
	NewTester func() SpeedTester
}

// NewThroughputProbe creates a probe backed by speedtest.net.
func NewThroughputProbe() *ThroughputProbe {
	return &ThroughputProbe{NewTester: func() SpeedTester { return NewSpeedtest() }}
}

// Run selects a server, then measures download and upload once each. The
// probe is a single unit: any failure makes both values absent.
func (p *ThroughputProbe) Run(ctx context.Context) (download, upload Measurement) {
	down, up, err := p.measure(ctx)
	if err != nil {
		common.LogWarn("Speed test failed: %v", err)
		return Absent(), Absent()
	}

	download = Measured(BytesPerSecondToMbps(down))
	upload = Measured(BytesPerSecondToMbps(up))
	common.LogInfo("Download speed: %s Mbps", download)
	common.LogInfo("Upload speed: %s Mbps", upload)
	return download, upload
}

func (p *ThroughputProbe) measure(ctx context.Context) (down, up float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", common.ErrProbeFailed, r)
		}
	}()

	if p.NewTester == nil {
		return 0, 0, errors.New("no speed tester configured")
	}
	tester := p.NewTester()

	if err := tester.SelectBestServer(ctx); err != nil {
		return 0, 0, fmt.Errorf("%w: selecting server: %v", common.ErrProbeFailed, err)
	}
	if down, err = tester.Download(ctx); err != nil {
		return 0, 0, fmt.Errorf("%w: download: %v", common.ErrProbeFailed, err)
	}
	if up, err = tester.Upload(ctx); err != nil {
		return 0, 0, fmt.Errorf("%w: upload: %v", common.ErrProbeFailed, err)
	}
	return down, up, nil
}
