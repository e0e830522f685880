// Package campaign drives one full pass over the discovered tunnel
// configurations: benchmark each in turn, report progress, and always leave
// the last touched tunnel deactivated.
package campaign

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yllada/vpn-bench/common"
	"github.com/yllada/vpn-bench/discovery"
	"github.com/yllada/vpn-bench/results"
	"github.com/yllada/vpn-bench/tunnel"
)

// State is the lifecycle position of a campaign.
type State int

const (
	StatePending State = iota
	StateRunning
	StateInterrupted
	StateCompleted
)

// String returns a human-readable representation of the campaign state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateRunning:
		return "Running"
	case StateInterrupted:
		return "Interrupted"
	case StateCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// BenchmarkRunner benchmarks a single configuration.
type BenchmarkRunner interface {
	Run(ctx context.Context, cfg discovery.Configuration) (results.Record, error)
}

// Reporter presents campaign progress and results.
type Reporter interface {
	// Warn reports a filter that matched no configuration.
	Warn(filter string)
	// NoConfigurations reports that nothing will be benchmarked.
	NoConfigurations()
	// Progress shows all records so far, in completion order.
	Progress(records []results.Record)
	// Interrupted reports that the user stopped the campaign.
	Interrupted()
	// Disconnected reports the final cleanup of the last engaged tunnel.
	Disconnected(name string, err error)
	// Final shows and persists the ranked records.
	Final(ranked []results.Record) error
}

// HistoryStore persists finished campaigns.
type HistoryStore interface {
	Save(ctx context.Context, c results.Campaign, records []results.Record) error
}

// DelayFunc pauses between benchmarks; it returns an error when ctx is done
// before the pause ends.
type DelayFunc func(ctx context.Context, d time.Duration) error

// Plan is the input of a campaign.
type Plan struct {
	// Configs are benchmarked in order.
	Configs []discovery.Configuration
	// Filters are the requested filter codes, kept for the history.
	Filters []string
	// Misses are the filters that matched nothing.
	Misses []string
}

// Outcome summarizes a finished campaign.
type Outcome struct {
	ID     uuid.UUID
	State  State
	Ranked []results.Record
	// Failed lists configurations whose benchmark produced no record.
	Failed []discovery.Configuration
}

// Controller runs campaigns. Tunnel is used only for the final cleanup;
// per-configuration activation happens inside Runner.
type Controller struct {
	Tunnel   tunnel.Controller
	Runner   BenchmarkRunner
	Reporter Reporter
	// Store is optional.
	Store HistoryStore
	// Delay defaults to common.SleepContext.
	Delay DelayFunc
	// Settle is the pause between two benchmarks.
	Settle time.Duration
	// Now defaults to time.Now.
	Now func() time.Time

	state       State
	ledger      *results.Ledger
	lastEngaged *discovery.Configuration
	failed      []discovery.Configuration
}

// State returns the current campaign state.
func (c *Controller) State() State {
	return c.state
}

// Ledger returns the records collected by the current or last run.
func (c *Controller) Ledger() *results.Ledger {
	return c.ledger
}

// Run benchmarks every configuration of plan, then reports the ranked
// results. Cancellation of ctx interrupts the campaign; records collected so
// far are still reported. The most recently engaged tunnel is deactivated
// once before reporting, whatever the reason the loop ended.
func (c *Controller) Run(ctx context.Context, plan Plan) Outcome {
	c.state = StatePending
	c.ledger = results.NewLedger()
	c.lastEngaged = nil
	c.failed = nil

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	id := uuid.New()
	started := now()

	for _, filter := range plan.Misses {
		c.Reporter.Warn(filter)
	}
	if len(plan.Configs) == 0 {
		c.Reporter.NoConfigurations()
		c.state = StateCompleted
		return Outcome{ID: id, State: c.state}
	}

	common.LogInfo("Campaign %s: benchmarking %d configurations", id, len(plan.Configs))
	c.state = StateRunning
	func() {
		defer c.cleanup()
		c.loop(ctx, plan.Configs)
		if c.state == StateInterrupted {
			c.Reporter.Interrupted()
		}
	}()

	ranked := c.ledger.Ranked()
	if err := c.Reporter.Final(ranked); err != nil {
		common.LogError("%v", err)
	}

	if c.Store != nil {
		campaign := results.Campaign{
			ID:          id,
			StartedAt:   started,
			FinishedAt:  now(),
			Interrupted: c.state == StateInterrupted,
			Filters:     plan.Filters,
		}
		// The run context may be cancelled; history is saved regardless.
		if err := c.Store.Save(context.Background(), campaign, c.ledger.Snapshot()); err != nil {
			common.LogWarn("Could not record campaign history: %v", err)
		}
	}

	return Outcome{ID: id, State: c.state, Ranked: ranked, Failed: c.failed}
}

func (c *Controller) loop(ctx context.Context, configs []discovery.Configuration) {
	delay := c.Delay
	if delay == nil {
		delay = common.SleepContext
	}

	for i, cfg := range configs {
		if ctx.Err() != nil {
			c.state = StateInterrupted
			return
		}

		// Recorded before acquisition so an interrupt during activation
		// still targets this tunnel.
		engaged := cfg
		c.lastEngaged = &engaged

		record, err := c.Runner.Run(ctx, cfg)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, common.ErrInterrupted) {
				c.state = StateInterrupted
				return
			}
			common.LogError("Skipping %s: %v", cfg.Name(), err)
			c.failed = append(c.failed, cfg)
			continue
		}

		c.ledger.Append(record)
		c.Reporter.Progress(c.ledger.Snapshot())

		if i < len(configs)-1 {
			if err := delay(ctx, c.Settle); err != nil {
				c.state = StateInterrupted
				return
			}
		}
	}

	c.state = StateCompleted
}

// cleanup deactivates the most recently engaged tunnel. Failures are
// expected when the runner already took it down and are only reported.
func (c *Controller) cleanup() {
	if c.lastEngaged == nil {
		return
	}
	cfg := *c.lastEngaged
	err := c.Tunnel.Down(context.Background(), cfg.Path)
	c.Reporter.Disconnected(cfg.Name(), err)
}
