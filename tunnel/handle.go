package tunnel

import (
	"context"
	"fmt"

	"github.com/yllada/vpn-bench/common"
	"github.com/yllada/vpn-bench/discovery"
)

// Handle owns one tunnel for the duration of a scope.
type Handle struct {
	ctrl   Controller
	config discovery.Configuration
	state  State
}

// Acquire activates the tunnel for cfg. The returned Handle is never nil:
// when activation fails it stays in StateActivating and Release still issues
// the matching down, since a failed up may have left partial state behind.
func Acquire(ctx context.Context, ctrl Controller, cfg discovery.Configuration) (*Handle, error) {
	h := &Handle{ctrl: ctrl, config: cfg, state: StateActivating}

	if err := ctrl.Up(ctx, cfg.Path); err != nil {
		common.LogError("Failed to activate tunnel config %s: %v", cfg.Name(), err)
		return h, common.WrapError(err, fmt.Sprintf("activating %s", cfg.Name()))
	}

	h.state = StateActive
	common.LogInfo("Activated tunnel config: %s", cfg.Name())
	return h, nil
}

// Config returns the configuration this handle was acquired for.
func (h *Handle) Config() discovery.Configuration {
	return h.config
}

// State returns the current lifecycle state of the tunnel.
func (h *Handle) State() State {
	return h.state
}

// Release deactivates the tunnel. It is safe to call more than once and on a
// Handle whose activation failed. Deactivation errors are logged, never
// returned: taking down a tunnel that is already down is not a failure.
func (h *Handle) Release() {
	if h == nil || h.state == StateInactive || h.state == StateDeactivating {
		return
	}
	h.state = StateDeactivating

	// Detached from any caller context: teardown must run after an interrupt.
	if err := h.ctrl.Down(context.Background(), h.config.Path); err != nil {
		common.LogWarn("Failed to deactivate tunnel %s (maybe no active connection): %v", h.config.Name(), err)
	} else {
		common.LogInfo("Deactivated tunnel config: %s", h.config.Name())
	}

	h.state = StateInactive
}
