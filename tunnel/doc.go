// Package tunnel manages the single network tunnel a benchmark runs against.
//
// A tunnel is driven through an external command with up/down semantics
// (wg-quick by default). The package is organized around three types:
//
//   - Controller: the up/down collaborator; WGQuick runs the real command
//   - Handle: scoped ownership of one active tunnel, released on every exit path
//   - Verifier: optional connectivity check run right after activation
//
// # Lifecycle
//
// A Handle moves through Inactive → Activating → Active → Deactivating →
// Inactive. Acquire always returns a Handle, even when activation fails, so
// callers can unconditionally defer Release:
//
//	h, err := tunnel.Acquire(ctx, ctrl, cfg)
//	defer h.Release()
//	if err != nil {
//	    return err
//	}
//
// Release never returns an error and runs on a context detached from
// cancellation, so an interrupted benchmark still tears its tunnel down.
//
// # Thread Safety
//
// Handles are meant to be used from a single goroutine. Exclusivity of the
// active tunnel comes from the caller sequencing acquisitions, not from locks.
package tunnel
