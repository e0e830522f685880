// Package common provides shared constants, sentinel errors, logging and small
// helpers used by every other package of the VPN benchmark tool.
//
//   - Constants: defaults for tunnel control, probes and file names
//   - Errors: sentinel errors checked with errors.Is across packages
//   - Logger: leveled console logger with an optional rotated file sink
//   - Utils: config directory lookup and a context-aware sleep
//
// # Usage
//
//	common.LogInfo("Benchmarking config: %s", cfg.Name())
//
//	if errors.Is(err, common.ErrActivationFailed) {
//	    // skip this configuration
//	}
package common
