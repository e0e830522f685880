// Package common provides shared constants, types, and utilities
// used across the VPN benchmark tool.
package common

import "time"

// Application metadata.
const (
	// AppName is the display name of the application.
	AppName = "vpn-bench"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "vpn-bench"
)

// File names used by the application.
const (
	ConfigFileName  = "config.yaml"
	HistoryFileName = "history.db"
	LogFileName     = "vpn-bench.log"
	// ResultsFileName is the file the final ranked table is written to.
	ResultsFileName = "results.txt"
	// ConfigExtension is the extension of tunnel definition files.
	ConfigExtension = ".conf"
)

// Environment variables.
const (
	// ConfigPathEnv overrides the location of the settings file.
	ConfigPathEnv = "VPN_BENCH_CONFIG"
)

// Tunnel control defaults.
const (
	// DefaultTunnelCommand is the external up/down command for a tunnel.
	DefaultTunnelCommand = "wg-quick"
)

// Measurement defaults.
const (
	// DefaultPingTarget is the reference host for latency checks.
	DefaultPingTarget = "8.8.8.8"
	// DefaultPingCount is how many round-trip checks a latency probe issues.
	DefaultPingCount = 5
	// DefaultSettleDelay is the pause between two benchmarked configurations.
	DefaultSettleDelay = 5 * time.Second
	// VerifyDialTimeout bounds a single post-activation connectivity dial.
	VerifyDialTimeout = 5 * time.Second
)

// DefaultVerifyHosts are dialed after activation to confirm the tunnel
// carries traffic.
var DefaultVerifyHosts = []string{
	"1.1.1.1:53", // Cloudflare DNS
	"8.8.8.8:53", // Google DNS
}
