// Package main provides the entry point for vpn-bench.
// vpn-bench activates WireGuard configurations one at a time, measures
// latency and throughput through each tunnel, and ranks them.
//
// Usage:
//
//	vpn-bench [--verbose] <config-dir> <code> [<code>...]
//	vpn-bench history [<campaign-id>]
//
// Environment:
//
//	The tool requires wg-quick and ping on the system, and usually root
//	privileges to bring tunnels up and down.
package main

import (
	"os"

	"github.com/yllada/vpn-bench/cli"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
var appVersion = "dev"

func main() {
	os.Exit(cli.Execute(appVersion))
}
