package tunnel

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/yllada/vpn-bench/common"
)

// DialFunc opens a network connection; net.Dialer.DialContext satisfies it.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Verifier checks that traffic flows through a freshly activated tunnel by
// opening a TCP connection to the first reachable test host.
type Verifier struct {
	// Hosts are tried in order, as host:port.
	Hosts []string
	// Timeout bounds each dial.
	Timeout time.Duration
	// Dial defaults to a net.Dialer.
	Dial DialFunc
}

// NewVerifier creates a verifier for hosts using the default dial timeout.
func NewVerifier(hosts []string) *Verifier {
	return &Verifier{Hosts: hosts, Timeout: common.VerifyDialTimeout}
}

// Check returns the connect time of the first host that accepts a
// connection, or an error when none does.
func (v *Verifier) Check(ctx context.Context) (time.Duration, error) {
	if len(v.Hosts) == 0 {
		return 0, errors.New("no verify hosts configured")
	}

	dial := v.Dial
	if dial == nil {
		dial = (&net.Dialer{}).DialContext
	}

	var lastErr error
	for _, host := range v.Hosts {
		dialCtx, cancel := context.WithTimeout(ctx, v.Timeout)
		start := time.Now()
		conn, err := dial(dialCtx, "tcp", host)
		cancel()
		if err == nil {
			conn.Close()
			return time.Since(start), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	return 0, fmt.Errorf("no verify host reachable: %w", lastErr)
}
