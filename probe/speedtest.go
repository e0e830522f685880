package probe

import (
	"context"
	"errors"
	"time"

	"github.com/showwin/speedtest-go/speedtest"

	"github.com/yllada/vpn-bench/common"
)

// candidateServers is how many of the nearest servers are pinged when
// choosing the best one.
const candidateServers = 5

// PingFunc measures the latency of server, storing it in server.Latency.
type PingFunc func(ctx context.Context, server *speedtest.Server) error

// Speedtest is a SpeedTester backed by the speedtest.net server network.
type Speedtest struct {
	client *speedtest.Speedtest
	server *speedtest.Server
	ping   PingFunc
}

// NewSpeedtest creates a tester with a fresh speedtest.net client.
func NewSpeedtest() *Speedtest {
	return &Speedtest{client: speedtest.New(), ping: pingServer}
}

func pingServer(ctx context.Context, server *speedtest.Server) error {
	return server.PingTestContext(ctx, nil)
}

// SelectBestServer fetches the server list and keeps the lowest-latency
// server among the nearest candidates.
func (s *Speedtest) SelectBestServer(ctx context.Context) error {
	servers, err := s.client.FetchServerListContext(ctx)
	if err != nil {
		return err
	}
	best, err := PickServer(ctx, servers, candidateServers, s.ping)
	if err != nil {
		return err
	}

	common.LogDebug("speedtest: selected %s (%s, %s) latency %v",
		best.Host, best.Name, best.Country, best.Latency.Round(time.Millisecond))
	s.server = best
	return nil
}

// PickServer pings the first limit servers, which the server list orders by
// distance, and returns the one with the lowest latency. Servers that fail
// to answer are skipped.
func PickServer(ctx context.Context, servers speedtest.Servers, limit int, ping PingFunc) (*speedtest.Server, error) {
	if len(servers) == 0 {
		return nil, errors.New("speedtest: empty server list")
	}

	limit = min(limit, len(servers))
	var best *speedtest.Server
	for _, server := range servers[:limit] {
		if err := ping(ctx, server); err != nil {
			common.LogDebug("speedtest: ping %s failed: %v", server.Host, err)
			continue
		}
		if best == nil || server.Latency < best.Latency {
			best = server
		}
	}
	if best == nil {
		return nil, errors.New("speedtest: no candidate server answered")
	}
	return best, nil
}

// Download runs the download test and returns bytes per second.
func (s *Speedtest) Download(ctx context.Context) (float64, error) {
	if s.server == nil {
		return 0, errors.New("speedtest: no server selected")
	}
	if err := s.server.DownloadTestContext(ctx); err != nil {
		return 0, err
	}
	return float64(s.server.DLSpeed), nil
}

// Upload runs the upload test and returns bytes per second.
func (s *Speedtest) Upload(ctx context.Context) (float64, error) {
	if s.server == nil {
		return 0, errors.New("speedtest: no server selected")
	}
	if err := s.server.UploadTestContext(ctx); err != nil {
		return 0, err
	}
	return float64(s.server.ULSpeed), nil
}
