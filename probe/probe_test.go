package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pingOutput = `PING 8.8.8.8 (8.8.8.8) 56(84) bytes of data.
64 bytes from 8.8.8.8: icmp_seq=1 ttl=117 time=10.0 ms
64 bytes from 8.8.8.8: icmp_seq=2 ttl=117 time=20.0 ms
64 bytes from 8.8.8.8: icmp_seq=3 ttl=117 time=30.0 ms

--- 8.8.8.8 ping statistics ---
3 packets transmitted, 3 received, 0% packet loss, time 2003ms
rtt min/avg/max/mdev = 10.000/20.000/30.000/8.165 ms
`

func TestMeasurement(t *testing.T) {
	assert.Equal(t, "-", Absent().String())
	assert.Equal(t, "12.35", Measured(12.346).String())
	assert.Equal(t, "0.00", Measured(0).String())
	assert.True(t, Measured(0).Valid)
	assert.False(t, Absent().Valid)
}

func TestBytesPerSecondToMbps(t *testing.T) {
	assert.InDelta(t, 100.0, BytesPerSecondToMbps(12_500_000), 1e-9)
	assert.Zero(t, BytesPerSecondToMbps(0))
}

func TestParseRTTs(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []float64
	}{
		{"three samples", pingOutput, []float64{10, 20, 30}},
		{"no samples", "ping: connect: Network is unreachable\n", []float64{}},
		{"empty", "", []float64{}},
		{"summary line ignored", "rtt min/avg/max/mdev = 1.0/2.0/3.0/0.5 ms", []float64{}},
		{"unit must follow", "time=5.5ms time=7.5 ms", []float64{7.5}},
		{"malformed number skipped", "time=1.2.3 ms time=4 ms", []float64{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRTTs(tt.output))
		})
	}
}

func TestMeanRTT(t *testing.T) {
	m := MeanRTT(pingOutput)
	require.True(t, m.Valid)
	assert.InDelta(t, 20.0, m.Value, 1e-9)

	assert.False(t, MeanRTT("Request timeout for icmp_seq 0").Valid)
}

type fakePinger struct {
	output string
	err    error
	target string
	count  int
}

func (f *fakePinger) Ping(_ context.Context, target string, count int) (string, error) {
	f.target, f.count = target, count
	return f.output, f.err
}

func TestLatencyProbe(t *testing.T) {
	tests := []struct {
		name   string
		pinger *fakePinger
		want   Measurement
	}{
		{"mean of samples", &fakePinger{output: pingOutput}, Measured(20)},
		{"no samples", &fakePinger{output: "100% packet loss"}, Absent()},
		{"command failed", &fakePinger{err: errors.New("exit status 2")}, Absent()},
		{"partial loss still parsed", &fakePinger{output: "time=8.0 ms\n", err: errors.New("exit status 1")}, Measured(8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &LatencyProbe{Pinger: tt.pinger, Target: "9.9.9.9", Count: 3}
			got := p.Run(context.Background())
			assert.Equal(t, tt.want.Valid, got.Valid)
			assert.InDelta(t, tt.want.Value, got.Value, 1e-9)
			assert.Equal(t, "9.9.9.9", tt.pinger.target)
			assert.Equal(t, 3, tt.pinger.count)
		})
	}
}

type panickingPinger struct{}

func (panickingPinger) Ping(context.Context, string, int) (string, error) {
	panic("pinger exploded")
}

func TestLatencyProbe_NeverPanics(t *testing.T) {
	p := &LatencyProbe{Pinger: panickingPinger{}, Target: "8.8.8.8", Count: 1}
	var got Measurement
	assert.NotPanics(t, func() { got = p.Run(context.Background()) })
	assert.False(t, got.Valid)
}

func TestNewLatencyProbe_Defaults(t *testing.T) {
	p := NewLatencyProbe("", 0)
	assert.Equal(t, "8.8.8.8", p.Target)
	assert.Equal(t, 5, p.Count)
	assert.IsType(t, ExecPinger{}, p.Pinger)
}

type fakeTester struct {
	selectErr, downErr, upErr error
	down, up                  float64
	steps                     []string
}

func (f *fakeTester) SelectBestServer(context.Context) error {
	f.steps = append(f.steps, "select")
	return f.selectErr
}

func (f *fakeTester) Download(context.Context) (float64, error) {
	f.steps = append(f.steps, "download")
	return f.down, f.downErr
}

func (f *fakeTester) Upload(context.Context) (float64, error) {
	f.steps = append(f.steps, "upload")
	return f.up, f.upErr
}

func TestThroughputProbe(t *testing.T) {
	tester := &fakeTester{down: 6_250_000, up: 1_250_000}
	p := &ThroughputProbe{NewTester: func() SpeedTester { return tester }}

	down, up := p.Run(context.Background())
	require.True(t, down.Valid)
	require.True(t, up.Valid)
	assert.InDelta(t, 50.0, down.Value, 1e-9)
	assert.InDelta(t, 10.0, up.Value, 1e-9)
	assert.Equal(t, []string{"select", "download", "upload"}, tester.steps)
}

func TestThroughputProbe_Failures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		tester *fakeTester
		steps  []string
	}{
		{"select fails", &fakeTester{selectErr: boom}, []string{"select"}},
		{"download fails", &fakeTester{downErr: boom}, []string{"select", "download"}},
		{"upload fails", &fakeTester{down: 1e6, upErr: boom}, []string{"select", "download", "upload"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ThroughputProbe{NewTester: func() SpeedTester { return tt.tester }}
			down, up := p.Run(context.Background())
			assert.False(t, down.Valid)
			assert.False(t, up.Valid)
			assert.Equal(t, tt.steps, tt.tester.steps)
		})
	}
}

func TestThroughputProbe_NoTester(t *testing.T) {
	down, up := (&ThroughputProbe{}).Run(context.Background())
	assert.False(t, down.Valid)
	assert.False(t, up.Valid)
}
