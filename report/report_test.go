package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/vpn-bench/discovery"
	"github.com/yllada/vpn-bench/probe"
	"github.com/yllada/vpn-bench/results"
)

func sampleRecords() []results.Record {
	return []results.Record{
		{
			Config:   discovery.Configuration{Path: "/etc/wireguard/us-01.conf"},
			Latency:  probe.Measured(21.5),
			Download: probe.Measured(93.456),
			Upload:   probe.Measured(40),
		},
		{
			Config: discovery.Configuration{Path: "/etc/wireguard/ch-01.conf"},
		},
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleRecords())

	for _, h := range Headers {
		assert.Contains(t, out, h)
	}
	assert.Contains(t, out, "us-01.conf")
	assert.NotContains(t, out, "/etc/wireguard", "only the file name is shown")
	assert.Contains(t, out, "21.50")
	assert.Contains(t, out, "93.46")
	assert.Contains(t, out, "40.00")

	lines := strings.Split(out, "\n")
	var chLine string
	for _, l := range lines {
		if strings.Contains(l, "ch-01.conf") {
			chLine = l
		}
	}
	require.NotEmpty(t, chLine)
	assert.Equal(t, 3, strings.Count(chLine, " - "), "absent values render as dashes")

	assert.Less(t, strings.Index(out, "us-01.conf"), strings.Index(out, "ch-01.conf"), "rows keep the given order")
}

func TestRenderTable_Empty(t *testing.T) {
	out := RenderTable(nil)
	assert.Contains(t, out, "Config")
}

func TestConsole_Progress(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{Out: &buf}
	c.Progress(sampleRecords())
	assert.NotContains(t, buf.String(), clearScreen)
	assert.Contains(t, buf.String(), "us-01.conf")

	buf.Reset()
	c.Redraw = true
	c.Progress(sampleRecords())
	assert.True(t, strings.HasPrefix(buf.String(), clearScreen))
}

func TestConsole_FinalSavesTable(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "out", "results.txt")
	c := &Console{Out: &buf, ResultsPath: path}

	require.NoError(t, c.Final(sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, RenderTable(sampleRecords())+"\n", string(data))
	assert.Contains(t, buf.String(), "Final Benchmark Results:")
	assert.Contains(t, buf.String(), "Results saved to "+path)
}

func TestConsole_FinalWriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	c := &Console{Out: &bytes.Buffer{}, ResultsPath: filepath.Join(blocker, "results.txt")}
	assert.Error(t, c.Final(sampleRecords()))
}

func TestConsole_Messages(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{Out: &buf}

	c.NoConfigurations()
	c.Interrupted()
	c.Disconnected("us-01.conf", nil)

	out := buf.String()
	assert.Contains(t, out, "No valid configurations found")
	assert.Contains(t, out, "interrupted by user")
	assert.Contains(t, out, "Gracefully disconnected from us-01.conf")
}
