package results

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yllada/vpn-bench/discovery"
	"github.com/yllada/vpn-bench/probe"
)

func rec(name string, download, latency probe.Measurement) Record {
	return Record{
		Config:   discovery.Configuration{Path: "/etc/wireguard/" + name},
		Download: download,
		Latency:  latency,
	}
}

func order(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Config.Name())
	}
	return out
}

var (
	m      = probe.Measured
	absent = probe.Absent()
)

func TestLedger_AppendSnapshot(t *testing.T) {
	l := NewLedger()
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Snapshot())

	names := []string{"us-01", "ch-01", "de-01"}
	for i, name := range names {
		l.Append(rec(name, m(float64(i)), m(1)))
		assert.Equal(t, i+1, l.Len(), "snapshot grows by exactly one per append")
	}
	assert.Equal(t, names, order(l.Snapshot()))
}

func TestLedger_SnapshotIsCopy(t *testing.T) {
	l := NewLedger()
	l.Append(rec("a", m(1), m(1)))

	snap := l.Snapshot()
	snap[0] = rec("mutated", absent, absent)

	assert.Equal(t, "a", l.Snapshot()[0].Config.Name())
}

func TestLedger_Ranked(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    []string
	}{
		{
			name: "download desc then latency asc",
			records: []Record{
				rec("A", m(50), m(20)),
				rec("B", m(100), m(30)),
				rec("C", absent, absent),
			},
			want: []string{"B", "A", "C"},
		},
		{
			name: "latency breaks download ties",
			records: []Record{
				rec("slow", m(80), m(40)),
				rec("fast", m(80), m(10)),
			},
			want: []string{"fast", "slow"},
		},
		{
			name: "absent download ranks last regardless of latency",
			records: []Record{
				rec("no-dl-fast", absent, m(1)),
				rec("tiny", m(0.1), m(900)),
			},
			want: []string{"tiny", "no-dl-fast"},
		},
		{
			name: "absent latency ranks after measured latency",
			records: []Record{
				rec("no-ping", m(80), absent),
				rec("ping", m(80), m(500)),
			},
			want: []string{"ping", "no-ping"},
		},
		{
			name: "stable for equal keys",
			records: []Record{
				rec("first", m(10), m(10)),
				rec("second", m(10), m(10)),
				rec("third", m(10), m(10)),
				rec("x", absent, absent),
				rec("y", absent, absent),
			},
			want: []string{"first", "second", "third", "x", "y"},
		},
		{
			name: "zero is a value, not absence",
			records: []Record{
				rec("none", absent, m(5)),
				rec("zero", m(0), m(5)),
			},
			want: []string{"zero", "none"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger()
			for _, r := range tt.records {
				l.Append(r)
			}
			insertion := order(l.Snapshot())

			assert.Equal(t, tt.want, order(l.Ranked()))
			assert.Equal(t, insertion, order(l.Snapshot()), "ranking must not reorder stored records")
		})
	}
}

func TestLedger_RankedEmpty(t *testing.T) {
	assert.Empty(t, NewLedger().Ranked())
}
