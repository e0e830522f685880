// Package results holds benchmark records: the in-memory ledger of the
// running campaign, its ranked view, and the on-disk campaign history.
package results

import (
	"cmp"
	"slices"
	"time"

	"github.com/yllada/vpn-bench/discovery"
	"github.com/yllada/vpn-bench/probe"
)

// Record is the outcome of benchmarking one configuration. Absent
// measurements are valid field values.
type Record struct {
	Config     discovery.Configuration
	Latency    probe.Measurement // milliseconds
	Download   probe.Measurement // Mbps
	Upload     probe.Measurement // Mbps
	FinishedAt time.Time
}

// Ledger accumulates records in completion order. It is append-only; views
// are copies.
type Ledger struct {
	records []Record
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append stores rec after all previously appended records.
func (l *Ledger) Append(rec Record) {
	l.records = append(l.records, rec)
}

// Len returns the number of stored records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Snapshot returns the records in insertion order.
func (l *Ledger) Snapshot() []Record {
	return slices.Clone(l.records)
}

// Ranked returns the records ordered best first: highest download speed,
// then lowest latency. An absent value ranks after every measured value of
// the same metric. Records with equal keys keep their insertion order.
func (l *Ledger) Ranked() []Record {
	ranked := slices.Clone(l.records)
	slices.SortStableFunc(ranked, compareRecords)
	return ranked
}

func compareRecords(a, b Record) int {
	if c := compareMeasured(a.Download, b.Download, true); c != 0 {
		return c
	}
	return compareMeasured(a.Latency, b.Latency, false)
}

// compareMeasured orders present values before absent ones, then by value,
// descending when higherFirst is set.
func compareMeasured(a, b probe.Measurement, higherFirst bool) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return 1
	case !b.Valid:
		return -1
	case higherFirst:
		return cmp.Compare(b.Value, a.Value)
	default:
		return cmp.Compare(a.Value, b.Value)
	}
}
