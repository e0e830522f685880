// Package probe measures network quality through the currently active tunnel.
//
// Probes never fail loudly: every failure (command error, unparsable output,
// unreachable measurement server) is logged and turned into an absent
// Measurement, which is a valid, non-fatal result.
package probe

import "strconv"

// Measurement is the outcome of one probe: a value, or absence when the
// probe failed.
type Measurement struct {
	Value float64
	Valid bool
}

// Measured returns a present measurement holding v.
func Measured(v float64) Measurement {
	return Measurement{Value: v, Valid: true}
}

// Absent returns the marker for a failed measurement.
func Absent() Measurement {
	return Measurement{}
}

// String renders the value with two decimals, or "-" when absent.
func (m Measurement) String() string {
	if !m.Valid {
		return "-"
	}
	return strconv.FormatFloat(m.Value, 'f', 2, 64)
}

// BytesPerSecondToMbps converts a raw transfer rate to megabits per second.
func BytesPerSecondToMbps(bps float64) float64 {
	return bps * 8 / 1e6
}
