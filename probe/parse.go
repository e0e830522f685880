package probe

import (
	"regexp"
	"strconv"

	"github.com/montanaflynn/stats"
)

// rttPattern matches one round-trip sample as printed by ping(8), e.g.
// "time=12.3 ms".
var rttPattern = regexp.MustCompile(`time=([\d.]+) ms`)

// ParseRTTs extracts every round-trip time, in milliseconds, from ping
// output. Tokens that do not parse as a number are skipped.
func ParseRTTs(output string) []float64 {
	matches := rttPattern.FindAllStringSubmatch(output, -1)
	samples := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		samples = append(samples, v)
	}
	return samples
}

// MeanRTT returns the arithmetic mean of the samples in output, or an absent
// measurement when there are none.
func MeanRTT(output string) Measurement {
	mean, err := stats.Mean(ParseRTTs(output))
	if err != nil {
		return Absent()
	}
	return Measured(mean)
}
