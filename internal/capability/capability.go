// Package capability computes process capability indices (Cp/Cpk).
package capability

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/qualitydesk/qualitybot/internal/model"
)

// Classification buckets a Cpk value for presentation.
type Classification string

// Classification values ordered from best to worst.
const (
	PerfectlyCapable Classification = "perfectly capable"
	Capable          Classification = "capable"
	NeedsImprovement Classification = "needs improvement"
	NotCapable       Classification = "not capable"
)

// ErrNoSamples reports that no valid measurements were found.
var ErrNoSamples = fmt.Errorf("no valid measurements")

// ParseMeasurements splits comma-separated text into numbers,
// discarding tokens that do not parse.
func ParseMeasurements(text string) []float64 {
	var samples []float64
	for _, token := range strings.Split(text, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			continue
		}
		samples = append(samples, v)
	}
	return samples
}

// Compute derives mean, sample standard deviation, and Cp/Cpk for the
// samples against the spec limits. The standard deviation uses the
// n-1 divisor; with a single sample or identical values it is 0, and
// Cp/Cpk become +Inf when the mean lies within [LSL, USL], 0 otherwise.
func Compute(samples []float64, limits model.SpecLimits) (model.CapabilityResult, error) {
	if len(samples) == 0 {
		return model.CapabilityResult{}, ErrNoSamples
	}

	var sum float64
	for _, v := range samples {
		sum += v
	}
	mean := sum / float64(len(samples))

	stdDev := 0.0
	if len(samples) > 1 {
		var sq float64
		for _, v := range samples {
			d := v - mean
			sq += d * d
		}
		stdDev = math.Sqrt(sq / float64(len(samples)-1))
	}

	var cp, cpk float64
	if stdDev > 0 {
		cp = (limits.USL - limits.LSL) / (6 * stdDev)
		cpu := (limits.USL - mean) / (3 * stdDev)
		cpl := (mean - limits.LSL) / (3 * stdDev)
		cpk = math.Min(cpu, cpl)
	} else if mean >= limits.LSL && mean <= limits.USL {
		cp = math.Inf(1)
		cpk = math.Inf(1)
	}

	return model.CapabilityResult{Mean: mean, StdDev: stdDev, Cp: cp, Cpk: cpk}, nil
}

// Classify maps a Cpk value onto the presentation buckets. A non-finite
// Cpk (zero observed variation inside the limits) is the single
// distinguished case bypassing the numeric thresholds.
func Classify(cpk float64) Classification {
	switch {
	case math.IsInf(cpk, 1):
		return PerfectlyCapable
	case cpk >= 1.33:
		return Capable
	case cpk >= 1.00:
		return NeedsImprovement
	default:
		return NotCapable
	}
}

// FormatIndex renders an index value, using the infinity sign for
// non-finite results.
func FormatIndex(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
