package capability

import (
	"math"
	"testing"

	"github.com/qualitydesk/qualitybot/internal/model"
)

func TestParseMeasurementsDropsInvalidTokens(t *testing.T) {
	samples := ParseMeasurements("10.2, abc, 10.1, , 10.3")
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d (%v)", len(samples), samples)
	}
	if samples[0] != 10.2 || samples[1] != 10.1 || samples[2] != 10.3 {
		t.Fatalf("unexpected samples: %v", samples)
	}
}

func TestParseMeasurementsEmpty(t *testing.T) {
	if got := ParseMeasurements("abc, ,x"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestComputeNoSamples(t *testing.T) {
	_, err := Compute(nil, model.SpecLimits{USL: 1, LSL: 0})
	if err != ErrNoSamples {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
}

func TestComputeScenario(t *testing.T) {
	samples := ParseMeasurements("10.2,10.1,10.3,10.0,10.2")
	res, err := Compute(samples, model.SpecLimits{USL: 10.5, LSL: 9.5})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if math.Abs(res.Mean-10.16) > 1e-9 {
		t.Fatalf("expected mean 10.16, got %v", res.Mean)
	}
	// Sample std dev with n-1 divisor.
	want := math.Sqrt((0.04*0.04 + 0.06*0.06 + 0.14*0.14 + 0.16*0.16 + 0.04*0.04) / 4)
	if math.Abs(res.StdDev-want) > 1e-9 {
		t.Fatalf("expected stdDev %v, got %v", want, res.StdDev)
	}
	if math.IsInf(res.Cp, 0) || math.IsInf(res.Cpk, 0) {
		t.Fatalf("expected finite indices, got cp=%v cpk=%v", res.Cp, res.Cpk)
	}
	if math.IsNaN(res.Cp) || math.IsNaN(res.Cpk) {
		t.Fatalf("indices must not be NaN")
	}
	if res.Cpk > res.Cp {
		t.Fatalf("cpk must not exceed cp, got cp=%v cpk=%v", res.Cp, res.Cpk)
	}
}

func TestComputeZeroVariance(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		limits  model.SpecLimits
		wantInf bool
	}{
		{"single value inside", []float64{10.0}, model.SpecLimits{USL: 10.5, LSL: 9.5}, true},
		{"identical values inside", []float64{10.0, 10.0, 10.0}, model.SpecLimits{USL: 10.5, LSL: 9.5}, true},
		{"mean on upper limit", []float64{10.5}, model.SpecLimits{USL: 10.5, LSL: 9.5}, true},
		{"mean on lower limit", []float64{9.5}, model.SpecLimits{USL: 10.5, LSL: 9.5}, true},
		{"single value outside", []float64{11.0}, model.SpecLimits{USL: 10.5, LSL: 9.5}, false},
		{"identical values below", []float64{9.0, 9.0}, model.SpecLimits{USL: 10.5, LSL: 9.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(tt.samples, tt.limits)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			if res.StdDev != 0 {
				t.Fatalf("expected zero stdDev, got %v", res.StdDev)
			}
			if tt.wantInf {
				if !math.IsInf(res.Cp, 1) || !math.IsInf(res.Cpk, 1) {
					t.Fatalf("expected +Inf indices, got cp=%v cpk=%v", res.Cp, res.Cpk)
				}
			} else if res.Cp != 0 || res.Cpk != 0 {
				t.Fatalf("expected zero indices, got cp=%v cpk=%v", res.Cp, res.Cpk)
			}
		})
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	samples := []float64{1.2, 1.4, 1.1, 1.3}
	limits := model.SpecLimits{USL: 2, LSL: 1}
	a, err := Compute(samples, limits)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	b, err := Compute(samples, limits)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical results, got %+v vs %+v", a, b)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		cpk  float64
		want Classification
	}{
		{math.Inf(1), PerfectlyCapable},
		{2.0, Capable},
		{1.33, Capable},
		{1.32, NeedsImprovement},
		{1.00, NeedsImprovement},
		{0.99, NotCapable},
		{0, NotCapable},
	}
	for _, tt := range tests {
		if got := Classify(tt.cpk); got != tt.want {
			t.Fatalf("Classify(%v) = %q, want %q", tt.cpk, got, tt.want)
		}
	}
}

func TestFormatIndex(t *testing.T) {
	if got := FormatIndex(math.Inf(1)); got != "∞" {
		t.Fatalf("expected infinity sign, got %q", got)
	}
	if got := FormatIndex(1.5); got != "1.500" {
		t.Fatalf("expected 1.500, got %q", got)
	}
}
