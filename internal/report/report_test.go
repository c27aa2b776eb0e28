package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/qualitydesk/qualitybot/internal/model"
)

func TestRenderCapabilityInfinity(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCapability(&buf, model.SpecLimits{USL: 10.5, LSL: 9.5},
		[]float64{10, 10, 10},
		model.CapabilityResult{Mean: 10, StdDev: 0, Cp: math.Inf(1), Cpk: math.Inf(1)})
	if err != nil {
		t.Fatalf("RenderCapability() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Cpk: ∞") {
		t.Fatalf("output missing infinity symbol:\n%s", out)
	}
	if !strings.Contains(out, "perfectly capable") {
		t.Fatalf("output missing assessment:\n%s", out)
	}
}

func TestRenderROI(t *testing.T) {
	var buf bytes.Buffer
	err := RenderROI(&buf,
		model.ROIInputs{MonthlyDefectCost: 50000, QualityInvestment: 25000, ExpectedSavings: 75000},
		model.ROIResult{ROI: 3500, PaybackMonths: 0.33, AnnualSavings: 900000, NetBenefit: 875000})
	if err != nil {
		t.Fatalf("RenderROI() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ROI: 3500.00%", "Payback: 0.33 months", "Annual Savings: 900000.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMetricsGroups(t *testing.T) {
	var buf bytes.Buffer
	err := RenderMetrics(&buf, model.MetricsReport{
		Quality: []model.Metric{
			{Name: "Defect Rate", Value: 2.3, Target: 1.5, Unit: "%", Trend: "down", Status: "warning"},
			{Name: "First Pass Yield", Value: 94.2, Target: 95, Unit: "%", Trend: "up", Status: "good"},
		},
	})
	if err != nil {
		t.Fatalf("RenderMetrics() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Quality") {
		t.Fatalf("output missing group heading:\n%s", out)
	}
	if strings.Contains(out, "Production") {
		t.Fatalf("empty group rendered:\n%s", out)
	}
	if !strings.Contains(out, "Defect Rate") {
		t.Fatalf("output missing metric row:\n%s", out)
	}
}

func TestRenderMetricsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderMetrics(&buf, model.MetricsReport{}); err != nil {
		t.Fatalf("RenderMetrics() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No metrics available.") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestRenderQuizHistory(t *testing.T) {
	var buf bytes.Buffer
	attempts := []model.QuizAttempt{
		{ID: "a1", Date: "2026-08-01T10:00:00Z", TimeTaken: 75, Score: 3, Total: 5},
		{ID: "a2", Date: "2026-08-02T10:00:00Z", TimeTaken: 60, Score: 5, Total: 5},
	}
	err := RenderQuizHistory(&buf, attempts, model.Progress{XP: 80, Level: 1, QuizzesTaken: 2})
	if err != nil {
		t.Fatalf("RenderQuizHistory() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Level: 1", "XP: 80", "3/5", "5/5", "2026-08-01 10:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSparklineFlat(t *testing.T) {
	got := Sparkline([]float64{3, 3, 3})
	if len(got) != 3 {
		t.Fatalf("Sparkline() = %q, want 3 chars", got)
	}
	for _, r := range got {
		if r != rune(sparkChars[len(sparkChars)/2]) {
			t.Fatalf("flat sparkline = %q", got)
		}
	}
}

func TestFormatTableAlignment(t *testing.T) {
	lines := formatTable(
		[]string{"Name", "Value"},
		[][]string{{"Defect Rate", "2.3"}, {"Yield", "94.2"}},
		map[int]bool{1: true},
	)
	if len(lines) != 3 {
		t.Fatalf("formatTable() returned %d lines, want 3", len(lines))
	}
	if !strings.HasSuffix(lines[1], "  2.3") {
		t.Fatalf("numeric column not right aligned: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Yield ") {
		t.Fatalf("name column not left aligned: %q", lines[2])
	}
}
