// Package roi computes return-on-investment figures for quality spend.
package roi

import (
	"fmt"
	"math"

	"github.com/qualitydesk/qualitybot/internal/model"
)

// Compute derives annual savings, net benefit, ROI percentage, and the
// payback period in months. Expected savings is a monthly figure, so
// the payback period is a simple ratio, not a discounted model. Any
// non-positive input rejects the whole calculation.
func Compute(in model.ROIInputs) (model.ROIResult, error) {
	if in.MonthlyDefectCost <= 0 {
		return model.ROIResult{}, fmt.Errorf("monthly defect cost must be positive")
	}
	if in.QualityInvestment <= 0 {
		return model.ROIResult{}, fmt.Errorf("quality investment must be positive")
	}
	if in.ExpectedSavings <= 0 {
		return model.ROIResult{}, fmt.Errorf("expected savings must be positive")
	}

	annual := in.ExpectedSavings * 12
	net := annual - in.QualityInvestment
	return model.ROIResult{
		ROI:           round2(net / in.QualityInvestment * 100),
		PaybackMonths: round2(in.QualityInvestment / in.ExpectedSavings),
		AnnualSavings: annual,
		NetBenefit:    net,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
