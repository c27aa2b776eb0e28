// Package report renders calculator results, metrics, and history as
// plain-text tables for the terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/qualitydesk/qualitybot/internal/capability"
	"github.com/qualitydesk/qualitybot/internal/model"
)

const sparkChars = " .:-=+*#%@"

// RenderCapability prints a process capability report.
func RenderCapability(w io.Writer, limits model.SpecLimits, samples []float64, result model.CapabilityResult) error {
	if _, err := fmt.Fprintln(w, "Process Capability"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Samples: %d\n", len(samples)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "USL: %g  LSL: %g\n", limits.USL, limits.LSL); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Mean: %.3f\n", result.Mean); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Std Dev: %.3f\n", result.StdDev); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Cp: %s\n", capability.FormatIndex(result.Cp)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Cpk: %s\n", capability.FormatIndex(result.Cpk)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Assessment: %s\n", capability.Classify(result.Cpk)); err != nil {
		return err
	}
	return nil
}

// RenderROI prints a return-on-investment report.
func RenderROI(w io.Writer, inputs model.ROIInputs, result model.ROIResult) error {
	if _, err := fmt.Fprintln(w, "ROI Analysis"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Monthly Defect Cost: %.2f\n", inputs.MonthlyDefectCost); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Investment: %.2f\n", inputs.QualityInvestment); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Monthly Savings: %.2f\n", inputs.ExpectedSavings); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Annual Savings: %.2f\n", result.AnnualSavings); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Net Benefit: %.2f\n", result.NetBenefit); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "ROI: %.2f%%\n", result.ROI); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Payback: %.2f months\n", result.PaybackMonths); err != nil {
		return err
	}
	return nil
}

// RenderMetrics prints each non-empty metric group as a table.
func RenderMetrics(w io.Writer, report model.MetricsReport) error {
	groups := []struct {
		name    string
		metrics []model.Metric
	}{
		{"Production", report.Production},
		{"Quality", report.Quality},
		{"Cost", report.Cost},
		{"Time", report.Time},
	}
	empty := true
	for _, group := range groups {
		if len(group.metrics) == 0 {
			continue
		}
		empty = false
		if _, err := fmt.Fprintln(w, group.name); err != nil {
			return err
		}
		if err := renderMetricTable(w, group.metrics); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	if empty {
		_, err := fmt.Fprintln(w, "No metrics available.")
		return err
	}
	return nil
}

func renderMetricTable(w io.Writer, metrics []model.Metric) error {
	headers := []string{"Metric", "Value", "Target", "Trend", "Status"}
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{
			m.Name,
			fmt.Sprintf("%g %s", m.Value, m.Unit),
			fmt.Sprintf("%g %s", m.Target, m.Unit),
			m.Trend,
			m.Status,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderQuizHistory prints progress, a score sparkline, and the
// attempt table.
func RenderQuizHistory(w io.Writer, attempts []model.QuizAttempt, progress model.Progress) error {
	if _, err := fmt.Fprintln(w, "Learning Progress"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Level: %d  XP: %d  Quizzes: %d\n", progress.Level, progress.XP, progress.QuizzesTaken); err != nil {
		return err
	}
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No quiz attempts yet.")
		return err
	}

	scores := make([]float64, len(attempts))
	for i, a := range attempts {
		scores[i] = float64(a.Score)
	}
	if _, err := fmt.Fprintf(w, "Scores: %s\n\n", Sparkline(scores)); err != nil {
		return err
	}

	headers := []string{"Date", "Score", "Time"}
	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		rows = append(rows, []string{
			formatAttemptDate(a.Date),
			fmt.Sprintf("%d/%d", a.Score, a.Total),
			fmt.Sprintf("%ds", a.TimeTaken),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderConversations prints the saved conversation list.
func RenderConversations(w io.Writer, conversations []model.Conversation) error {
	if len(conversations) == 0 {
		_, err := fmt.Fprintln(w, "No saved conversations.")
		return err
	}
	headers := []string{"ID", "Title", "Messages", "Updated"}
	rows := make([][]string, 0, len(conversations))
	for _, conv := range conversations {
		rows = append(rows, []string{
			conv.ID,
			conv.Title,
			fmt.Sprintf("%d", len(conv.Messages)),
			conv.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatAttemptDate shortens stored RFC 3339 dates for display.
func formatAttemptDate(date string) string {
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t.Format("2006-01-02 15:04")
	}
	return date
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := runewidth.StringWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}
