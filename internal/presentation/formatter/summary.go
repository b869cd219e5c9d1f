package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/penwyp/go-claude-trim/internal/util"
)

// SummaryFormatter is responsible for formatting and outputting summary reports.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// Format formats and outputs the summary information of an analysis report.
func (f *SummaryFormatter) Format(report *Report) error {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Session Trim Analysis Summary")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	if len(report.Sessions) == 0 {
		fmt.Println("No sessions to summarize")
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		return nil
	}

	fmt.Printf("Sessions analyzed: %d\n", len(report.Sessions))
	fmt.Printf("Pricing model: %s (cache hit rate %.0f%%)\n", report.ModelKey, report.HitRate*100)
	fmt.Println()

	var totalBytes, totalTokens, totalPostTrim int
	var toolResultBytes, thinkingBytes, fileHistoryBytes, toolUseBytes, conversationBytes, otherBytes int
	reductions := make([]float64, 0, len(report.Sessions))
	breakevens := make([]int, 0, len(report.Sessions))

	for _, s := range report.Sessions {
		totalBytes += s.TotalBytes
		totalTokens += s.EstimatedTokens
		totalPostTrim += s.PostTrimTokens
		toolResultBytes += s.ToolResultBytes
		thinkingBytes += s.ThinkingBytes
		fileHistoryBytes += s.FileHistoryBytes
		toolUseBytes += s.ToolUseBytes
		conversationBytes += s.ConversationBytes
		otherBytes += s.OtherBytes
		reductions = append(reductions, s.ReductionPct)
		breakevens = append(breakevens, s.Projection.Breakeven)
	}

	fmt.Println("Byte Breakdown:")
	fmt.Printf("  Tool Results:   %s (%s)\n", util.FormatBytes(toolResultBytes), sharePct(toolResultBytes, totalBytes))
	fmt.Printf("  Thinking:       %s (%s)\n", util.FormatBytes(thinkingBytes), sharePct(thinkingBytes, totalBytes))
	fmt.Printf("  File History:   %s (%s)\n", util.FormatBytes(fileHistoryBytes), sharePct(fileHistoryBytes, totalBytes))
	fmt.Printf("  Tool Use:       %s (%s)\n", util.FormatBytes(toolUseBytes), sharePct(toolUseBytes, totalBytes))
	fmt.Printf("  Conversation:   %s (%s)\n", util.FormatBytes(conversationBytes), sharePct(conversationBytes, totalBytes))
	fmt.Printf("  Other:          %s (%s)\n", util.FormatBytes(otherBytes), sharePct(otherBytes, totalBytes))
	fmt.Printf("  Total:          %s\n", util.FormatBytes(totalBytes))
	fmt.Println()

	fmt.Println("Trim Estimate:")
	fmt.Printf("  Estimated Tokens:  %s\n", util.FormatThousands(totalTokens))
	fmt.Printf("  Post-Trim Tokens:  %s\n", util.FormatThousands(totalPostTrim))
	fmt.Printf("  Mean Reduction:    %s\n", util.FormatPercent(mean(reductions)))
	fmt.Printf("  Median Reduction:  %s\n", util.FormatPercent(median(reductions)))
	fmt.Println()

	fmt.Println("Cache Cost Projection:")
	fmt.Printf("  Horizon: %d turns\n", report.Horizon)
	fmt.Printf("  Mean break-even: turn %.1f\n", meanInt(breakevens))
	f.printTopSessionCurve(report)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))

	return nil
}

// printTopSessionCurve details the cost curves of the largest session.
func (f *SummaryFormatter) printTopSessionCurve(report *Report) {
	top := report.Sessions[0]
	proj := top.Projection
	if len(proj.Turns) == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("Largest session (%s, %s tokens):\n",
		shortSessionId(top.SessionId), util.FormatThousands(top.EstimatedTokens))

	sampleTurns := []int{1, 5, 10, report.Horizon}
	for _, t := range sampleTurns {
		if t < 1 || t > len(proj.Turns) {
			continue
		}
		idx := t - 1
		fmt.Printf("  Turn %-3d  no-trim %s  with-trim %s  delta %s\n",
			t,
			util.FormatCurrency(proj.NoTrim[idx]),
			util.FormatCurrency(proj.WithTrim[idx]),
			util.FormatCurrency(proj.NoTrim[idx]-proj.WithTrim[idx]))
	}
	fmt.Printf("  Break-even: %s\n", formatBreakeven(proj.Breakeven, report.Horizon))
}

func sharePct(part, total int) string {
	if total <= 0 {
		return util.FormatPercent(0)
	}
	return util.FormatPercent(float64(part) / float64(total) * 100)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanInt(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
