package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryFormatterFormat(t *testing.T) {
	output := captureOutput(t, func() error {
		return NewSummaryFormatter().Format(sampleReport())
	})

	assert.Contains(t, output, "Session Trim Analysis Summary")
	assert.Contains(t, output, "Sessions analyzed: 2")
	assert.Contains(t, output, "Byte Breakdown:")
	assert.Contains(t, output, "Tool Results:")
	assert.Contains(t, output, "Mean Reduction:")
	assert.Contains(t, output, "Median Reduction:")
	assert.Contains(t, output, "Largest session (00aec530")
	assert.Contains(t, output, "Break-even:")
}

func TestSummaryFormatterEmptyReport(t *testing.T) {
	output := captureOutput(t, func() error {
		return NewSummaryFormatter().Format(&Report{ModelKey: "sonnet"})
	})

	assert.Contains(t, output, "No sessions to summarize")
}

func TestMeanAndMedian(t *testing.T) {
	assert.Zero(t, mean(nil))
	assert.Zero(t, median(nil))
	assert.InDelta(t, 2.0, mean([]float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, 2.0, median([]float64{3, 1, 2}), 1e-9)
	assert.InDelta(t, 2.5, median([]float64{1, 2, 3, 4}), 1e-9)
}

func TestSharePct(t *testing.T) {
	assert.Equal(t, "25.0%", sharePct(25, 100))
	assert.Equal(t, "0.0%", sharePct(10, 0))
}
