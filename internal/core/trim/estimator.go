// Package trim estimates the effect of compacting a session's context
// without ever performing the compaction. The estimate works purely on the
// byte-category counters of a finalized session analysis.
package trim

import (
	"math"

	"github.com/penwyp/go-claude-trim/internal/core/model"
)

// Config holds the trim model's tunable constants. The default values are
// empirical; tests validate the formula's algebraic properties rather than
// the specific numbers.
type Config struct {
	// ToolResultRemovableFraction is the share of tool-result bytes assumed
	// removable; the remainder is retained as a compacted stub.
	ToolResultRemovableFraction float64

	// ToolResultStubBytes is the fixed per-stub residual cost that must not
	// be counted as savings.
	ToolResultStubBytes float64

	// MaxTrimRatio caps the reduction; a floor of context always remains.
	MaxTrimRatio float64

	// SystemOverheadTokens approximates the always-present non-conversational
	// prompt prefix, which trimming never reduces.
	SystemOverheadTokens int
}

// DefaultConfig returns the standard trim model constants.
func DefaultConfig() Config {
	return Config{
		ToolResultRemovableFraction: 0.7,
		ToolResultStubBytes:         35,
		MaxTrimRatio:                0.95,
		SystemOverheadTokens:        20000,
	}
}

// Estimate fills PostTrimTokens and ReductionPct on the analysis. File
// history and thinking-signature bytes are assumed fully removable; tool
// results are removable at the configured fraction minus the per-stub cost.
func (c Config) Estimate(s *model.SessionAnalysis) {
	if s.TotalBytes <= 0 {
		s.PostTrimTokens = s.EstimatedTokens
		s.ReductionPct = 0
		return
	}

	removable := float64(s.FileHistoryBytes) + float64(s.ThinkingBytes) +
		c.ToolResultRemovableFraction*float64(s.ToolResultBytes) -
		c.ToolResultStubBytes*float64(s.ToolResultCount)

	ratio := removable / float64(s.TotalBytes)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > c.MaxTrimRatio {
		ratio = c.MaxTrimRatio
	}

	// Only the conversational portion shrinks; the system overhead stays.
	contentTokens := s.EstimatedTokens - c.SystemOverheadTokens
	if contentTokens < 0 {
		contentTokens = 0
	}

	postTrim := int(math.Round(float64(contentTokens)*(1-ratio))) + c.SystemOverheadTokens
	if postTrim > s.EstimatedTokens {
		postTrim = s.EstimatedTokens
	}
	s.PostTrimTokens = postTrim

	if s.EstimatedTokens > 0 {
		pct := float64(s.EstimatedTokens-s.PostTrimTokens) / float64(s.EstimatedTokens) * 100
		pct = math.Round(pct*10) / 10
		if pct < 0 {
			pct = 0
		}
		s.ReductionPct = pct
	} else {
		s.ReductionPct = 0
	}
}
