package formatter

import (
	"github.com/penwyp/go-claude-trim/internal/core/model"
)

// SessionRow pairs one session analysis with its cost projection.
type SessionRow struct {
	model.SessionAnalysis
	Projection model.CacheCostProjection `json:"projection"`
}

// Report is the finished output of an analysis run, ready for formatting.
type Report struct {
	ModelKey string       `json:"modelKey"`
	HitRate  float64      `json:"hitRate"`
	Horizon  int          `json:"horizon"`
	Sessions []SessionRow `json:"sessions"`
}

// Formatter renders a report to stdout.
type Formatter interface {
	Format(report *Report) error
}
