// Package projection models the cumulative dollar cost of a multi-turn
// conversation under prompt-cache billing, comparing the untrimmed context
// against its estimated post-trim size.
package projection

import (
	"github.com/penwyp/go-claude-trim/internal/core/model"
	"github.com/penwyp/go-claude-trim/internal/core/pricing"
)

const tokensPerMillion = 1e6

// CostPerTurn is the steady-state cost of one turn: a hitRate fraction of
// the prompt is served from cache at the read rate, the rest is re-processed
// at the write rate.
func CostPerTurn(tokens float64, hitRate float64, p pricing.ModelPricing) float64 {
	cached := tokens * hitRate
	fresh := tokens * (1 - hitRate)
	return cached/tokensPerMillion*p.CacheRead + fresh/tokensPerMillion*p.CacheWrite
}

// ColdCost is the first-turn cost with no cache established yet.
func ColdCost(tokens float64, p pricing.ModelPricing) float64 {
	return tokens / tokensPerMillion * p.CacheWrite
}

// Project computes cumulative cost curves over turns 1..maxTurns for the
// pre-trim and post-trim token counts, and the break-even turn: the first
// turn at which the trimmed strategy is no more expensive. Trimming pays a
// one-time cache re-write on its first turn, so break-even is rarely turn 1.
// If the curves never cross within the horizon, Breakeven saturates at
// maxTurns.
func Project(preTokens, postTokens int, p pricing.ModelPricing, hitRate float64, maxTurns int) model.CacheCostProjection {
	if maxTurns < 1 {
		maxTurns = 1
	}

	preCost := CostPerTurn(float64(preTokens), hitRate, p)
	postSteady := CostPerTurn(float64(postTokens), hitRate, p)
	postFirst := ColdCost(float64(postTokens), p)

	proj := model.CacheCostProjection{
		Turns:     make([]int, maxTurns),
		NoTrim:    make([]float64, maxTurns),
		WithTrim:  make([]float64, maxTurns),
		Breakeven: maxTurns,
	}

	found := false
	for i := 0; i < maxTurns; i++ {
		t := i + 1
		proj.Turns[i] = t
		proj.NoTrim[i] = preCost * float64(t)
		proj.WithTrim[i] = postFirst + postSteady*float64(t-1)

		if !found && proj.NoTrim[i]-proj.WithTrim[i] >= 0 {
			proj.Breakeven = t
			found = true
		}
	}

	return proj
}
