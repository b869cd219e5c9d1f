package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-claude-trim/internal/core/pricing"
)

var sonnetRates = pricing.ModelPricing{
	Name:       "Sonnet 4",
	Input:      3.00,
	CacheWrite: 3.75,
	CacheRead:  0.30,
}

func TestCostPerTurn(t *testing.T) {
	// 100k tokens at 90% hit rate: 90k read + 10k written.
	cost := CostPerTurn(100000, 0.9, sonnetRates)
	assert.InDelta(t, 0.0645, cost, 1e-9)
}

func TestCostPerTurnFullHitRate(t *testing.T) {
	cost := CostPerTurn(100000, 1.0, sonnetRates)
	assert.InDelta(t, 0.030, cost, 1e-9)
}

func TestCostPerTurnZeroHitRate(t *testing.T) {
	cost := CostPerTurn(100000, 0.0, sonnetRates)
	assert.InDelta(t, ColdCost(100000, sonnetRates), cost, 1e-9)
}

func TestColdCost(t *testing.T) {
	assert.InDelta(t, 0.15, ColdCost(40000, sonnetRates), 1e-9)
}

func TestProjectCurvesAndBreakeven(t *testing.T) {
	// 100k tokens trimmed to 40k at 90% hit rate.
	proj := Project(100000, 40000, sonnetRates, 0.9, 60)

	require.Len(t, proj.Turns, 60)
	require.Len(t, proj.NoTrim, 60)
	require.Len(t, proj.WithTrim, 60)

	assert.Equal(t, 1, proj.Turns[0])
	assert.Equal(t, 60, proj.Turns[59])

	// Turn 1: steady-state cost vs cold re-write of the trimmed prompt.
	assert.InDelta(t, 0.0645, proj.NoTrim[0], 1e-9)
	assert.InDelta(t, 0.15, proj.WithTrim[0], 1e-9)

	// Turn 5: 5*0.0645 vs 0.15 + 4*0.0258.
	assert.InDelta(t, 0.3225, proj.NoTrim[4], 1e-9)
	assert.InDelta(t, 0.2532, proj.WithTrim[4], 1e-9)

	// The cold re-write makes trimming more expensive until turn 4.
	assert.Equal(t, 4, proj.Breakeven)
	assert.Greater(t, proj.WithTrim[2], proj.NoTrim[2])
	assert.LessOrEqual(t, proj.WithTrim[3], proj.NoTrim[3])
}

func TestProjectCurvesNonDecreasing(t *testing.T) {
	proj := Project(250000, 90000, sonnetRates, 0.8, 40)

	for i := 1; i < len(proj.Turns); i++ {
		assert.GreaterOrEqual(t, proj.NoTrim[i], proj.NoTrim[i-1])
		assert.GreaterOrEqual(t, proj.WithTrim[i], proj.WithTrim[i-1])
	}
}

func TestProjectBreakevenSaturates(t *testing.T) {
	// Trim saves nothing: the cold re-write is never recouped.
	proj := Project(100000, 100000, sonnetRates, 0.9, 60)

	assert.Equal(t, 60, proj.Breakeven)
	for i := range proj.Turns {
		assert.Greater(t, proj.WithTrim[i], proj.NoTrim[i])
	}
}

func TestProjectSingleTurnHorizon(t *testing.T) {
	proj := Project(100000, 40000, sonnetRates, 0.9, 0)

	require.Len(t, proj.Turns, 1)
	assert.Equal(t, 1, proj.Breakeven)
}

func TestProjectZeroTokens(t *testing.T) {
	proj := Project(0, 0, sonnetRates, 0.9, 10)

	assert.Equal(t, 1, proj.Breakeven, "identical zero curves break even immediately")
	for i := range proj.Turns {
		assert.Zero(t, proj.NoTrim[i])
		assert.Zero(t, proj.WithTrim[i])
	}
}
