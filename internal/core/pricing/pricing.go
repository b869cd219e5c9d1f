package pricing

import (
	"fmt"

	"github.com/penwyp/go-claude-trim/internal/core/model"
)

type SourceConfig struct {
	PricingSource      string `json:"pricingSource"`
	PricingOfflineMode bool   `json:"pricingOfflineMode"`
}

// ModelPricing defines per-million-token dollar rates for one model family.
// Input is unused by the cache cost projection but kept for completeness.
type ModelPricing struct {
	Name       string  `json:"name"`
	Input      float64 `json:"input"`
	CacheWrite float64 `json:"cacheWrite"`
	CacheRead  float64 `json:"cacheRead"`
}

// Validate checks that the rates the projection depends on are usable.
func (p ModelPricing) Validate() error {
	if p.CacheWrite < 0 {
		return fmt.Errorf("cache write rate must be non-negative, got %v", p.CacheWrite)
	}
	if p.CacheRead < 0 {
		return fmt.Errorf("cache read rate must be non-negative, got %v", p.CacheRead)
	}
	return nil
}

// modelPricingMap stores pricing for the supported Claude model families
var modelPricingMap = map[string]ModelPricing{
	model.ModelSonnet: {
		Name:       "Sonnet 4",
		Input:      3.00, // $3 per million tokens
		CacheWrite: 3.75, // $3.75 per million tokens
		CacheRead:  0.30, // $0.30 per million tokens
	},
	model.ModelOpus: {
		Name:       "Opus 4.6",
		Input:      5.00, // $5 per million tokens
		CacheWrite: 6.25, // $6.25 per million tokens
		CacheRead:  0.50, // $0.50 per million tokens
	},
	model.ModelOpus4: {
		Name:       "Opus 4/4.1",
		Input:      15.00, // $15 per million tokens
		CacheWrite: 18.75, // $18.75 per million tokens
		CacheRead:  1.50,  // $1.5 per million tokens
	},
	model.ModelHaiku: {
		Name:       "Haiku 4.5",
		Input:      1.00, // $1 per million tokens
		CacheWrite: 1.25, // $1.25 per million tokens
		CacheRead:  0.10, // $0.10 per million tokens
	},
}

// GetPricing returns the pricing for a specific model family
func GetPricing(modelName string) ModelPricing {
	if pricing, ok := modelPricingMap[modelName]; ok {
		return pricing
	}
	// Default to Sonnet pricing if model not found
	return modelPricingMap[model.ModelSonnet]
}

// GetAllPricings returns all model pricings
func GetAllPricings() map[string]ModelPricing {
	// Return a copy to prevent external modification
	result := make(map[string]ModelPricing)
	for k, v := range modelPricingMap {
		result[k] = v
	}
	return result
}
