package pricing

import (
	"context"

	"github.com/penwyp/go-claude-trim/internal/util"
)

// CachedProvider wraps another provider with an offline pricing cache. In
// offline mode the cache is consulted first; otherwise every successful
// provider read refreshes the cache for later offline use.
type CachedProvider struct {
	provider     PricingProvider
	cacheManager *CacheManager
	useOffline   bool
}

// NewCachedProvider creates a new cached pricing provider
func NewCachedProvider(provider PricingProvider, cacheManager *CacheManager, useOffline bool) *CachedProvider {
	return &CachedProvider{
		provider:     provider,
		cacheManager: cacheManager,
		useOffline:   useOffline,
	}
}

// GetPricing returns the pricing for a specific model family
func (p *CachedProvider) GetPricing(ctx context.Context, modelName string) (ModelPricing, error) {
	if p.useOffline {
		cache, err := p.cacheManager.LoadPricing(ctx)
		if err == nil {
			if pricing, ok := cache.Pricing[modelName]; ok {
				util.LogDebugf("Using cached pricing for model %s from %s", modelName, cache.Source)
				return pricing, nil
			}
		}
		util.LogDebugf("Cached pricing not found for model %s, falling back to provider", modelName)
	}

	pricing, err := p.provider.GetPricing(ctx, modelName)
	if err != nil {
		// Provider failed; use cached data as a fallback when available
		if p.cacheManager.HasCache() {
			cache, cacheErr := p.cacheManager.LoadPricing(ctx)
			if cacheErr == nil {
				if cached, ok := cache.Pricing[modelName]; ok {
					util.LogWarnf("Pricing provider failed, using cached rates for %s", modelName)
					return cached, nil
				}
			}
		}
		return ModelPricing{}, err
	}

	p.updateCache(ctx)
	return pricing, nil
}

// GetAllPricings returns all available model pricings
func (p *CachedProvider) GetAllPricings(ctx context.Context) (map[string]ModelPricing, error) {
	if p.useOffline {
		if cache, err := p.cacheManager.LoadPricing(ctx); err == nil && len(cache.Pricing) > 0 {
			return cache.Pricing, nil
		}
	}

	pricings, err := p.provider.GetAllPricings(ctx)
	if err != nil {
		return nil, err
	}

	p.updateCache(ctx)
	return pricings, nil
}

// RefreshPricing refreshes the underlying provider and the offline cache
func (p *CachedProvider) RefreshPricing(ctx context.Context) error {
	if err := p.provider.RefreshPricing(ctx); err != nil {
		return err
	}
	p.updateCache(ctx)
	return nil
}

// GetProviderName returns the name of this pricing provider
func (p *CachedProvider) GetProviderName() string {
	return p.provider.GetProviderName() + "+cache"
}

func (p *CachedProvider) updateCache(ctx context.Context) {
	pricings, err := p.provider.GetAllPricings(ctx)
	if err != nil {
		return
	}
	if err := p.cacheManager.SavePricing(ctx, p.provider.GetProviderName(), pricings); err != nil {
		util.LogDebugf("Failed to update pricing cache: %v", err)
	}
}
