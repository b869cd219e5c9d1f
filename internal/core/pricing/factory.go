package pricing

import (
	"fmt"

	"github.com/penwyp/go-claude-trim/internal/util"
)

// CreatePricingProvider builds a pricing provider from the source config.
// Supported sources are "default" (built-in table) and "file" (user-supplied
// JSON table at pricingFile). Both are wrapped with the offline cache.
func CreatePricingProvider(config *SourceConfig, pricingFile string) (PricingProvider, error) {
	var base PricingProvider

	switch config.PricingSource {
	case "", "default":
		base = NewDefaultProvider()
	case "file":
		if pricingFile == "" {
			return nil, fmt.Errorf("pricing source %q requires a pricing file path", config.PricingSource)
		}
		provider, err := NewFileProvider(pricingFile)
		if err != nil {
			return nil, err
		}
		base = provider
	default:
		return nil, fmt.Errorf("unknown pricing source: %s", config.PricingSource)
	}

	cacheManager, err := NewCacheManager()
	if err != nil {
		// Offline caching is best-effort; fall back to the bare provider
		util.LogWarnf("Failed to create pricing cache manager: %v", err)
		return base, nil
	}

	return NewCachedProvider(base, cacheManager, config.PricingOfflineMode), nil
}
