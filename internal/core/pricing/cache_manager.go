package pricing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-claude-trim/internal/util"
)

// CacheManager handles caching of pricing data for offline use
type CacheManager struct {
	mu        sync.RWMutex
	cacheFile string
}

// PricingCache represents the cached pricing data
type PricingCache struct {
	Source    string                  `json:"source"`
	UpdatedAt time.Time               `json:"updated_at"`
	Pricing   map[string]ModelPricing `json:"pricing"`
}

// NewCacheManager creates a new pricing cache manager
func NewCacheManager() (*CacheManager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	pricingDir := filepath.Join(homeDir, ".go-claude-trim")
	pricingFile := filepath.Join(pricingDir, "pricing.json")

	if err := os.MkdirAll(pricingDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create pricing directory: %w", err)
	}

	return &CacheManager{
		cacheFile: pricingFile,
	}, nil
}

// SavePricing saves pricing data to cache
func (m *CacheManager) SavePricing(ctx context.Context, source string, pricing map[string]ModelPricing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Saving %s pricing data to %s (%d models)", source, m.cacheFile, len(pricing)))

	cache := PricingCache{
		Source:    source,
		UpdatedAt: time.Now(),
		Pricing:   pricing,
	}

	data, err := sonic.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pricing cache: %w", err)
	}

	// Write to temporary file first, then rename into place (atomic)
	tmpFile := m.cacheFile + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmpFile, m.cacheFile); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	return nil
}

// LoadPricing loads pricing data from cache
func (m *CacheManager) LoadPricing(ctx context.Context) (*PricingCache, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.cacheFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no cached pricing data available at %s", m.cacheFile)
		}
		return nil, fmt.Errorf("failed to read cache file %s: %w", m.cacheFile, err)
	}

	var cache PricingCache
	if err := sonic.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pricing cache: %w", err)
	}

	util.LogDebug(fmt.Sprintf("Loaded pricing data: source=%s, models=%d", cache.Source, len(cache.Pricing)))
	return &cache, nil
}

// HasCache checks if cached pricing data exists
func (m *CacheManager) HasCache() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.cacheFile)
	return err == nil
}

// ClearCache removes the cached pricing data
func (m *CacheManager) ClearCache() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := os.Remove(m.cacheFile)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}
