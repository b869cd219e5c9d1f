package pricing

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/bytedance/sonic"
)

// FileProvider loads a user-supplied pricing table from a JSON file mapping
// model family keys to rate entries. Missing models fall back to the static
// defaults so a partial override file is valid.
type FileProvider struct {
	path string

	mu      sync.RWMutex
	pricing map[string]ModelPricing
}

// NewFileProvider creates a pricing provider backed by the given JSON file.
func NewFileProvider(path string) (*FileProvider, error) {
	p := &FileProvider{path: path}
	if err := p.RefreshPricing(context.Background()); err != nil {
		return nil, err
	}
	return p, nil
}

// RefreshPricing re-reads the pricing file
func (p *FileProvider) RefreshPricing(ctx context.Context) error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("failed to read pricing file %s: %w", p.path, err)
	}

	var table map[string]ModelPricing
	if err := sonic.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("failed to parse pricing file %s: %w", p.path, err)
	}

	for name, entry := range table {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("invalid pricing for model %s: %w", name, err)
		}
	}

	p.mu.Lock()
	p.pricing = table
	p.mu.Unlock()
	return nil
}

// GetPricing returns the pricing for a specific model family
func (p *FileProvider) GetPricing(ctx context.Context, modelName string) (ModelPricing, error) {
	p.mu.RLock()
	entry, ok := p.pricing[modelName]
	p.mu.RUnlock()
	if ok {
		return entry, nil
	}
	return GetPricing(modelName), nil
}

// GetAllPricings returns the defaults overlaid with the file entries
func (p *FileProvider) GetAllPricings(ctx context.Context) (map[string]ModelPricing, error) {
	result := GetAllPricings()

	p.mu.RLock()
	defer p.mu.RUnlock()
	for name, entry := range p.pricing {
		result[name] = entry
	}
	return result, nil
}

// GetProviderName returns the name of this pricing provider
func (p *FileProvider) GetProviderName() string {
	return "file"
}
