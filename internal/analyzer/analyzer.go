package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-claude-trim/internal/core/model"
	"github.com/penwyp/go-claude-trim/internal/core/pricing"
	"github.com/penwyp/go-claude-trim/internal/core/projection"
	"github.com/penwyp/go-claude-trim/internal/data/cache"
	"github.com/penwyp/go-claude-trim/internal/data/parser"
	"github.com/penwyp/go-claude-trim/internal/data/scanner"
	"github.com/penwyp/go-claude-trim/internal/presentation/formatter"
	"github.com/penwyp/go-claude-trim/internal/util"
)

type Config struct {
	DataDir      string
	CacheDir     string
	OutputFormat string
	Model        string
	CacheHitRate float64
	Turns        int
	MinTokens    int
	Limit        int
	Concurrency  int
	// Pricing configuration
	PricingSource      string // default, file
	PricingFile        string // JSON pricing table for the file source
	PricingOfflineMode bool   // Enable offline pricing mode
}

type Analyzer struct {
	config  *Config
	cache   cache.Cache
	scanner *scanner.FileScanner
	parser  *parser.Parser
	pricing pricing.PricingProvider
}

// extractSessionId extracts the session ID from a file path.
// For example: "/path/to/00aec530-0614-436f-a53b-faaa0b32f123.jsonl" -> "00aec530-0614-436f-a53b-faaa0b32f123"
func extractSessionId(filePath string) string {
	filename := filepath.Base(filePath)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func New(config *Config) *Analyzer {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}
	if config.Turns < 1 {
		config.Turns = 60
	}
	if config.CacheHitRate < 0 {
		config.CacheHitRate = 0
	}
	if config.CacheHitRate > 1 {
		config.CacheHitRate = 1
	}

	var sessionCache cache.Cache = cache.NewNoopCache()
	if fileCache, err := cache.NewFileCache(config.CacheDir); err != nil {
		util.LogWarn(fmt.Sprintf("Session cache unavailable at %s, analyses will not be cached: %v", config.CacheDir, err))
	} else {
		sessionCache = fileCache
	}

	provider, err := pricing.CreatePricingProvider(&pricing.SourceConfig{
		PricingSource:      config.PricingSource,
		PricingOfflineMode: config.PricingOfflineMode,
	}, config.PricingFile)
	if err != nil {
		util.LogError("Failed to create pricing provider: " + err.Error())
		provider = pricing.NewDefaultProvider()
	}

	return &Analyzer{
		config:  config,
		cache:   sessionCache,
		scanner: scanner.NewFileScanner(config.DataDir),
		parser:  parser.NewParser(config.Concurrency),
		pricing: provider,
	}
}

// Run executes a full analysis pass and writes the report to stdout.
func (a *Analyzer) Run() error {
	report, err := a.Analyze()
	if err != nil {
		return err
	}
	return a.formatAndOutput(report)
}

// Analyze runs the scan/parse/project pipeline and returns the report.
func (a *Analyzer) Analyze() (*formatter.Report, error) {
	startTime := time.Now()
	util.LogInfo("Starting session trim analysis...")

	modelKey := util.NormalizeModelKey(a.config.Model)
	if modelKey == "" {
		return nil, fmt.Errorf("unsupported model %q (supported: %s)",
			a.config.Model, strings.Join(util.SupportedModelKeys(), ", "))
	}

	// Phase 1: Preload cache into memory
	preloadStart := time.Now()
	if err := a.cache.Preload(); err != nil {
		util.LogWarn(fmt.Sprintf("Cache preload failed: %v", err))
	}
	preloadDuration := time.Since(preloadStart)
	util.LogDebug(fmt.Sprintf("Phase 1 - Cache preload duration: %v", preloadDuration))

	// Phase 2: Scan files
	scanStart := time.Now()
	files, err := a.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan files: %w", err)
	}
	scanDuration := time.Since(scanStart)
	util.LogDebug(fmt.Sprintf("Phase 2 - File scan duration: %v, found %d files", scanDuration, len(files)))

	if len(files) == 0 {
		return nil, fmt.Errorf("no JSONL session files found under %s", a.config.DataDir)
	}

	util.LogInfo(fmt.Sprintf("Found %d JSONL files", len(files)))

	// Phase 3: Analyze files, using the cache where still valid
	parseStart := time.Now()
	stats := NewCacheStats()
	analyses := a.collectAnalyses(files, stats)
	parseDuration := time.Since(parseStart)
	util.LogDebug(fmt.Sprintf("Phase 3 - Session analysis duration: %v, usable sessions: %d", parseDuration, len(analyses)))

	stats.PrintFinalStats()

	// Phase 4: Filter out sessions below the token threshold
	filterStart := time.Now()
	filtered := analyses[:0]
	for _, s := range analyses {
		if s.EstimatedTokens >= a.config.MinTokens {
			filtered = append(filtered, s)
		}
	}
	filterDuration := time.Since(filterStart)
	util.LogDebug(fmt.Sprintf("Phase 4 - Token filtering duration: %v, sessions after filtering: %d", filterDuration, len(filtered)))

	if len(filtered) == 0 {
		return nil, fmt.Errorf("no sessions with at least %d estimated tokens", a.config.MinTokens)
	}

	// Phase 5: Sort by estimated tokens, largest first
	sortStart := time.Now()
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].EstimatedTokens > filtered[j].EstimatedTokens
	})
	sortDuration := time.Since(sortStart)
	util.LogDebug(fmt.Sprintf("Phase 5 - Sorting duration: %v", sortDuration))

	if a.config.Limit > 0 && len(filtered) > a.config.Limit {
		util.LogDebug(fmt.Sprintf("Applying result limit: %d -> %d", len(filtered), a.config.Limit))
		filtered = filtered[:a.config.Limit]
	}

	// Phase 6: Project cache cost curves per session
	projectStart := time.Now()
	modelPricing, err := a.pricing.GetPricing(context.Background(), modelKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pricing for %s: %w", modelKey, err)
	}

	sessions := make([]formatter.SessionRow, 0, len(filtered))
	for _, s := range filtered {
		proj := projection.Project(s.EstimatedTokens, s.PostTrimTokens,
			modelPricing, a.config.CacheHitRate, a.config.Turns)
		sessions = append(sessions, formatter.SessionRow{
			SessionAnalysis: *s,
			Projection:      proj,
		})
	}
	projectDuration := time.Since(projectStart)
	util.LogDebug(fmt.Sprintf("Phase 6 - Cost projection duration: %v", projectDuration))

	totalDuration := time.Since(startTime)
	util.LogDebug(fmt.Sprintf("Total duration: %v (preload:%v scan:%v parse:%v filter:%v sort:%v project:%v)",
		totalDuration, preloadDuration, scanDuration, parseDuration,
		filterDuration, sortDuration, projectDuration))

	return &formatter.Report{
		ModelKey: modelKey,
		HitRate:  a.config.CacheHitRate,
		Horizon:  a.config.Turns,
		Sessions: sessions,
	}, nil
}

// collectAnalyses resolves every file to a finished analysis, from the cache
// when the file is unchanged, otherwise by parsing it. Gate rejections are
// cached too, so degenerate transcripts are not re-read on the next run.
func (a *Analyzer) collectAnalyses(files []string, stats *CacheStats) []*model.SessionAnalysis {
	var analyses []*model.SessionAnalysis
	var filesToParse []string

	for _, file := range files {
		stats.IncrementTotal()
		sessionId := extractSessionId(file)

		result := a.cache.Get(sessionId)
		if result.Found {
			stats.IncrementHit()
			if result.Data.Rejected {
				stats.IncrementRejection()
				continue
			}
			analyses = append(analyses, result.Data.Analysis)
			continue
		}

		stats.IncrementMiss(file, result.MissReason)
		filesToParse = append(filesToParse, file)
	}

	if len(filesToParse) == 0 {
		return analyses
	}

	util.LogDebug(fmt.Sprintf("Cache hit for %d files, need to parse %d files",
		len(files)-len(filesToParse), len(filesToParse)))

	for result := range a.parser.AnalyzeFiles(filesToParse) {
		if result.Error != nil {
			stats.IncrementFailure()
			util.LogWarn(fmt.Sprintf("Failed to analyze file %s: %v", result.File, result.Error))
			continue
		}

		sessionId := extractSessionId(result.File)
		if err := a.cache.Set(sessionId, result.File, result.Analysis); err != nil {
			util.LogWarn(fmt.Sprintf("Failed to save cache for %s: %v", result.File, err))
		}

		if result.Analysis == nil {
			stats.IncrementRejection()
			continue
		}
		analyses = append(analyses, result.Analysis)
	}

	return analyses
}

func (a *Analyzer) formatAndOutput(report *formatter.Report) error {
	var f formatter.Formatter

	switch a.config.OutputFormat {
	case "", "table":
		f = formatter.NewTableFormatter()
	case "json":
		f = formatter.NewJSONFormatter()
	case "csv":
		f = formatter.NewCSVFormatter()
	case "summary":
		f = formatter.NewSummaryFormatter()
	default:
		return fmt.Errorf("unknown output format: %s", a.config.OutputFormat)
	}

	return f.Format(report)
}
