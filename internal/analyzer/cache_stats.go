package analyzer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/penwyp/go-claude-trim/internal/data/cache"
	"github.com/penwyp/go-claude-trim/internal/util"
)

// Translate cache miss reason to English string for logging
func cacheMissReasonString(r cache.CacheMissReason) string {
	switch r {
	case cache.MissReasonNone:
		return "none"
	case cache.MissReasonError:
		return "Cache read error"
	case cache.MissReasonInode:
		return "File inode changed"
	case cache.MissReasonSize:
		return "File size changed"
	case cache.MissReasonModTime:
		return "Modification time changed"
	case cache.MissReasonFingerprint:
		return "File fingerprint changed"
	case cache.MissReasonNotFound:
		return "Cache not found"
	default:
		return "Unknown reason"
	}
}

// CacheStats holds statistics for cache usage
type CacheStats struct {
	totalFiles  int64
	cacheHits   int64
	cacheMisses int64
	rejections  int64
	failures    int64
	mu          sync.Mutex
	missDetails []MissDetail
}

// MissDetail records details of a cache miss
type MissDetail struct {
	FilePath string
	Reason   cache.CacheMissReason
}

// NewCacheStats creates a new CacheStats instance
func NewCacheStats() *CacheStats {
	return &CacheStats{
		missDetails: make([]MissDetail, 0),
	}
}

// IncrementTotal increases the total file count
func (cs *CacheStats) IncrementTotal() {
	atomic.AddInt64(&cs.totalFiles, 1)
}

// IncrementHit increases the cache hit count
func (cs *CacheStats) IncrementHit() {
	atomic.AddInt64(&cs.cacheHits, 1)
}

// IncrementMiss increases the cache miss count and records the miss detail
func (cs *CacheStats) IncrementMiss(filePath string, reason cache.CacheMissReason) {
	atomic.AddInt64(&cs.cacheMisses, 1)

	cs.mu.Lock()
	cs.missDetails = append(cs.missDetails, MissDetail{
		FilePath: filePath,
		Reason:   reason,
	})
	cs.mu.Unlock()
}

// IncrementRejection increases the count of sessions filtered by the gates
func (cs *CacheStats) IncrementRejection() {
	atomic.AddInt64(&cs.rejections, 1)
}

// IncrementFailure increases the failure count
func (cs *CacheStats) IncrementFailure() {
	atomic.AddInt64(&cs.failures, 1)
}

// GetStats returns the current statistics and hit rate
func (cs *CacheStats) GetStats() (total, hits, misses, rejections, failures int64, hitRate float64) {
	total = atomic.LoadInt64(&cs.totalFiles)
	hits = atomic.LoadInt64(&cs.cacheHits)
	misses = atomic.LoadInt64(&cs.cacheMisses)
	rejections = atomic.LoadInt64(&cs.rejections)
	failures = atomic.LoadInt64(&cs.failures)

	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return
}

// PrintFinalStats logs the final cache statistics and a summary of cache miss reasons
func (cs *CacheStats) PrintFinalStats() {
	total, hits, misses, rejections, failures, hitRate := cs.GetStats()

	util.LogDebug(fmt.Sprintf("Cache statistics: total files %d, hit rate %.1f%% (%d hits/%d misses/%d rejected/%d failures)",
		total, hitRate, hits, misses, rejections, failures))

	if misses > 0 {
		cs.mu.Lock()
		reasonCounts := make(map[cache.CacheMissReason]int)
		for _, detail := range cs.missDetails {
			reasonCounts[detail.Reason]++
		}
		cs.mu.Unlock()

		util.LogDebug("Cache miss reason summary:")
		for reason, count := range reasonCounts {
			util.LogDebug(fmt.Sprintf("  %s: %d files", cacheMissReasonString(reason), count))
		}
	}
}
