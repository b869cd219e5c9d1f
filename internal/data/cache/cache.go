// Package cache persists finalized session analyses so unchanged transcripts
// are not re-parsed on every run.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-claude-trim/internal/core/model"
	"github.com/penwyp/go-claude-trim/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNotFound
)

// CachedAnalysis is one cache record: the finalized analysis (nil when the
// session was rejected by the gates) plus the file identity it was computed
// from. Rejections are cached too, so degenerate sessions are not re-parsed.
type CachedAnalysis struct {
	Analysis           *model.SessionAnalysis `json:"analysis,omitempty"`
	Rejected           bool                   `json:"rejected,omitempty"`
	FilePath           string                 `json:"filePath"`
	SessionId          string                 `json:"sessionId"`
	LastModified       int64                  `json:"lastModified"`
	FileSize           int64                  `json:"fileSize"`
	Inode              uint64                 `json:"inode"`
	ContentFingerprint string                 `json:"contentFingerprint,omitempty"`
}

type CacheResult struct {
	Data       *CachedAnalysis
	Found      bool
	MissReason CacheMissReason
}

type Cache interface {
	Get(sessionId string) CacheResult
	Set(sessionId string, filePath string, analysis *model.SessionAnalysis) error
	Clear() error
	Preload() error
}

// FileCache stores one JSON file per session under a cache directory, with a
// write-through in-memory layer.
type FileCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*CachedAnalysis
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*CachedAnalysis),
	}, nil
}

func (c *FileCache) Get(sessionId string) CacheResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	// First, check memory cache
	if memData, exists := c.memoryCache[sessionId]; exists {
		if ret := c.validateCachedData(memData); ret.cached {
			return CacheResult{Data: memData, Found: true, MissReason: MissReasonNone}
		}
		delete(c.memoryCache, sessionId)
	}

	// Second, check file cache
	return c.getFromFile(sessionId)
}

func (c *FileCache) getFromFile(sessionId string) CacheResult {
	cachePath := filepath.Join(c.baseDir, sessionId+".json")

	raw, err := os.ReadFile(cachePath)
	if err != nil {
		return CacheResult{Found: false, MissReason: MissReasonNotFound}
	}

	var data CachedAnalysis
	if err := sonic.Unmarshal(raw, &data); err != nil {
		return CacheResult{Found: false, MissReason: MissReasonError}
	}

	if ret := c.validateCachedData(&data); !ret.cached {
		return CacheResult{Found: false, MissReason: ret.reason}
	}

	// Promote valid data to the memory cache for future access
	c.memoryCache[sessionId] = &data

	return CacheResult{Data: &data, Found: true, MissReason: MissReasonNone}
}

type validateResult struct {
	cached bool
	reason CacheMissReason
}

func (c *FileCache) validateCachedData(data *CachedAnalysis) validateResult {
	currentInfo, err := util.GetFileInfo(data.FilePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Cache validation failed for %s: unable to get file info: %v", data.FilePath, err))
		return validateResult{cached: false, reason: MissReasonError}
	}

	if currentInfo.Inode != data.Inode {
		return validateResult{cached: false, reason: MissReasonInode}
	}
	if currentInfo.Size != data.FileSize {
		return validateResult{cached: false, reason: MissReasonSize}
	}
	if currentInfo.ModTime != data.LastModified {
		return validateResult{cached: false, reason: MissReasonModTime}
	}

	// Old files are stable; skip the fingerprint read
	modTime := time.Unix(currentInfo.ModTime, 0)
	if time.Since(modTime) > 48*time.Hour {
		return validateResult{cached: true, reason: MissReasonNone}
	}

	if data.ContentFingerprint == "" {
		return validateResult{cached: false, reason: MissReasonFingerprint}
	}
	fingerprint, err := util.CalculateFileFingerprint(data.FilePath)
	if err != nil || fingerprint != data.ContentFingerprint {
		return validateResult{cached: false, reason: MissReasonFingerprint}
	}

	return validateResult{cached: true, reason: MissReasonNone}
}

func (c *FileCache) Set(sessionId string, filePath string, analysis *model.SessionAnalysis) error {
	info, err := util.GetFileInfo(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat %s for caching: %w", filePath, err)
	}

	fingerprint, err := util.CalculateFileFingerprint(filePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to fingerprint %s: %v", filePath, err))
		fingerprint = ""
	}

	data := &CachedAnalysis{
		Analysis:           analysis,
		Rejected:           analysis == nil,
		FilePath:           filePath,
		SessionId:          sessionId,
		LastModified:       info.ModTime,
		FileSize:           info.Size,
		Inode:              info.Inode,
		ContentFingerprint: fingerprint,
	}

	encoded, err := sonic.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	cachePath := filepath.Join(c.baseDir, sessionId+".json")
	if err := os.WriteFile(cachePath, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	c.mu.Lock()
	c.memoryCache[sessionId] = data
	c.mu.Unlock()

	return nil
}

// Preload reads every cache file into memory in one pass.
func (c *FileCache) Preload() error {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(c.baseDir, entry.Name()))
		if err != nil {
			continue
		}

		var data CachedAnalysis
		if err := sonic.Unmarshal(raw, &data); err != nil {
			continue
		}

		sessionId := strings.TrimSuffix(entry.Name(), ".json")
		c.memoryCache[sessionId] = &data
		loaded++
	}

	util.LogDebug(fmt.Sprintf("Preloaded %d cache entries from %s", loaded, c.baseDir))
	return nil
}

// Clear removes every cache file and empties the memory layer.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			if err := os.Remove(filepath.Join(c.baseDir, entry.Name())); err != nil {
				return err
			}
		}
	}

	c.memoryCache = make(map[string]*CachedAnalysis)
	return nil
}

// NoopCache is the fallback when the cache directory cannot be used: every
// lookup misses and writes go nowhere, so analysis still runs, just without
// persistence.
type NoopCache struct{}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (c *NoopCache) Get(sessionId string) CacheResult {
	return CacheResult{MissReason: MissReasonNotFound}
}

func (c *NoopCache) Set(sessionId string, filePath string, analysis *model.SessionAnalysis) error {
	return nil
}

func (c *NoopCache) Clear() error {
	return nil
}

func (c *NoopCache) Preload() error {
	return nil
}
