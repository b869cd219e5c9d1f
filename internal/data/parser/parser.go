// Package parser implements the single-pass categorization engine: it reads
// one session transcript line by line, classifies every byte into a semantic
// category, estimates the session's token footprint, and attaches the trim
// savings estimate.
package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-claude-trim/internal/core/model"
	"github.com/penwyp/go-claude-trim/internal/core/trim"
	"github.com/penwyp/go-claude-trim/internal/util"
)

const (
	// MinSessionBytes gates out transcripts too small to be a real session.
	MinSessionBytes = 100

	// MinSessionMessages gates out degenerate sessions.
	MinSessionMessages = 10
)

// Parser analyzes session transcript files. Rejected sessions (too small or
// too few messages) are reported as a nil analysis with a nil error; they
// are a normal outcome, not a failure.
type Parser struct {
	concurrency int
	minBytes    int64
	trimConfig  trim.Config
}

// AnalyzeResult represents the result of analyzing a single file.
type AnalyzeResult struct {
	File     string
	Analysis *model.SessionAnalysis
	Error    error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		minBytes:    MinSessionBytes,
		trimConfig:  trim.DefaultConfig(),
	}
}

// AnalyzeFile runs one categorization pass over the transcript at the given
// path. The file handle is released on every exit path.
func (p *Parser) AnalyzeFile(path string) (*model.SessionAnalysis, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() < p.minBytes {
		util.LogDebug(fmt.Sprintf("Skip undersized session: %s (%d bytes)", path, info.Size()))
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.AnalyzeReader(file, path)
}

// AnalyzeReader runs one categorization pass over a transcript supplied as a
// line stream. Both gates apply here as well. The path is used only for the
// identifying fields of the resulting analysis.
func (p *Parser) AnalyzeReader(r io.Reader, path string) (*model.SessionAnalysis, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	acc := &accumulator{}
	var bytesRead int64
	for scanner.Scan() {
		bytesRead += int64(len(scanner.Bytes())) + 1
		processLine(acc, scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed reading transcript %s: %w", path, err)
	}

	if bytesRead < p.minBytes {
		util.LogDebug(fmt.Sprintf("Skip undersized session: %s (%d bytes)", path, bytesRead))
		return nil, nil
	}

	return p.finalize(acc, path), nil
}

// processLine classifies one raw transcript line into the accumulator.
// Malformed lines are counted, never fatal.
func processLine(acc *accumulator, raw []byte) {
	line := bytes.TrimRight(raw, "\r")
	if len(bytes.TrimSpace(line)) == 0 {
		return
	}
	lineBytes := len(line)

	var entry model.TranscriptEntry
	if err := sonic.Unmarshal(line, &entry); err != nil {
		acc.totalBytes += lineBytes
		acc.otherBytes += lineBytes
		return
	}

	// Compaction boundary: prior raw history is gone, replaced by a
	// condensed summary. Substitute a fresh accumulator whose byte origin
	// is the boundary record itself.
	if entry.IsCompactionBoundary() {
		fresh := accumulator{totalBytes: lineBytes}
		summary := entry.Summary
		if summary == "" && entry.Content.IsScalar {
			summary = entry.Content.Text
		}
		if summary != "" {
			fresh.contentChars += len(summary)
			fresh.conversationBytes += lineBytes
		}
		*acc = fresh
		return
	}

	acc.totalBytes += lineBytes

	// File history snapshots are persisted bookkeeping, never sent to the API
	if entry.Type == model.EntryFileHistory {
		acc.fileHistoryBytes += lineBytes
		acc.fileHistoryCount++
		return
	}

	if entry.Type == model.EntryQueueOp {
		acc.otherBytes += lineBytes
		return
	}

	role := entry.EffectiveRole()
	switch role {
	case model.EntryUser, model.EntryHuman:
		acc.userMessages++
	case model.EntryAssistant:
		acc.assistantMessages++
		// The checkpoint snapshot is taken before this record's own content
		// is inspected, so only later content is heuristically estimated.
		if usage := entry.EffectiveUsage(); usage != nil {
			acc.checkpoint(usage.CombinedInputTokens())
		}
	}

	toolResultB := 0
	signatureB := 0
	toolUseB := 0

	if content := entry.EffectiveContent(); content != nil {
		if content.IsScalar {
			acc.contentChars += len(content.Text)
		} else {
			for i := range content.Blocks {
				block := &content.Blocks[i]
				switch block.Type {
				case model.BlockToolResult:
					toolResultB += block.RawSize()
					acc.toolResultCount++
					acc.contentChars += block.InnerTextLen()

				case model.BlockThinking:
					if sig := block.SignatureSize(); sig > 0 {
						signatureB += sig
						acc.thinkingCount++
					}
					acc.contentChars += len(block.Text)

				case model.BlockToolUse:
					toolUseB += block.RawSize()
					acc.toolUseCount++
					acc.contentChars += len(block.Input)

				case model.BlockText:
					acc.contentChars += len(block.Text)
				}
			}
		}
	}

	acc.toolResultBytes += toolResultB
	acc.thinkingBytes += signatureB
	acc.toolUseBytes += toolUseB

	// Whatever the typed blocks did not claim belongs to the conversation
	// itself, or to "other" for non-conversational roles.
	residual := lineBytes - toolResultB - signatureB - toolUseB
	if residual < 0 {
		residual = 0
	}
	switch role {
	case model.EntryUser, model.EntryHuman, model.EntryAssistant:
		acc.conversationBytes += residual
	default:
		acc.otherBytes += residual
	}
}

// finalize gates the session, estimates its token footprint and attaches the
// trim savings estimate. Returns nil for rejected sessions.
func (p *Parser) finalize(acc *accumulator, path string) *model.SessionAnalysis {
	if acc.messageCount() < MinSessionMessages {
		util.LogDebug(fmt.Sprintf("Skip degenerate session: %s (%d messages)", path, acc.messageCount()))
		return nil
	}

	var estimated int
	if acc.hasCheckpoint {
		// Only content produced after the last ground-truth reading is
		// heuristically estimated.
		estimated = acc.checkpointTokens + (acc.contentChars-acc.charsAtCheckpoint)/4
	} else {
		estimated = acc.contentChars/4 + p.trimConfig.SystemOverheadTokens
	}

	analysis := &model.SessionAnalysis{
		Path:            path,
		SessionId:       sessionIdFromPath(path),
		ProjectName:     projectNameFromPath(path),
		EstimatedTokens: estimated,
	}
	acc.snapshot(analysis)

	p.trimConfig.Estimate(analysis)
	return analysis
}

// AnalyzeFiles analyzes multiple transcript files concurrently and returns a
// channel of results. One file's failure never blocks another's analysis.
func (p *Parser) AnalyzeFiles(files []string) <-chan AnalyzeResult {
	start := time.Now()
	results := make(chan AnalyzeResult, len(files))
	var wg sync.WaitGroup

	util.LogDebug(fmt.Sprintf("Start concurrent analysis of %d files, concurrency: %d", len(files), p.concurrency))

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fileStart := time.Now()
			analysis, err := p.AnalyzeFile(f)
			if err != nil {
				util.LogDebug(fmt.Sprintf("Session analysis failed: %s, duration %v - %v", f, time.Since(fileStart), err))
			}

			results <- AnalyzeResult{
				File:     f,
				Analysis: analysis,
				Error:    err,
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebug(fmt.Sprintf("Concurrent analysis finished, total duration: %v", time.Since(start)))
	}()

	return results
}

// sessionIdFromPath extracts the session ID from a transcript path.
// For example: "/path/to/00aec530-0614.jsonl" -> "00aec530-0614"
func sessionIdFromPath(path string) string {
	filename := filepath.Base(path)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// projectNameFromPath derives the project name from the transcript's parent
// directory, matching the ~/.claude/projects/<project>/<session>.jsonl layout.
func projectNameFromPath(path string) string {
	return filepath.Base(filepath.Dir(path))
}
