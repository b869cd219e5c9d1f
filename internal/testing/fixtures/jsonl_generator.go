// Package fixtures generates synthetic session transcripts for tests.
package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TranscriptBuilder accumulates JSONL lines for a synthetic session
// transcript. Methods chain; the zero sequence starts at 1.
type TranscriptBuilder struct {
	sessionId string
	lines     []string
	seq       int
	clock     time.Time
}

func NewTranscriptBuilder(sessionId string) *TranscriptBuilder {
	return &TranscriptBuilder{
		sessionId: sessionId,
		clock:     time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func (b *TranscriptBuilder) nextMeta() map[string]any {
	b.seq++
	b.clock = b.clock.Add(5 * time.Second)
	return map[string]any{
		"uuid":      fmt.Sprintf("uuid-%04d", b.seq),
		"sessionId": b.sessionId,
		"timestamp": b.clock.Format(time.RFC3339),
	}
}

func (b *TranscriptBuilder) appendEntry(entry map[string]any) *TranscriptBuilder {
	encoded, err := json.Marshal(entry)
	if err != nil {
		panic(err) // fixture shapes are always marshalable
	}
	b.lines = append(b.lines, string(encoded))
	return b
}

// Raw appends a line verbatim, for malformed or unusual inputs.
func (b *TranscriptBuilder) Raw(line string) *TranscriptBuilder {
	b.lines = append(b.lines, line)
	return b
}

// UserText appends a user message whose content is a plain string.
func (b *TranscriptBuilder) UserText(text string) *TranscriptBuilder {
	entry := b.nextMeta()
	entry["type"] = "user"
	entry["message"] = map[string]any{
		"role":    "user",
		"content": text,
	}
	return b.appendEntry(entry)
}

// UserToolResult appends a user message carrying one tool_result block.
func (b *TranscriptBuilder) UserToolResult(toolUseId, content string) *TranscriptBuilder {
	entry := b.nextMeta()
	entry["type"] = "user"
	entry["message"] = map[string]any{
		"role": "user",
		"content": []any{
			map[string]any{
				"type":        "tool_result",
				"tool_use_id": toolUseId,
				"content":     content,
			},
		},
	}
	return b.appendEntry(entry)
}

// AssistantBlocks appends an assistant message with the given content blocks
// and, when combinedInputTokens > 0, a usage record reporting that combined
// total as plain input tokens.
func (b *TranscriptBuilder) AssistantBlocks(combinedInputTokens int, blocks ...map[string]any) *TranscriptBuilder {
	message := map[string]any{
		"role":    "assistant",
		"model":   "claude-sonnet-4-20250514",
		"content": blocks,
	}
	if combinedInputTokens > 0 {
		message["usage"] = map[string]any{
			"input_tokens":                combinedInputTokens,
			"output_tokens":               200,
			"cache_creation_input_tokens": 0,
			"cache_read_input_tokens":     0,
		}
	}

	entry := b.nextMeta()
	entry["type"] = "assistant"
	entry["message"] = message
	return b.appendEntry(entry)
}

// AssistantText appends an assistant message with a single text block.
func (b *TranscriptBuilder) AssistantText(text string, combinedInputTokens int) *TranscriptBuilder {
	return b.AssistantBlocks(combinedInputTokens, TextBlock(text))
}

// FileHistorySnapshot appends a file-history-snapshot entry padded to roughly
// the requested payload size.
func (b *TranscriptBuilder) FileHistorySnapshot(payloadBytes int) *TranscriptBuilder {
	entry := b.nextMeta()
	entry["type"] = "file-history-snapshot"
	entry["snapshot"] = strings.Repeat("x", payloadBytes)
	return b.appendEntry(entry)
}

// QueueOperation appends a queue-operation entry.
func (b *TranscriptBuilder) QueueOperation() *TranscriptBuilder {
	entry := b.nextMeta()
	entry["type"] = "queue-operation"
	entry["operation"] = "enqueue"
	return b.appendEntry(entry)
}

// Summary appends a summary entry, the marker a compaction leaves behind.
func (b *TranscriptBuilder) Summary(text string) *TranscriptBuilder {
	entry := b.nextMeta()
	entry["type"] = "summary"
	entry["summary"] = text
	return b.appendEntry(entry)
}

// CompactBoundary appends a system compact_boundary entry.
func (b *TranscriptBuilder) CompactBoundary() *TranscriptBuilder {
	entry := b.nextMeta()
	entry["type"] = "system"
	entry["subtype"] = "compact_boundary"
	return b.appendEntry(entry)
}

// Lines returns the accumulated transcript lines.
func (b *TranscriptBuilder) Lines() []string {
	return b.lines
}

// String returns the transcript as newline-joined JSONL.
func (b *TranscriptBuilder) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}

// WriteFile writes the transcript to path, creating parent directories.
func (b *TranscriptBuilder) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// TextBlock builds a text content block.
func TextBlock(text string) map[string]any {
	return map[string]any{"type": "text", "text": text}
}

// ThinkingBlock builds a thinking content block with a signature.
func ThinkingBlock(thinking, signature string) map[string]any {
	return map[string]any{
		"type":      "thinking",
		"thinking":  thinking,
		"signature": signature,
	}
}

// ToolUseBlock builds a tool_use content block.
func ToolUseBlock(id, name string, input map[string]any) map[string]any {
	return map[string]any{
		"type":  "tool_use",
		"id":    id,
		"name":  name,
		"input": input,
	}
}

// GenerateBulkConversation appends alternating user/assistant text exchanges
// until the builder holds at least the given number of messages.
func (b *TranscriptBuilder) GenerateBulkConversation(messages int, text string) *TranscriptBuilder {
	for i := 0; i < messages; i += 2 {
		b.UserText(text)
		b.AssistantText(text, 0)
	}
	return b
}
