package model

// Transcript entry types
const (
	EntrySummary      = "summary"
	EntrySystem       = "system"
	EntryFileHistory  = "file-history-snapshot"
	EntryQueueOp      = "queue-operation"
	EntryUser         = "user"
	EntryHuman        = "human"
	EntryAssistant    = "assistant"
)

// System entry subtypes
const (
	SubtypeCompactBoundary = "compact_boundary"
)

// Content block types
const (
	BlockToolResult = "tool_result"
	BlockThinking   = "thinking"
	BlockToolUse    = "tool_use"
	BlockText       = "text"
)

// Pricing model family keys
const (
	ModelSonnet = "sonnet"
	ModelOpus   = "opus"
	ModelOpus4  = "opus-4"
	ModelHaiku  = "haiku"
)

// FileEvent describes a change to a transcript file observed in watch mode.
type FileEvent struct {
	Path      string
	Operation string
}
