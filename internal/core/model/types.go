package model

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

// TranscriptEntry is one decoded event from a session transcript. Claude Code
// writes one JSON object per line; the shapes are duck-typed, so every field
// here is optional and the zero value means "absent".
type TranscriptEntry struct {
	Type      string          `json:"type"`
	Subtype   string          `json:"subtype,omitempty"`
	Role      string          `json:"role,omitempty"`
	Summary   string          `json:"summary,omitempty"`
	Content   FlexibleContent `json:"content,omitempty"`
	Message   *Message        `json:"message,omitempty"`
	Usage     *Usage          `json:"usage,omitempty"`
	SessionId string          `json:"sessionId,omitempty"`
	Uuid      string          `json:"uuid,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// EffectiveRole returns the conversational role of the entry. Claude Code
// records carry the role either in a top-level "role" field or as the record
// type itself ("user", "assistant", "system", ...).
func (e *TranscriptEntry) EffectiveRole() string {
	if e.Role != "" {
		return e.Role
	}
	return e.Type
}

// IsCompactionBoundary reports whether this entry marks the point where the
// host discarded prior context and replaced it with a condensed summary.
func (e *TranscriptEntry) IsCompactionBoundary() bool {
	return e.Type == EntrySummary ||
		(e.Type == EntrySystem && e.Subtype == SubtypeCompactBoundary)
}

// EffectiveContent returns the content payload of the entry, preferring the
// nested message content over the top-level one.
func (e *TranscriptEntry) EffectiveContent() *FlexibleContent {
	if e.Message != nil && !e.Message.Content.IsEmpty() {
		return &e.Message.Content
	}
	if !e.Content.IsEmpty() {
		return &e.Content
	}
	return nil
}

// EffectiveUsage returns the API usage block of the entry, preferring the
// nested message usage over the top-level one.
func (e *TranscriptEntry) EffectiveUsage() *Usage {
	if e.Message != nil && e.Message.Usage != nil {
		return e.Message.Usage
	}
	return e.Usage
}

type Message struct {
	Content    FlexibleContent `json:"content,omitempty"`
	Id         string          `json:"id,omitempty"`
	Model      string          `json:"model,omitempty"`
	Role       string          `json:"role,omitempty"`
	StopReason *string         `json:"stop_reason,omitempty"`
	Type       string          `json:"type,omitempty"`
	Usage      *Usage          `json:"usage,omitempty"`
}

// FlexibleContent holds a message content payload that is either a plain
// string or an ordered list of typed content blocks.
type FlexibleContent struct {
	Text     string
	Blocks   []ContentBlock
	IsScalar bool
}

func (fc *FlexibleContent) UnmarshalJSON(data []byte) error {
	// First try to parse as a block array
	var blocks []ContentBlock
	if err := sonic.Unmarshal(data, &blocks); err == nil {
		fc.Blocks = blocks
		return nil
	}

	// If array parsing fails, try to parse as string
	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		fc.Text = str
		fc.IsScalar = true
		return nil
	}

	// Any other shape is an unrecognized content payload. Keep the zero
	// value so the enclosing record still classifies normally; the bytes
	// are counted, the semantics skipped.
	return nil
}

func (fc FlexibleContent) IsEmpty() bool {
	if fc.IsScalar {
		return fc.Text == ""
	}
	return len(fc.Blocks) == 0
}

// ContentBlock is one typed block inside a message content list. The raw
// serialized length of the block is captured during decoding so the
// categorization pass can attribute its exact byte cost.
type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Thinking  string          `json:"thinking,omitempty"`
	Signature string          `json:"signature,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	Id        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	ToolUseId string          `json:"tool_use_id,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`

	rawSize int
}

func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	type blockAlias ContentBlock
	var a blockAlias
	if err := sonic.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = ContentBlock(a)
	b.rawSize = len(data)
	return nil
}

// RawSize returns the serialized byte length of the block as it appeared in
// the transcript line.
func (b *ContentBlock) RawSize() int {
	return b.rawSize
}

// InnerTextLen returns the character length of a tool_result payload: either
// a bare string or the concatenated text sub-blocks of a typed list.
func (b *ContentBlock) InnerTextLen() int {
	if len(b.Content) == 0 {
		return 0
	}

	var str string
	if err := sonic.Unmarshal(b.Content, &str); err == nil {
		return len(str)
	}

	var subs []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := sonic.Unmarshal(b.Content, &subs); err == nil {
		total := 0
		for _, sub := range subs {
			if sub.Type == BlockText {
				total += len(sub.Text)
			}
		}
		return total
	}

	return 0
}

// SignatureSize returns the serialized byte length of the thinking signature
// payload, or zero when the block carries none.
func (b *ContentBlock) SignatureSize() int {
	if b.Signature == "" {
		return 0
	}
	quoted, err := sonic.Marshal(b.Signature)
	if err != nil {
		return 0
	}
	return len(quoted)
}

type Usage struct {
	InputTokens              int    `json:"input_tokens"`
	OutputTokens             int    `json:"output_tokens"`
	CacheCreationInputTokens int    `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int    `json:"cache_read_input_tokens"`
	ServiceTier              string `json:"service_tier,omitempty"`
}

// CombinedInputTokens is the total prompt size the API reported for the
// turn: fresh input plus everything written to or read from the cache.
func (u *Usage) CombinedInputTokens() int {
	return u.InputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
}
