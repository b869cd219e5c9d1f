package model

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleContentUnmarshalString(t *testing.T) {
	var fc FlexibleContent
	require.NoError(t, sonic.Unmarshal([]byte(`"hello world"`), &fc))

	assert.True(t, fc.IsScalar)
	assert.Equal(t, "hello world", fc.Text)
	assert.False(t, fc.IsEmpty())
}

func TestFlexibleContentUnmarshalBlocks(t *testing.T) {
	raw := `[{"type":"text","text":"hi"},{"type":"tool_use","id":"t1","name":"Bash","input":{"command":"ls"}}]`

	var fc FlexibleContent
	require.NoError(t, sonic.Unmarshal([]byte(raw), &fc))

	assert.False(t, fc.IsScalar)
	require.Len(t, fc.Blocks, 2)
	assert.Equal(t, "text", fc.Blocks[0].Type)
	assert.Equal(t, "tool_use", fc.Blocks[1].Type)
	assert.Equal(t, "Bash", fc.Blocks[1].Name)
}

func TestFlexibleContentUnmarshalUnrecognizedShape(t *testing.T) {
	// Object-shaped or numeric content is an unrecognized payload, not a
	// parse failure: the zero value keeps the enclosing record decodable.
	var fc FlexibleContent
	assert.NoError(t, sonic.Unmarshal([]byte(`{"unusual":"shape"}`), &fc))
	assert.True(t, fc.IsEmpty())
	assert.False(t, fc.IsScalar)

	fc = FlexibleContent{}
	assert.NoError(t, sonic.Unmarshal([]byte(`42`), &fc))
	assert.True(t, fc.IsEmpty())
}

func TestFlexibleContentIsEmpty(t *testing.T) {
	assert.True(t, FlexibleContent{}.IsEmpty())
	assert.True(t, FlexibleContent{IsScalar: true}.IsEmpty())
	assert.False(t, FlexibleContent{IsScalar: true, Text: "x"}.IsEmpty())
	assert.False(t, FlexibleContent{Blocks: []ContentBlock{{Type: "text"}}}.IsEmpty())
}

func TestContentBlockRawSize(t *testing.T) {
	raw := `{"type":"tool_result","tool_use_id":"t1","content":"abcdef"}`

	var b ContentBlock
	require.NoError(t, sonic.Unmarshal([]byte(raw), &b))

	assert.Equal(t, len(raw), b.RawSize())
}

func TestContentBlockInnerTextLen(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{
			name: "string_content",
			raw:  `{"type":"tool_result","content":"abcdef"}`,
			want: 6,
		},
		{
			name: "typed_sub_blocks",
			raw:  `{"type":"tool_result","content":[{"type":"text","text":"abc"},{"type":"text","text":"de"}]}`,
			want: 5,
		},
		{
			name: "non_text_sub_blocks_ignored",
			raw:  `{"type":"tool_result","content":[{"type":"image","text":"abc"},{"type":"text","text":"de"}]}`,
			want: 2,
		},
		{
			name: "no_content",
			raw:  `{"type":"tool_result"}`,
			want: 0,
		},
		{
			name: "object_content",
			raw:  `{"type":"tool_result","content":{"k":"v"}}`,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b ContentBlock
			require.NoError(t, sonic.Unmarshal([]byte(tt.raw), &b))
			assert.Equal(t, tt.want, b.InnerTextLen())
		})
	}
}

func TestContentBlockSignatureSize(t *testing.T) {
	b := ContentBlock{Type: "thinking", Signature: "abcd"}
	assert.Equal(t, 6, b.SignatureSize(), "signature is counted JSON-quoted")

	empty := ContentBlock{Type: "thinking"}
	assert.Zero(t, empty.SignatureSize())
}

func TestTranscriptEntryEffectiveRole(t *testing.T) {
	assert.Equal(t, "user", (&TranscriptEntry{Type: "user"}).EffectiveRole())
	assert.Equal(t, "human", (&TranscriptEntry{Type: "message", Role: "human"}).EffectiveRole())
}

func TestTranscriptEntryIsCompactionBoundary(t *testing.T) {
	assert.True(t, (&TranscriptEntry{Type: "summary"}).IsCompactionBoundary())
	assert.True(t, (&TranscriptEntry{Type: "system", Subtype: "compact_boundary"}).IsCompactionBoundary())
	assert.False(t, (&TranscriptEntry{Type: "system"}).IsCompactionBoundary())
	assert.False(t, (&TranscriptEntry{Type: "user"}).IsCompactionBoundary())
}

func TestTranscriptEntryEffectiveContentPrefersMessage(t *testing.T) {
	entry := &TranscriptEntry{
		Content: FlexibleContent{IsScalar: true, Text: "outer"},
		Message: &Message{Content: FlexibleContent{IsScalar: true, Text: "inner"}},
	}

	content := entry.EffectiveContent()
	require.NotNil(t, content)
	assert.Equal(t, "inner", content.Text)
}

func TestTranscriptEntryEffectiveContentFallsBack(t *testing.T) {
	entry := &TranscriptEntry{
		Content: FlexibleContent{IsScalar: true, Text: "outer"},
		Message: &Message{},
	}

	content := entry.EffectiveContent()
	require.NotNil(t, content)
	assert.Equal(t, "outer", content.Text)

	assert.Nil(t, (&TranscriptEntry{}).EffectiveContent())
}

func TestTranscriptEntryEffectiveUsage(t *testing.T) {
	inner := &Usage{InputTokens: 1}
	outer := &Usage{InputTokens: 2}

	entry := &TranscriptEntry{Usage: outer, Message: &Message{Usage: inner}}
	assert.Same(t, inner, entry.EffectiveUsage())

	entry = &TranscriptEntry{Usage: outer}
	assert.Same(t, outer, entry.EffectiveUsage())

	assert.Nil(t, (&TranscriptEntry{}).EffectiveUsage())
}

func TestUsageCombinedInputTokens(t *testing.T) {
	u := &Usage{InputTokens: 100, CacheCreationInputTokens: 2000, CacheReadInputTokens: 30000, OutputTokens: 999}
	assert.Equal(t, 32100, u.CombinedInputTokens())
}

func TestSessionAnalysisCategorizedBytes(t *testing.T) {
	s := &SessionAnalysis{
		ToolResultBytes:   10,
		ThinkingBytes:     20,
		FileHistoryBytes:  30,
		ToolUseBytes:      40,
		ConversationBytes: 50,
		OtherBytes:        60,
	}
	assert.Equal(t, 210, s.CategorizedBytes())
}
