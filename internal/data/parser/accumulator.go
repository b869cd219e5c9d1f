package parser

import (
	"github.com/penwyp/go-claude-trim/internal/core/model"
)

// accumulator holds the running per-session counters of one categorization
// pass. It is an explicit local value owned by a single pass; a compaction
// boundary replaces it wholesale with a fresh zero value, so no partial
// reset state is ever observable.
type accumulator struct {
	totalBytes int

	toolResultBytes  int
	toolResultCount  int
	thinkingBytes    int
	thinkingCount    int
	fileHistoryBytes int
	fileHistoryCount int
	toolUseBytes     int
	toolUseCount     int

	conversationBytes int
	otherBytes        int

	contentChars      int
	userMessages      int
	assistantMessages int

	// Token checkpoint: the most recent API-reported total input token
	// figure, and the content-character count at the moment it was recorded.
	hasCheckpoint     bool
	checkpointTokens  int
	charsAtCheckpoint int
}

func (a *accumulator) messageCount() int {
	return a.userMessages + a.assistantMessages
}

// checkpoint records an API-reported token figure when it is positive and
// differs from the previous reading, anchoring later estimation to ground
// truth without re-anchoring on repeated identical figures.
func (a *accumulator) checkpoint(combinedTokens int) {
	if combinedTokens <= 0 {
		return
	}
	if a.hasCheckpoint && combinedTokens == a.checkpointTokens {
		return
	}
	a.hasCheckpoint = true
	a.checkpointTokens = combinedTokens
	a.charsAtCheckpoint = a.contentChars
}

// snapshot copies the byte counters into a SessionAnalysis shell.
func (a *accumulator) snapshot(s *model.SessionAnalysis) {
	s.TotalBytes = a.totalBytes
	s.MessageCount = a.messageCount()
	s.ToolResultBytes = a.toolResultBytes
	s.ToolResultCount = a.toolResultCount
	s.ThinkingBytes = a.thinkingBytes
	s.ThinkingCount = a.thinkingCount
	s.FileHistoryBytes = a.fileHistoryBytes
	s.FileHistoryCount = a.fileHistoryCount
	s.ToolUseBytes = a.toolUseBytes
	s.ToolUseCount = a.toolUseCount
	s.ConversationBytes = a.conversationBytes
	s.OtherBytes = a.otherBytes
}
