package model

// SessionAnalysis is the finished, immutable result of categorizing one
// session transcript. The five explicit byte buckets plus "other" never sum
// to more than TotalBytes; PostTrimTokens never exceeds EstimatedTokens.
type SessionAnalysis struct {
	Path        string `json:"path"`
	SessionId   string `json:"sessionId"`
	ProjectName string `json:"projectName"`

	TotalBytes      int `json:"totalBytes"`
	EstimatedTokens int `json:"estimatedTokens"`
	MessageCount    int `json:"messageCount"`

	// Byte breakdown by category
	ToolResultBytes   int `json:"toolResultBytes"`
	ToolResultCount   int `json:"toolResultCount"`
	ThinkingBytes     int `json:"thinkingBytes"`
	ThinkingCount     int `json:"thinkingCount"`
	FileHistoryBytes  int `json:"fileHistoryBytes"`
	FileHistoryCount  int `json:"fileHistoryCount"`
	ToolUseBytes      int `json:"toolUseBytes"`
	ToolUseCount      int `json:"toolUseCount"`
	ConversationBytes int `json:"conversationBytes"`
	OtherBytes        int `json:"otherBytes"`

	// Derived by the trim estimator
	PostTrimTokens int     `json:"postTrimTokens"`
	ReductionPct   float64 `json:"reductionPct"`
}

// CategorizedBytes returns the sum of the explicit category byte buckets.
func (s *SessionAnalysis) CategorizedBytes() int {
	return s.ToolResultBytes + s.ThinkingBytes + s.FileHistoryBytes +
		s.ToolUseBytes + s.ConversationBytes + s.OtherBytes
}

// CacheCostProjection holds turn-indexed cumulative input cost curves for a
// session, with and without trimming, under a prompt-caching billing model.
// Breakeven is the first turn at which the trimmed strategy is no more
// expensive, saturated at the projection horizon.
type CacheCostProjection struct {
	Turns     []int     `json:"turns"`
	NoTrim    []float64 `json:"noTrim"`
	WithTrim  []float64 `json:"withTrim"`
	Breakeven int       `json:"breakeven"`
}
