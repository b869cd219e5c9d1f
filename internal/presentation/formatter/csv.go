package formatter

import (
	"encoding/csv"
	"fmt"
	"os"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(report *Report) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	headers := []string{
		"Session", "Project", "Total Bytes", "Estimated Tokens", "Post-Trim Tokens",
		"Reduction (%)", "Messages", "Tool Results", "Tool Result Bytes",
		"Thinking Bytes", "File History Bytes", "Tool Use Bytes",
		"Conversation Bytes", "Other Bytes", "Break-even Turn",
	}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, s := range report.Sessions {
		record := []string{
			s.SessionId,
			s.ProjectName,
			fmt.Sprintf("%d", s.TotalBytes),
			fmt.Sprintf("%d", s.EstimatedTokens),
			fmt.Sprintf("%d", s.PostTrimTokens),
			fmt.Sprintf("%.1f", s.ReductionPct),
			fmt.Sprintf("%d", s.MessageCount),
			fmt.Sprintf("%d", s.ToolResultCount),
			fmt.Sprintf("%d", s.ToolResultBytes),
			fmt.Sprintf("%d", s.ThinkingBytes),
			fmt.Sprintf("%d", s.FileHistoryBytes),
			fmt.Sprintf("%d", s.ToolUseBytes),
			fmt.Sprintf("%d", s.ConversationBytes),
			fmt.Sprintf("%d", s.OtherBytes),
			fmt.Sprintf("%d", s.Projection.Breakeven),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}
