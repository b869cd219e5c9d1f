package formatter

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/penwyp/go-claude-trim/internal/presentation/display"
	"github.com/penwyp/go-claude-trim/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{
			"Session", "Project", "Size", "Tokens", "Post-Trim",
			"Reduction", "Msgs", "Tool Results", "Break-even",
		},
	}
}

func (f *TableFormatter) Format(report *Report) error {
	rows := f.buildRows(report)
	widths := f.calculateColumnWidths(rows)

	fmt.Printf("Model: %s | Cache hit rate: %.0f%% | Horizon: %d turns\n",
		report.ModelKey, report.HitRate*100, report.Horizon)

	f.printBorder(widths, "top")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "middle")

	for _, row := range rows[:len(rows)-1] {
		f.printRow(row, widths)
	}

	f.printBorder(widths, "middle")
	f.printRow(rows[len(rows)-1], widths)
	f.printBorder(widths, "bottom")

	return nil
}

// buildRows renders every data cell to a string, with a totals row last.
func (f *TableFormatter) buildRows(report *Report) [][]string {
	projectWidth := f.projectColumnBudget()

	rows := make([][]string, 0, len(report.Sessions)+1)

	var totalBytes, totalTokens, totalPostTrim, totalMessages, totalToolResults int
	for _, s := range report.Sessions {
		rows = append(rows, []string{
			shortSessionId(s.SessionId),
			runewidth.Truncate(s.ProjectName, projectWidth, "…"),
			util.FormatBytes(s.TotalBytes),
			util.FormatThousands(s.EstimatedTokens),
			util.FormatThousands(s.PostTrimTokens),
			util.FormatPercent(s.ReductionPct),
			fmt.Sprintf("%d", s.MessageCount),
			fmt.Sprintf("%d", s.ToolResultCount),
			formatBreakeven(s.Projection.Breakeven, report.Horizon),
		})

		totalBytes += s.TotalBytes
		totalTokens += s.EstimatedTokens
		totalPostTrim += s.PostTrimTokens
		totalMessages += s.MessageCount
		totalToolResults += s.ToolResultCount
	}

	var totalReduction float64
	if totalTokens > 0 {
		totalReduction = float64(totalTokens-totalPostTrim) / float64(totalTokens) * 100
	}

	rows = append(rows, []string{
		"Total",
		fmt.Sprintf("%d sessions", len(report.Sessions)),
		util.FormatBytes(totalBytes),
		util.FormatThousands(totalTokens),
		util.FormatThousands(totalPostTrim),
		util.FormatPercent(totalReduction),
		fmt.Sprintf("%d", totalMessages),
		fmt.Sprintf("%d", totalToolResults),
		"",
	})

	return rows
}

// projectColumnBudget caps the Project column so wide project names cannot
// push the table past the terminal edge.
func (f *TableFormatter) projectColumnBudget() int {
	termWidth := display.TerminalWidth()

	// Every other column is bounded; reserve a fixed allowance for them
	// plus borders and padding.
	budget := termWidth - 90
	if budget < 12 {
		budget = 12
	}
	if budget > 40 {
		budget = 40
	}
	return budget
}

func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = runewidth.StringWidth(header)
	}

	for _, row := range rows {
		for i, value := range row {
			if w := runewidth.StringWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right, separator string

	switch borderType {
	case "top":
		left, middle, right, separator = "┌", "┬", "┐", "─"
	case "middle":
		left, middle, right, separator = "├", "┼", "┤", "─"
	case "bottom":
		left, middle, right, separator = "└", "┴", "┘", "─"
	}

	fmt.Print(left)
	for i, width := range widths {
		fmt.Print(strings.Repeat(separator, width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			fmt.Print(middle)
		}
	}
	fmt.Println(right)
}

// printRow prints a data row with proper alignment
func (f *TableFormatter) printRow(values []string, widths []int) {
	fmt.Print("│")
	for i, value := range values {
		pad := widths[i] - runewidth.StringWidth(value)
		if pad < 0 {
			pad = 0
		}
		if i <= 1 {
			// Session and Project columns are left-aligned
			fmt.Printf(" %s%s │", value, strings.Repeat(" ", pad))
		} else {
			// Numeric columns are right-aligned
			fmt.Printf(" %s%s │", strings.Repeat(" ", pad), value)
		}
	}
	fmt.Println()
}

// shortSessionId keeps the leading segment of a UUID-style session id.
func shortSessionId(id string) string {
	if idx := strings.IndexByte(id, '-'); idx > 0 {
		return id[:idx]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatBreakeven(breakeven, horizon int) string {
	if breakeven >= horizon {
		return fmt.Sprintf(">%d", horizon)
	}
	return fmt.Sprintf("turn %d", breakeven)
}
