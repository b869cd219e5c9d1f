package commands

import (
	"context"
	"fmt"

	"github.com/penwyp/go-claude-trim/internal/core/pricing"
	"github.com/penwyp/go-claude-trim/internal/core/projection"
	"github.com/penwyp/go-claude-trim/internal/data/parser"
	"github.com/penwyp/go-claude-trim/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Inspect command flags
	inspectModel          string
	inspectCacheRate      float64
	inspectTurns          int
	inspectPricingSource  string
	inspectPricingFile    string
	inspectPricingOffline bool
)

var inspectCmd = &cobra.Command{
	Use:    "inspect <transcript.jsonl>",
	Short:  "Debug command to break down a single session transcript",
	Long:   `Analyzes one session transcript and prints its full byte breakdown and cost projection without the report pipeline.`,
	Hidden: true, // Hidden from help
	Args:   cobra.ExactArgs(1),
	RunE:   runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectModel, "model", "sonnet",
		"Pricing model for projections (sonnet, opus, opus-4, haiku)")
	inspectCmd.Flags().Float64Var(&inspectCacheRate, "cache-rate", 0.9,
		"Assumed prompt cache hit rate per turn (0.0-1.0)")
	inspectCmd.Flags().IntVar(&inspectTurns, "turns", 60,
		"Projection horizon in turns")

	inspectCmd.Flags().StringVar(&inspectPricingSource, "pricing-source", "default",
		"Pricing source (default, file)")
	inspectCmd.Flags().StringVar(&inspectPricingFile, "pricing-file", "",
		"Path to a JSON pricing table (for --pricing-source file)")
	inspectCmd.Flags().BoolVar(&inspectPricingOffline, "pricing-offline", false,
		"Use offline pricing mode")
}

func runInspect(cmd *cobra.Command, args []string) error {
	initLogging()

	path := expandPath(args[0])

	modelKey := util.NormalizeModelKey(inspectModel)
	if modelKey == "" {
		return fmt.Errorf("unsupported model %q", inspectModel)
	}

	p := parser.NewParser(1)
	analysis, err := p.AnalyzeFile(path)
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", path, err)
	}
	if analysis == nil {
		fmt.Println("Session rejected: too small or too few messages")
		return nil
	}

	provider, err := pricing.CreatePricingProvider(&pricing.SourceConfig{
		PricingSource:      inspectPricingSource,
		PricingOfflineMode: inspectPricingOffline,
	}, inspectPricingFile)
	if err != nil {
		return err
	}
	modelPricing, err := provider.GetPricing(context.Background(), modelKey)
	if err != nil {
		return err
	}

	fmt.Printf("Session:  %s\n", analysis.SessionId)
	fmt.Printf("Project:  %s\n", analysis.ProjectName)
	fmt.Printf("Messages: %d\n", analysis.MessageCount)
	fmt.Println()

	fmt.Println("Byte breakdown:")
	printBucket("Tool Results", analysis.ToolResultBytes, analysis.ToolResultCount, analysis.TotalBytes)
	printBucket("Thinking", analysis.ThinkingBytes, analysis.ThinkingCount, analysis.TotalBytes)
	printBucket("File History", analysis.FileHistoryBytes, analysis.FileHistoryCount, analysis.TotalBytes)
	printBucket("Tool Use", analysis.ToolUseBytes, analysis.ToolUseCount, analysis.TotalBytes)
	printBucket("Conversation", analysis.ConversationBytes, 0, analysis.TotalBytes)
	printBucket("Other", analysis.OtherBytes, 0, analysis.TotalBytes)
	fmt.Printf("  %-14s %10s\n", "Total", util.FormatBytes(analysis.TotalBytes))
	fmt.Println()

	fmt.Println("Trim estimate:")
	fmt.Printf("  Estimated tokens: %s\n", util.FormatThousands(analysis.EstimatedTokens))
	fmt.Printf("  Post-trim tokens: %s\n", util.FormatThousands(analysis.PostTrimTokens))
	fmt.Printf("  Reduction:        %s\n", util.FormatPercent(analysis.ReductionPct))
	fmt.Println()

	proj := projection.Project(analysis.EstimatedTokens, analysis.PostTrimTokens,
		modelPricing, inspectCacheRate, inspectTurns)

	fmt.Printf("Cost projection (%s, hit rate %.0f%%):\n", modelKey, inspectCacheRate*100)
	for i := range proj.Turns {
		fmt.Printf("  Turn %-3d  no-trim %s  with-trim %s\n",
			proj.Turns[i],
			util.FormatCurrency(proj.NoTrim[i]),
			util.FormatCurrency(proj.WithTrim[i]))
	}
	fmt.Printf("Break-even turn: %d\n", proj.Breakeven)

	return nil
}

func printBucket(name string, bytes, count, total int) {
	share := 0.0
	if total > 0 {
		share = float64(bytes) / float64(total) * 100
	}
	if count > 0 {
		fmt.Printf("  %-14s %10s  %6s  (%d blocks)\n", name, util.FormatBytes(bytes), util.FormatPercent(share), count)
	} else {
		fmt.Printf("  %-14s %10s  %6s\n", name, util.FormatBytes(bytes), util.FormatPercent(share))
	}
}
