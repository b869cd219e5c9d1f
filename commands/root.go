package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/penwyp/go-claude-trim/internal/analyzer"
	"github.com/penwyp/go-claude-trim/internal/data/scanner"
	"github.com/penwyp/go-claude-trim/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Data path
	dataDir string

	// Model and projection parameters
	modelName    string
	cacheHitRate float64
	turns        int

	// Filtering
	minTokens int
	limit     int

	// Output related
	outputFormat string

	// Modes
	watch bool
	reset bool

	// Pricing related
	pricingSource      string
	pricingFile        string
	pricingOfflineMode bool

	rootCmd = &cobra.Command{
		Use:   "go-claude-trim [flags]",
		Short: "Claude Code session transcript trim analyzer",
		Long: `go-claude-trim breaks down where the bytes in Claude Code session
transcripts go, estimates how many tokens a history trim would save, and
projects the prompt-cache cost of continuing each session with and without
the trim.

Examples:
  go-claude-trim                                   # Analyze with default settings
  go-claude-trim --dir /path/to/claude/projects    # Analyze specified directory
  go-claude-trim --model opus --cache-rate 0.8     # Project with opus pricing
  go-claude-trim --output summary                  # Aggregate summary report
  go-claude-trim --min-tokens 20000 --limit 10     # Ten largest heavy sessions
  go-claude-trim --watch                           # Re-analyze on file changes`,
		RunE: runAnalyze,
	}
)

const (
	defaultLogFile  = "~/.go-claude-trim/logs/app.log"
	defaultCacheDir = "~/.go-claude-trim/cache"
	defaultDataDir  = "~/.claude/projects"
)

func init() {
	// Input data configuration
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", defaultDataDir,
		"Claude project directory path")

	// Projection parameters
	rootCmd.Flags().StringVarP(&modelName, "model", "m", "sonnet",
		"Pricing model for projections (sonnet, opus, opus-4, haiku)")
	rootCmd.Flags().Float64Var(&cacheHitRate, "cache-rate", 0.9,
		"Assumed prompt cache hit rate per turn (0.0-1.0)")
	rootCmd.Flags().IntVar(&turns, "turns", 60,
		"Projection horizon in turns")

	// Filtering
	rootCmd.Flags().IntVar(&minTokens, "min-tokens", 5000,
		"Skip sessions below this estimated token count")
	rootCmd.Flags().IntVar(&limit, "limit", 0,
		"Limit result count (0 = unlimited)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.Flags().BoolVarP(&reset, "reset", "r", false,
		"Clear cache before analysis")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false,
		"Re-run the analysis when transcripts change")

	// Pricing configuration
	rootCmd.Flags().StringVar(&pricingSource, "pricing-source", "default",
		"Pricing source (default, file)")
	rootCmd.Flags().StringVar(&pricingFile, "pricing-file", "",
		"Path to a JSON pricing table (for --pricing-source file)")
	rootCmd.Flags().BoolVar(&pricingOfflineMode, "pricing-offline", false,
		"Use offline pricing mode")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	initLogging()

	// Expand paths
	dataDir = expandPath(dataDir)
	cacheDir := expandPath(defaultCacheDir)

	// Ensure cache directory exists
	if err := ensureDir(cacheDir); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Clear cache if needed
	if reset {
		if err := clearCache(cacheDir); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}

	// Create analyzer config
	config := &analyzer.Config{
		DataDir:            dataDir,
		CacheDir:           cacheDir,
		OutputFormat:       outputFormat,
		Model:              modelName,
		CacheHitRate:       cacheHitRate,
		Turns:              turns,
		MinTokens:          minTokens,
		Limit:              limit,
		Concurrency:        runtime.NumCPU(),
		PricingSource:      pricingSource,
		PricingFile:        pricingFile,
		PricingOfflineMode: pricingOfflineMode,
	}

	a := analyzer.New(config)
	if !watch {
		return a.Run()
	}
	return runWatch(a)
}

// runWatch re-runs the analysis whenever transcripts change, debounced so a
// burst of writes triggers a single pass. Interrupt to exit.
func runWatch(a *analyzer.Analyzer) error {
	if err := a.Run(); err != nil {
		util.LogError("Analysis failed: " + err.Error())
	}

	watcher, err := scanner.NewFileWatcher([]string{dataDir})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dataDir, err)
	}
	defer watcher.Close()

	util.LogInfo(fmt.Sprintf("Watching %s for changes (interrupt to exit)", dataDir))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var debounce <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			util.LogDebug(fmt.Sprintf("Transcript %s: %s", event.Operation, event.Path))
			debounce = time.After(2 * time.Second)
		case <-debounce:
			debounce = nil
			if err := a.Run(); err != nil {
				util.LogError("Analysis failed: " + err.Error())
			}
		case <-sigCh:
			return nil
		}
	}
}

func initLogging() {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create log directory %s, logging to console only: %v\n",
			filepath.Dir(logFile), err)
		util.InitLogger(logLevel, "", true)
		return
	}
	util.InitLogger(logLevel, logFile, debug)
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
