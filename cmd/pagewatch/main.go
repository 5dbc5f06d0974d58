// Package main provides the CLI entrypoint for pagewatch.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hmoravej/pagewatch/internal/aw"
	"github.com/hmoravej/pagewatch/internal/config"
	"github.com/hmoravej/pagewatch/internal/model"
	"github.com/hmoravej/pagewatch/internal/pipeline"
	"github.com/hmoravej/pagewatch/internal/plot"
	"github.com/hmoravej/pagewatch/internal/report"
	"github.com/hmoravej/pagewatch/internal/snapshot"
)

const (
	defaultTimeoutSeconds = 30
	defaultOutDir         = "."
	defaultRawSnapshot    = "zathura_activity_raw.csv"
	defaultCleanSnapshot  = "zathura_activity_cleaned.csv"
	defaultDeltaSnapshot  = "zathura_activity_delta.csv"
)

var (
	analyzeInitialFile string
	analyzeRawFile     string
	analyzeServer      string
	analyzeViewerApp   string
	analyzeLimit       int
	analyzeTimeoutSec  int
	analyzeOutDir      string
	analyzeNoPlot      bool
	analyzeNoProgress  bool

	fetchOutput     string
	fetchServer     string
	fetchViewerApp  string
	fetchLimit      int
	fetchTimeoutSec int

	cleanRawFile string
	cleanOutput  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pagewatch <book_title> <page_range>",
		Short:         "Reading-time analysis from window activity tracking",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAnalyzeCmd,
	}

	rootCmd.Flags().StringVarP(&analyzeInitialFile, "initial-file", "i", "", "raw snapshot taken before the session; report only the delta")
	rootCmd.Flags().StringVar(&analyzeRawFile, "raw-file", "", "analyze an existing raw snapshot instead of fetching")
	rootCmd.Flags().StringVar(&analyzeServer, "server", aw.DefaultServerURL, "ActivityWatch server URL")
	rootCmd.Flags().StringVar(&analyzeViewerApp, "viewer-app", aw.DefaultViewerApp, "window app id of the document viewer")
	rootCmd.Flags().IntVar(&analyzeLimit, "limit", aw.DefaultEventLimit, "maximum events to fetch per bucket")
	rootCmd.Flags().IntVar(&analyzeTimeoutSec, "timeout", defaultTimeoutSeconds, "fetch timeout in seconds")
	rootCmd.Flags().StringVar(&analyzeOutDir, "out-dir", defaultOutDir, "directory for snapshots and the chart")
	rootCmd.Flags().BoolVar(&analyzeNoPlot, "no-plot", false, "skip the PNG chart")
	rootCmd.Flags().BoolVar(&analyzeNoProgress, "no-progress", false, "disable the fetch progress bar")

	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	pattern := args[0]
	pr, err := model.ParsePageRange(args[1])
	if err != nil {
		return err
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	applyStringConfig(cmd, "server", &analyzeServer, fileCfg.Server.URL)
	applyStringConfig(cmd, "viewer-app", &analyzeViewerApp, fileCfg.Server.ViewerApp)
	applyIntConfig(cmd, "limit", &analyzeLimit, fileCfg.Server.EventLimit)
	applyIntConfig(cmd, "timeout", &analyzeTimeoutSec, fileCfg.Server.TimeoutSeconds)
	applyStringConfig(cmd, "out-dir", &analyzeOutDir, fileCfg.Analyze.OutDir)
	applyEnvString(cmd, "server", &analyzeServer, envCfg.ServerURL)
	applyEnvString(cmd, "viewer-app", &analyzeViewerApp, envCfg.ViewerApp)
	applyEnvInt(cmd, "limit", &analyzeLimit, envCfg.EventLimit)
	applyEnvString(cmd, "out-dir", &analyzeOutDir, envCfg.OutDir)

	rawName := defaultRawSnapshot
	if fileCfg.Analyze.RawSnapshot != nil {
		rawName = *fileCfg.Analyze.RawSnapshot
	}
	cleanName := defaultCleanSnapshot
	if fileCfg.Analyze.CleanedSnapshot != nil {
		cleanName = *fileCfg.Analyze.CleanedSnapshot
	}

	// Fetch (or load) the cumulative capture.
	var raws []model.RawEvent
	if analyzeRawFile != "" {
		raws, err = snapshot.ReadRaw(analyzeRawFile)
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
	} else {
		client := aw.NewClient(aw.Options{
			ServerURL: analyzeServer,
			ViewerApp: analyzeViewerApp,
			Limit:     analyzeLimit,
			Timeout:   time.Duration(analyzeTimeoutSec) * time.Second,
			Progress:  !analyzeNoProgress,
		})
		raws, err = client.FetchViewerEvents(context.Background())
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		if err := snapshot.WriteRaw(filepath.Join(analyzeOutDir, rawName), raws); err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
	}

	// Filter to the one matching book.
	events, bookTitle, err := pipeline.FilterEvents(raws, pattern, logErrf)
	if err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	// Clean into one record per page.
	cleaned := pipeline.Clean(events)
	if err := snapshot.WriteCleaned(filepath.Join(analyzeOutDir, cleanName), cleaned); err != nil {
		return fmt.Errorf("clean: %w", err)
	}

	perPage := pipeline.PageTotals(cleaned)
	session := analyzeInitialFile != ""
	if session {
		deltas, err := sessionDelta(analyzeInitialFile, bookTitle, cleaned)
		if err != nil {
			return fmt.Errorf("delta: %w", err)
		}
		if err := snapshot.WriteCleaned(filepath.Join(analyzeOutDir, defaultDeltaSnapshot), deltas); err != nil {
			return fmt.Errorf("delta: %w", err)
		}
		perPage = pipeline.PageTotals(deltas)
		var total float64
		for _, rec := range deltas {
			total += rec.TotalDuration
		}
		logErrf("session delta: %.2f min across %d pages\n", total/60, len(deltas))
	}

	result, inRange, err := pipeline.Aggregate(perPage, bookTitle, pr)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	if err := report.RenderSummary(os.Stdout, result, session); err != nil {
		return err
	}
	if err := report.RenderPageTable(os.Stdout, inRange, report.AutoBarWidth()); err != nil {
		return err
	}

	if !analyzeNoPlot {
		chartPath := filepath.Join(analyzeOutDir, plot.Filename(bookTitle, pr))
		if err := plot.RenderBar(result, inRange, chartPath); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		logErrf("chart saved: %s\n", chartPath)
	}
	return nil
}

// sessionDelta diffs the current capture against the pre-session snapshot.
// The result reuses the cleaned schema with per-page totals replaced by the
// session's incremental durations.
func sessionDelta(initialPath, bookTitle string, current []model.CleanedRecord) ([]model.CleanedRecord, error) {
	initRaw, err := snapshot.ReadRaw(initialPath)
	if err != nil {
		return nil, err
	}
	// The book is already resolved, so pin the baseline to its exact title.
	// A baseline without any matching events is an empty history, not an error.
	exact := "^" + regexp.QuoteMeta(bookTitle) + "$"
	initEvents, _, err := pipeline.FilterEvents(initRaw, exact, logErrf)
	if err != nil && !errors.Is(err, pipeline.ErrNoMatch) {
		return nil, err
	}
	initCleaned := pipeline.Clean(initEvents)

	deltas := pipeline.Delta(initCleaned, current)
	byPage := pipeline.DeltaTotals(deltas)
	out := make([]model.CleanedRecord, 0, len(current))
	for _, rec := range current {
		rec.TotalDuration = byPage[rec.Page]
		out = append(out, rec)
	}
	return out, nil
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch window activity and save a raw snapshot",
		Args:  cobra.NoArgs,
		RunE:  runFetchCmd,
	}
	cmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "snapshot path (default: raw snapshot in the current directory)")
	cmd.Flags().StringVar(&fetchServer, "server", aw.DefaultServerURL, "ActivityWatch server URL")
	cmd.Flags().StringVar(&fetchViewerApp, "viewer-app", aw.DefaultViewerApp, "window app id of the document viewer")
	cmd.Flags().IntVar(&fetchLimit, "limit", aw.DefaultEventLimit, "maximum events to fetch per bucket")
	cmd.Flags().IntVar(&fetchTimeoutSec, "timeout", defaultTimeoutSeconds, "fetch timeout in seconds")
	return cmd
}

func runFetchCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	applyStringConfig(cmd, "server", &fetchServer, fileCfg.Server.URL)
	applyStringConfig(cmd, "viewer-app", &fetchViewerApp, fileCfg.Server.ViewerApp)
	applyIntConfig(cmd, "limit", &fetchLimit, fileCfg.Server.EventLimit)
	applyIntConfig(cmd, "timeout", &fetchTimeoutSec, fileCfg.Server.TimeoutSeconds)
	applyEnvString(cmd, "server", &fetchServer, envCfg.ServerURL)
	applyEnvString(cmd, "viewer-app", &fetchViewerApp, envCfg.ViewerApp)
	applyEnvInt(cmd, "limit", &fetchLimit, envCfg.EventLimit)

	output := fetchOutput
	if output == "" {
		output = defaultRawSnapshot
	}

	client := aw.NewClient(aw.Options{
		ServerURL: fetchServer,
		ViewerApp: fetchViewerApp,
		Limit:     fetchLimit,
		Timeout:   time.Duration(fetchTimeoutSec) * time.Second,
		Progress:  true,
	})
	raws, err := client.FetchViewerEvents(context.Background())
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if err := snapshot.WriteRaw(output, raws); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	logErrf("saved %d events to %s\n", len(raws), output)
	return nil
}

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean <book_title>",
		Short: "Clean a raw snapshot into per-page records",
		Args:  cobra.ExactArgs(1),
		RunE:  runCleanCmd,
	}
	cmd.Flags().StringVar(&cleanRawFile, "raw-file", defaultRawSnapshot, "raw snapshot to clean")
	cmd.Flags().StringVarP(&cleanOutput, "output", "o", defaultCleanSnapshot, "cleaned snapshot path")
	return cmd
}

func runCleanCmd(_ *cobra.Command, args []string) error {
	raws, err := snapshot.ReadRaw(cleanRawFile)
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	events, bookTitle, err := pipeline.FilterEvents(raws, args[0], logErrf)
	if err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	cleaned := pipeline.Clean(events)
	if err := snapshot.WriteCleaned(cleanOutput, cleaned); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	logErrf("cleaned %d pages of %q into %s\n", len(cleaned), bookTitle, cleanOutput)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyEnvString(cmd *cobra.Command, name string, target *string, value string) {
	if value == "" {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyEnvInt(cmd *cobra.Command, name string, target *int, value int) {
	if value == 0 {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pagewatch configuration
# Uncomment a value to enable it. CLI flags and PAGEWATCH_* environment
# variables override config values.

[server]
# url = %q             # ActivityWatch server URL
# viewer-app = %q      # Window app id of the document viewer
# event-limit = %d     # Maximum events fetched per bucket
# timeout-seconds = %d # Fetch timeout

[analyze]
# out-dir = "."                                    # Snapshot and chart directory
# raw-snapshot = %q     # Raw snapshot file name
# cleaned-snapshot = %q # Cleaned snapshot file name
`,
		aw.DefaultServerURL,
		aw.DefaultViewerApp,
		aw.DefaultEventLimit,
		defaultTimeoutSeconds,
		defaultRawSnapshot,
		defaultCleanSnapshot,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
