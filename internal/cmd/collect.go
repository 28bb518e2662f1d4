package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kortkat/kortkollect/internal/collector"
	"github.com/kortkat/kortkollect/internal/config"
	"github.com/kortkat/kortkollect/internal/display"
	"github.com/kortkat/kortkollect/internal/index"
	"github.com/kortkat/kortkollect/internal/logger"
	"github.com/kortkat/kortkollect/internal/marker"
)

// NewCollectCommand creates the collect command
func NewCollectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect <root-dir> <marker-glob> <output-dir>",
		Short: "Collect images matching failed job markers into an output directory",
		Long: `Collect the source images of failed batch jobs for a rerun batch.

The collect command indexes every image file under <root-dir> (recursively),
expands <marker-glob> to a set of error-marker files, extracts the leading
<digits>_<digits> job identifier from each marker filename, and copies the
matching image into <output-dir>.

Each marker is processed independently: markers whose identifier has no
index entry produce a "not found" warning, markers whose indexed file has
disappeared produce an "index mismatch" error, and marker names without a
leading identifier produce a "malformed marker name" warning. None of these
halt the batch.

A transient index file is kept inside <output-dir> during the run and is
removed when the run ends, including on interrupt.

Configuration is loaded from .kortkollect/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  # Collect images for all parse failures
  kortkollect collect ./images './jobs/extract/fail/*.parse_error' ./rerun

  # Collect every failure kind, fail the run if anything was unresolved
  kortkollect collect ./images './jobs/extract/fail/*' ./rerun --strict

  # Verbose output with a custom log directory
  kortkollect collect ./images './fail/*' ./rerun --verbose --log-dir ./logs`,
		Args: cobra.ExactArgs(3),
		RunE: runCollect,
	}

	// Add flags
	cmd.Flags().String("config", "", "Path to config file (default: .kortkollect/config.yaml)")
	cmd.Flags().String("log-level", "", "Log verbosity (trace, debug, info, warn, error)")
	cmd.Flags().String("log-dir", "", "Directory for run log files")
	cmd.Flags().Bool("verbose", false, "Show per-image collection details")
	cmd.Flags().Bool("strict", false, "Exit non-zero when any marker could not be resolved")

	return cmd
}

// runCollect implements the collect command logic
func runCollect(cmd *cobra.Command, args []string) error {
	rootDir := args[0]
	markerPattern := args[1]
	outputDir := args[2]

	// Load configuration from file
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	// Build flag pointers for merge (only changed values)
	var logLevelPtr *string
	if cmd.Flags().Changed("log-level") {
		logLevel, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &logLevel
	}

	var logDirPtr *string
	if cmd.Flags().Changed("log-dir") {
		logDir, _ := cmd.Flags().GetString("log-dir")
		logDirPtr = &logDir
	}

	var strictPtr *bool
	if cmd.Flags().Changed("strict") {
		strict, _ := cmd.Flags().GetBool("strict")
		strictPtr = &strict
	}

	// Merge CLI flags with config (flags take precedence)
	cfg.MergeWithFlags(logLevelPtr, logDirPtr, strictPtr)

	// Validate merged configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Determine log level: verbose flag overrides config
	logLevel := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logLevel = "debug"
	}

	runID := uuid.New().String()

	// Create console logger for real-time progress
	consoleLog := logger.NewConsoleLogger(os.Stdout, logLevel)

	// Create file logger for the per-run log
	fileLog, err := logger.NewFileLogger(cfg.LogDir, logLevel, runID)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer fileLog.Close()

	// Log to both console and file
	log := &multiLogger{loggers: []runLogger{consoleLog, fileLog}}

	// Cancel on interrupt so the deferred index cleanup still runs
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Phase 1: build the image index
	log.LogPhaseStart("indexing", fmt.Sprintf("scanning %s", rootDir))
	indexStart := time.Now()

	ix, err := index.Build(rootDir, outputDir, cfg.Extensions)
	if err != nil {
		return fmt.Errorf("failed to build image index: %w", err)
	}
	defer ix.Close()

	log.LogPhaseComplete("indexing", time.Since(indexStart))
	log.LogInfo(fmt.Sprintf("Indexed %d image(s)", ix.Len()))

	if ix.Len() == 0 {
		display.WarnEmptyIndex(rootDir).Display(cmd.OutOrStdout())
	}

	// Expand the marker pattern
	markerPaths, err := marker.Expand(markerPattern)
	if err != nil {
		return err
	}
	if len(markerPaths) == 0 {
		display.WarnNoMarkers(markerPattern).Display(cmd.OutOrStdout())
	}

	// Phase 2: match markers and collect images
	log.LogPhaseStart("collection", fmt.Sprintf("%d marker(s)", len(markerPaths)))

	coll := collector.New(ix, outputDir, log)
	result, collectErr := coll.Collect(ctx, runID, markerPaths)

	log.LogPhaseComplete("collection", result.Duration)
	log.LogSummary(result)

	// Write the run report next to the collected images
	if err := collector.WriteReport(outputDir, result); err != nil {
		log.LogError(fmt.Sprintf("Failed to write run report: %v", err))
	}

	// Release scratch state before reporting the final status
	if err := ix.Close(); err != nil {
		log.LogError(err.Error())
	}

	if collectErr != nil {
		return fmt.Errorf("collection interrupted: %w", collectErr)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nCollection complete: %d of %d marker(s) resolved.\n", result.Copied, result.Total())
	fmt.Fprintf(cmd.OutOrStdout(), "Run log: %s\n", fileLog.RunFile())

	if cfg.Strict && result.Failures() > 0 {
		return fmt.Errorf("%d marker(s) could not be resolved", result.Failures())
	}

	return nil
}
