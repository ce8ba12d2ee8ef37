package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/prism/internal/pipeline"
	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/logger"
	"github.com/ajitpratap0/prism/pkg/pca"
	"github.com/ajitpratap0/prism/pkg/source"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "prism",
		Short: "Prism - Principal component analysis for tabular data",
		Long: `Prism decomposes tabular datasets into their principal components.
It reads a CSV, cleans it to a numeric matrix, standardizes each column,
computes a singular value decomposition, and writes scores, loadings,
and explained-variance artifacts for downstream analysis.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Prism v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available source readers and selection policies",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Available Source Readers:")
			for _, kind := range source.List() {
				fmt.Printf("  - %s\n", kind)
			}
			fmt.Println("\nAvailable Selection Policies:")
			for _, policy := range []pca.Policy{pca.PolicyCumulative, pca.PolicyKaiser} {
				fmt.Printf("  - %s\n", policy)
			}
		},
	})

	var configFiles []string
	var workers int
	var timeout time.Duration
	var logLevel, outputDir string
	var plots, compress bool

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one or more analysis pipelines",
		Long: `Run the analysis pipelines described by the given YAML configuration
files. Multiple --config flags run concurrently, bounded by --workers.

Example:
  prism run --config food.yaml --config wine.yaml --workers 2 --plots`,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := &runOverrides{
				logLevel:    logLevel,
				outputDir:   outputDir,
				plots:       cmd.Flags().Changed("plots"),
				plotsValue:  plots,
				compress:    cmd.Flags().Changed("compress"),
				compressVal: compress,
			}
			return runPipelines(configFiles, workers, timeout, overrides)
		},
	}

	runCmd.Flags().StringSliceVarP(&configFiles, "config", "c", nil, "Path to pipeline configuration YAML file (repeatable, required)")
	_ = runCmd.MarkFlagRequired("config")

	runCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Maximum pipelines running concurrently")
	runCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Overall timeout for all pipelines")
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "", "Artifact directory override")
	runCmd.Flags().BoolVar(&plots, "plots", false, "Render scree plot and biplot alongside artifacts")
	runCmd.Flags().BoolVar(&compress, "compress", false, "Gzip every written artifact")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runOverrides carries command-line settings that take precedence over
// the configuration files.
type runOverrides struct {
	logLevel    string
	outputDir   string
	plots       bool
	plotsValue  bool
	compress    bool
	compressVal bool
}

func (o *runOverrides) apply(cfg *config.PipelineConfig) {
	if o.logLevel != "" {
		cfg.Observability.LogLevel = o.logLevel
	}
	if o.outputDir != "" {
		cfg.Output.Dir = o.outputDir
	}
	if o.plots {
		cfg.Output.Plots = o.plotsValue
	}
	if o.compress {
		cfg.Output.Compress = o.compressVal
	}
}

// runPipelines loads every configuration file, applies overrides, and
// executes the runs concurrently.
func runPipelines(configFiles []string, workers int, timeout time.Duration, overrides *runOverrides) error {
	cfgs := make([]*config.PipelineConfig, 0, len(configFiles))
	for _, path := range configFiles {
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("configuration error in %s: %w", path, err)
		}
		overrides.apply(cfg)
		cfgs = append(cfgs, cfg)
	}

	if err := logger.Init(logger.Config{
		Level:       cfgs[0].Observability.LogLevel,
		Development: cfgs[0].Observability.Development,
		Encoding:    "console",
	}); err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get().With(zap.String("component", "prism-cli"))
	log.Info("starting pipelines",
		zap.Int("pipelines", len(cfgs)),
		zap.Int("workers", workers))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	startTime := time.Now()
	results, err := pipeline.RunAll(ctx, cfgs, workers)
	if err != nil {
		return fmt.Errorf("pipeline execution failed: %w", err)
	}

	for _, result := range results {
		log.Info("pipeline summary",
			zap.String("dataset", result.Dataset),
			zap.Int("rows", result.Rows),
			zap.Int("cols", result.Cols),
			zap.Int("rank", result.Rank),
			zap.Int("selected", result.Selected),
			zap.Float64("captured", result.Captured),
			zap.Strings("warnings", result.Warnings),
			zap.Duration("duration", result.Duration))
	}

	log.Info("all pipelines completed",
		zap.Int("pipelines", len(results)),
		zap.Duration("duration", time.Since(startTime)))
	return nil
}
