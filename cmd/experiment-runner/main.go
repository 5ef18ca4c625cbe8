package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/wt-hali/experiment-core/internal/bench"
	"github.com/wt-hali/experiment-core/internal/store"
	"github.com/wt-hali/experiment-core/internal/sweep"
	"github.com/wt-hali/experiment-core/pkg/config"
	"github.com/wt-hali/experiment-core/pkg/logger"
)

func main() {
	var phase string
	var configPath string
	var simulatorPath string
	var dryRun bool
	var limit int
	var assumeYes bool
	var logLevel string

	flag.StringVar(&phase, "phase", "all", "sweep phase to run ("+strings.Join(sweep.Phases(), ", ")+", all)")
	flag.StringVar(&configPath, "config", "", "path to YAML configuration (defaults apply when omitted)")
	flag.StringVar(&simulatorPath, "simulator", "", "path to the benchmark binary (overrides config)")
	flag.BoolVar(&dryRun, "dry-run", false, "print the generated configurations without executing")
	flag.IntVar(&limit, "limit", 0, "run at most N configurations (0 = all)")
	flag.BoolVar(&assumeYes, "yes", false, "skip the confirmation prompt")
	flag.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error; overrides config)")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if simulatorPath != "" {
		cfg.SimulatorPath = simulatorPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger.SetDefault(logger.NewText(cfg.LogLevel, os.Stdout))

	configs, err := sweep.Generate(phase, cfg)
	if err != nil {
		if errors.Is(err, sweep.ErrUnknownPhase) {
			logger.Error("unknown phase", "phase", phase, "known", sweep.Phases())
		} else {
			logger.Error("generate configurations", "error", err)
		}
		os.Exit(1)
	}
	if limit > 0 && limit < len(configs) {
		configs = configs[:limit]
	}

	if dryRun {
		fmt.Printf("Phase %s: %d configurations\n", phase, len(configs))
		for _, c := range configs {
			fmt.Printf("  %s  %s\n", c.Name, strings.Join(bench.Args(c), " "))
		}
		return
	}

	if !assumeYes && !confirm(len(configs)) {
		logger.Info("sweep aborted by operator")
		return
	}

	timeout, err := cfg.GetRunTimeout()
	if err != nil {
		logger.Error("invalid run timeout", "value", cfg.RunTimeout, "error", err)
		os.Exit(1)
	}

	rs, err := store.NewResultStore(cfg.ResultsDir, phase, cfg.CheckpointEvery)
	if err != nil {
		logger.Error("init result store", "dir", cfg.ResultsDir, "error", err)
		os.Exit(1)
	}
	if cfg.ArchivePath != "" {
		archive, err := store.OpenArchive(cfg.ArchivePath)
		if err != nil {
			logger.Error("open archive", "path", cfg.ArchivePath, "error", err)
			os.Exit(1)
		}
		defer archive.Close()
		rs = rs.WithArchive(archive)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := &bench.Sweeper{
		Executor: bench.NewExecutor(cfg.SimulatorPath, timeout),
		Store:    rs,
	}

	logger.Info("starting sweep",
		"phase", phase,
		"configurations", len(configs),
		"simulator", cfg.SimulatorPath,
		"results_dir", cfg.ResultsDir,
		"timeout", timeout)

	summary, err := sweeper.Run(ctx, configs)
	if err != nil {
		logger.Error("sweep stopped", "error", err,
			"completed", summary.Success+summary.Failed+summary.Timeout+summary.Exception)
		os.Exit(1)
	}

	logger.Info("sweep complete",
		"phase", phase,
		"total", summary.Total,
		"success", summary.Success,
		"failed", summary.Failed,
		"timeout", summary.Timeout,
		"exception", summary.Exception)
	logger.Info("results written",
		"final", store.FinalPath(cfg.ResultsDir, phase),
		"checkpoint", store.CheckpointPath(cfg.ResultsDir, phase))
}

func confirm(n int) bool {
	fmt.Printf("Run %d experiments? (yes/no): ", n)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "yes" || answer == "y"
}
