package bench

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/wt-hali/experiment-core/internal/metrics"
	"github.com/wt-hali/experiment-core/pkg/models"
)

// DefaultTimeout is the wall-clock budget for a single benchmark run.
const DefaultTimeout = 10 * time.Minute

// Executor runs one configuration against the benchmark binary and
// classifies the outcome. It spawns exactly one subprocess per call and
// never retries; retry policy belongs to whoever sequences configurations.
type Executor struct {
	Invoker       Invoker
	SimulatorPath string
	Timeout       time.Duration
	// DryRun bypasses subprocess execution and records the would-be
	// argument vector instead, for sweep validation without cost.
	DryRun bool
}

// NewExecutor creates an executor with the default subprocess invoker.
func NewExecutor(simulatorPath string, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{
		Invoker:       SubprocessInvoker{},
		SimulatorPath: simulatorPath,
		Timeout:       timeout,
	}
}

// Args translates a configuration into the benchmark's flag vector. This
// 1:1 mapping is the only protocol with the benchmark binary.
func Args(cfg models.RunConfig) []string {
	return []string{
		"--compression=" + strconv.FormatFloat(cfg.CompressionLevel, 'g', -1, 64),
		"--buffer=" + strconv.FormatFloat(cfg.BufferSize, 'g', -1, 64),
		"--dataset=" + string(cfg.DatasetType),
		"--size=" + strconv.Itoa(cfg.DatasetSize),
		"--workload=" + string(cfg.WorkloadType),
		"--operations=" + strconv.Itoa(cfg.NumOperations),
	}
}

// Run executes one configuration and returns its outcome. Failure
// classification: nonzero exit carries stderr as the cause, a timeout drops
// any partial metrics, and a launch fault is recorded as an exception.
// Per-run failures are recorded in the outcome, never returned as errors.
func (e *Executor) Run(ctx context.Context, cfg models.RunConfig) models.RunOutcome {
	args := Args(cfg)

	if e.DryRun {
		return models.RunOutcome{
			Status: models.RunStatusDryRun,
			Config: cfg,
			Args:   args,
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	inv := e.Invoker.Invoke(runCtx, e.SimulatorPath, args)

	outcome := models.RunOutcome{
		Config:         cfg,
		ElapsedSeconds: inv.WallTime.Seconds(),
	}

	switch {
	case inv.TimedOut:
		outcome.Status = models.RunStatusTimeout
		outcome.Error = fmt.Sprintf("run exceeded %s budget", e.Timeout)
	case inv.LaunchErr != nil:
		outcome.Status = models.RunStatusException
		outcome.Error = inv.LaunchErr.Error()
	case inv.ExitCode != 0:
		outcome.Status = models.RunStatusFailed
		outcome.Error = inv.Stderr
	default:
		outcome.Status = models.RunStatusSuccess
		rec := metrics.Parse(inv.Stdout)
		outcome.Metrics = &rec
	}
	return outcome
}
