package bench

import (
	"context"

	"github.com/wt-hali/experiment-core/internal/store"
	"github.com/wt-hali/experiment-core/pkg/logger"
	"github.com/wt-hali/experiment-core/pkg/models"
)

// Sweeper runs a batch of configurations strictly sequentially, in
// generation order. The benchmark is sensitive to system load and is never
// run concurrently with itself.
type Sweeper struct {
	Executor *Executor
	Store    *store.ResultStore
}

// Summary tallies a completed sweep for the final report.
type Summary struct {
	Total     int
	Success   int
	Failed    int
	Timeout   int
	Exception int
	DryRun    int
}

// SummaryFrom tallies the recorded outcomes of a sweep. Total is the number
// of configurations the sweep set out to run; it exceeds the sum of the
// status counts when the sweep stopped early.
func SummaryFrom(total int, rs models.ResultSet) Summary {
	counts := rs.CountByStatus()
	return Summary{
		Total:     total,
		Success:   counts[models.RunStatusSuccess],
		Failed:    counts[models.RunStatusFailed],
		Timeout:   counts[models.RunStatusTimeout],
		Exception: counts[models.RunStatusException],
		DryRun:    counts[models.RunStatusDryRun],
	}
}

// Run executes every configuration, appending each outcome to the store
// (which checkpoints on its own schedule) and writing the final artifact
// at the end. Per-run failures never abort the sweep; only a storage
// failure or context cancellation does.
func (s *Sweeper) Run(ctx context.Context, configs []models.RunConfig) (Summary, error) {
	for i, cfg := range configs {
		if err := ctx.Err(); err != nil {
			return s.summary(len(configs)), err
		}

		logger.Info("running experiment",
			"progress", i+1, "total", len(configs),
			"name", cfg.Name,
			"compression", cfg.CompressionLevel,
			"buffer", cfg.BufferSize,
			"dataset", cfg.DatasetType,
			"size", cfg.DatasetSize,
			"workload", cfg.WorkloadType)

		outcome := s.Executor.Run(ctx, cfg)

		switch outcome.Status {
		case models.RunStatusFailed:
			logger.Error("experiment failed", "name", cfg.Name, "stderr", outcome.Error)
		case models.RunStatusTimeout:
			logger.Error("experiment timed out", "name", cfg.Name)
		case models.RunStatusException:
			logger.Error("experiment could not be launched", "name", cfg.Name, "error", outcome.Error)
		}

		if err := s.Store.Append(outcome); err != nil {
			// Unrecoverable storage failure: continuing would lose results.
			return s.summary(len(configs)), err
		}
	}

	if err := s.Store.SaveFinal(); err != nil {
		return s.summary(len(configs)), err
	}
	return s.summary(len(configs)), nil
}

// summary reflects what the store actually recorded, so a run lost to a
// storage failure is not reported as completed.
func (s *Sweeper) summary(total int) Summary {
	return SummaryFrom(total, s.Store.Results())
}
