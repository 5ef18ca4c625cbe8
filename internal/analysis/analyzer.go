package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/wt-hali/experiment-core/pkg/models"
)

// ErrEmptyResultSet is returned when a result set holds no successful
// outcomes with the metrics an analysis needs.
var ErrEmptyResultSet = errors.New("analysis: no successful outcomes with usable metrics")

// CompressionSweep selects, for each dataset size present in the result set,
// the compression level with the lowest mean lookup latency. Selections are
// ordered by ascending dataset size.
func CompressionSweep(rs models.ResultSet) ([]models.SelectionRecord, error) {
	succ := rs.Successes()
	if len(succ) == 0 {
		return nil, ErrEmptyResultSet
	}

	partitions := map[int]models.ResultSet{}
	for _, o := range succ {
		partitions[o.Config.DatasetSize] = append(partitions[o.Config.DatasetSize], o)
	}

	sizes := make([]int, 0, len(partitions))
	for size := range partitions {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	obj := &LookupLatencyObjective{}
	selections := make([]models.SelectionRecord, 0, len(sizes))
	for _, size := range sizes {
		best, ok := selectBest(partitions[size], obj)
		if !ok {
			continue
		}
		selections = append(selections, models.SelectionRecord{
			DatasetSize:   size,
			Value:         best.Config.CompressionLevel,
			Metrics:       *best.Metrics,
			Justification: fmt.Sprintf("Minimizes lookup latency for %s keys", groupThousands(size)),
		})
	}
	if len(selections) == 0 {
		return nil, ErrEmptyResultSet
	}
	return selections, nil
}

// BufferSweep selects, for each workload present in the result set, the
// buffer size that optimizes the workload's objective: lookup latency for
// read_heavy, insert throughput for write_heavy, and a balanced composite
// for mixed. Selections follow the canonical workload order.
func BufferSweep(rs models.ResultSet) ([]models.SelectionRecord, error) {
	succ := rs.Successes()
	if len(succ) == 0 {
		return nil, ErrEmptyResultSet
	}

	partitions := map[models.WorkloadType]models.ResultSet{}
	for _, o := range succ {
		partitions[o.Config.WorkloadType] = append(partitions[o.Config.WorkloadType], o)
	}

	selections := make([]models.SelectionRecord, 0, len(partitions))
	for _, wl := range models.WorkloadTypes {
		partition, ok := partitions[wl]
		if !ok {
			continue
		}
		obj := workloadObjective(wl, partition)
		best, ok := selectBest(partition, obj)
		if !ok {
			continue
		}
		selections = append(selections, models.SelectionRecord{
			Workload:      wl,
			Value:         best.Config.BufferSize,
			Metrics:       *best.Metrics,
			Justification: fmt.Sprintf("Optimizes %s for %s workload", obj.Name(), wl),
		})
	}
	if len(selections) == 0 {
		return nil, ErrEmptyResultSet
	}
	return selections, nil
}

func workloadObjective(wl models.WorkloadType, partition models.ResultSet) Objective {
	switch wl {
	case models.WorkloadReadHeavy:
		return &LookupLatencyObjective{}
	case models.WorkloadWriteHeavy:
		return &InsertThroughputObjective{}
	default:
		return NewBalancedObjective(partition)
	}
}

// selectBest scans a partition and returns the outcome with the best score
// under the objective. Candidates missing a required metric are skipped.
// Ties keep the earliest candidate: comparisons are strict, so an equal
// score never displaces the current best.
func selectBest(partition models.ResultSet, obj Objective) (models.RunOutcome, bool) {
	var best models.RunOutcome
	var bestScore float64
	found := false
	for _, o := range partition {
		if o.Metrics == nil {
			continue
		}
		score, err := obj.Evaluate(*o.Metrics)
		if err != nil {
			continue
		}
		if !found {
			best, bestScore, found = o, score, true
			continue
		}
		if obj.Minimize() {
			if score < bestScore {
				best, bestScore = o, score
			}
		} else if score > bestScore {
			best, bestScore = o, score
		}
	}
	return best, found
}

// groupThousands renders 1000000 as "1,000,000".
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
