package analysis

import (
	"github.com/wt-hali/experiment-core/pkg/models"
)

// Objective evaluates a metrics record and returns a score. Direction is
// carried by Minimize; the analyzer compares raw scores accordingly rather
// than negating maximization objectives.
type Objective interface {
	// Evaluate computes the objective value from a run's metrics.
	Evaluate(m models.MetricsRecord) (float64, error)

	// Name returns the metric description used in justifications.
	Name() string

	// Minimize reports whether lower scores are better.
	Minimize() bool
}

// MissingMetricError indicates a metric required by an objective is absent
// from the record. The affected candidate is skipped, not failed.
type MissingMetricError struct {
	Metric string
}

func (e *MissingMetricError) Error() string {
	return "metric not present in record: " + e.Metric
}

// LookupLatencyObjective minimizes mean lookup latency.
type LookupLatencyObjective struct{}

func (o *LookupLatencyObjective) Name() string {
	return "lookup latency"
}

func (o *LookupLatencyObjective) Minimize() bool {
	return true
}

func (o *LookupLatencyObjective) Evaluate(m models.MetricsRecord) (float64, error) {
	if m.LookupNS == nil {
		return 0, &MissingMetricError{Metric: "lookup_ns"}
	}
	return *m.LookupNS, nil
}

// InsertThroughputObjective maximizes insert throughput.
type InsertThroughputObjective struct{}

func (o *InsertThroughputObjective) Name() string {
	return "insert throughput"
}

func (o *InsertThroughputObjective) Minimize() bool {
	return false
}

func (o *InsertThroughputObjective) Evaluate(m models.MetricsRecord) (float64, error) {
	if m.InsertOpsSec == nil {
		return 0, &MissingMetricError{Metric: "insert_ops_sec"}
	}
	return *m.InsertOpsSec, nil
}

// BalancedObjective maximizes the composite score
// (1 - normalized_latency) + normalized_throughput, where each metric is
// normalized by its maximum within the partition so both objectives weigh
// equally despite differing units. Scores range roughly 0-2.
type BalancedObjective struct {
	maxLookupNS  float64
	maxInsertOps float64
}

// NewBalancedObjective computes the partition's normalization maxima. The
// maxima belong to one partition only; build a fresh objective per partition.
func NewBalancedObjective(partition models.ResultSet) *BalancedObjective {
	obj := &BalancedObjective{}
	for _, o := range partition {
		if o.Metrics == nil {
			continue
		}
		if o.Metrics.LookupNS != nil && *o.Metrics.LookupNS > obj.maxLookupNS {
			obj.maxLookupNS = *o.Metrics.LookupNS
		}
		if o.Metrics.InsertOpsSec != nil && *o.Metrics.InsertOpsSec > obj.maxInsertOps {
			obj.maxInsertOps = *o.Metrics.InsertOpsSec
		}
	}
	return obj
}

func (o *BalancedObjective) Name() string {
	return "balanced performance"
}

func (o *BalancedObjective) Minimize() bool {
	return false
}

func (o *BalancedObjective) Evaluate(m models.MetricsRecord) (float64, error) {
	if m.LookupNS == nil {
		return 0, &MissingMetricError{Metric: "lookup_ns"}
	}
	if m.InsertOpsSec == nil {
		return 0, &MissingMetricError{Metric: "insert_ops_sec"}
	}

	// A zero maximum means the partition has no signal in that metric;
	// its normalized term contributes nothing rather than dividing by zero.
	score := 0.0
	if o.maxLookupNS > 0 {
		score += 1 - *m.LookupNS/o.maxLookupNS
	}
	if o.maxInsertOps > 0 {
		score += *m.InsertOpsSec / o.maxInsertOps
	}
	return score, nil
}
