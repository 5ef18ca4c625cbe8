package models

// DatasetType identifies the key distribution of a benchmark dataset.
type DatasetType string

const (
	DatasetClustered  DatasetType = "clustered"
	DatasetSequential DatasetType = "sequential"
	DatasetLognormal  DatasetType = "lognormal"
	DatasetUniform    DatasetType = "uniform"
	DatasetMixed      DatasetType = "mixed"
	DatasetZipfian    DatasetType = "zipfian"
)

// DatasetTypes lists all valid dataset types.
var DatasetTypes = []DatasetType{
	DatasetClustered,
	DatasetSequential,
	DatasetLognormal,
	DatasetUniform,
	DatasetMixed,
	DatasetZipfian,
}

// WorkloadType identifies the read/write mix of a benchmark workload.
type WorkloadType string

const (
	WorkloadReadHeavy  WorkloadType = "read_heavy"
	WorkloadMixed      WorkloadType = "mixed"
	WorkloadWriteHeavy WorkloadType = "write_heavy"
)

// WorkloadTypes lists all valid workload types in canonical order.
var WorkloadTypes = []WorkloadType{
	WorkloadReadHeavy,
	WorkloadMixed,
	WorkloadWriteHeavy,
}

// DefaultNumOperations is the operation count used when a sweep does not
// override it.
const DefaultNumOperations = 100_000

// RunConfig is one fully-specified benchmark configuration. Instances are
// created by the sweep generator and never mutated afterwards; the name is
// derived from the varying parameters and is unique within a phase.
type RunConfig struct {
	Name             string       `json:"name"`
	CompressionLevel float64      `json:"compression_level"`
	BufferSize       float64      `json:"buffer_size"`
	DatasetType      DatasetType  `json:"dataset_type"`
	DatasetSize      int          `json:"dataset_size"`
	WorkloadType     WorkloadType `json:"workload_type"`
	NumOperations    int          `json:"num_operations"`
}

// RunStatus classifies the outcome of one benchmark execution.
type RunStatus string

const (
	RunStatusSuccess   RunStatus = "success"
	RunStatusFailed    RunStatus = "failed"
	RunStatusTimeout   RunStatus = "timeout"
	RunStatusException RunStatus = "exception"
	RunStatusDryRun    RunStatus = "dry_run"
)

// MetricsRecord holds the metrics parsed from a successful run. A nil field
// means the corresponding line was not found in the benchmark output; missing
// metrics are never treated as zero.
type MetricsRecord struct {
	LookupNS     *float64 `json:"lookup_ns,omitempty"`
	InsertOpsSec *float64 `json:"insert_ops_sec,omitempty"`
	BytesPerKey  *float64 `json:"bytes_per_key,omitempty"`
	BuildMS      *float64 `json:"build_ms,omitempty"`
}

// Float returns a pointer to v, for building MetricsRecord literals.
func Float(v float64) *float64 {
	return &v
}

// RunOutcome is the result of executing one RunConfig. Exactly one outcome
// exists per configuration; it is immutable once recorded.
type RunOutcome struct {
	Status         RunStatus      `json:"status"`
	Config         RunConfig      `json:"config"`
	ElapsedSeconds float64        `json:"elapsed_seconds,omitempty"`
	Metrics        *MetricsRecord `json:"results,omitempty"`
	Error          string         `json:"error,omitempty"`
	Args           []string       `json:"args,omitempty"`
}

// ResultSet is the ordered sequence of outcomes for one phase, in
// completion order (which equals generation order).
type ResultSet []RunOutcome

// Successes returns the outcomes with status success, preserving order.
func (rs ResultSet) Successes() ResultSet {
	out := make(ResultSet, 0, len(rs))
	for _, o := range rs {
		if o.Status == RunStatusSuccess {
			out = append(out, o)
		}
	}
	return out
}

// CountByStatus tallies outcomes per status.
func (rs ResultSet) CountByStatus() map[RunStatus]int {
	counts := make(map[RunStatus]int)
	for _, o := range rs {
		counts[o.Status]++
	}
	return counts
}

// SelectionRecord is the per-partition output of an optimality analysis:
// the winning value of the swept dimension, the winning metrics, and a
// human-readable justification. Exactly one of DatasetSize or Workload is
// set, depending on the partitioning dimension.
type SelectionRecord struct {
	DatasetSize   int           `json:"dataset_size,omitempty"`
	Workload      WorkloadType  `json:"workload_type,omitempty"`
	Value         float64       `json:"value"`
	Metrics       MetricsRecord `json:"metrics"`
	Justification string        `json:"justification"`
}
