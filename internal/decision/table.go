// Package decision turns analysis selections into a deployable lookup table
// mapping (dataset size, workload) to a recommended configuration.
package decision

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/wt-hali/experiment-core/pkg/models"
)

// FileName is the artifact name the analyze CLI writes the table under.
const FileName = "decision_table.json"

// ErrNoSelections is returned by Build when either analysis produced no
// selections. Callers skip emission rather than fail the analysis run.
var ErrNoSelections = errors.New("decision: no selections to build table from")

// SizeThreshold maps one dataset-size breakpoint to the compression level
// measured optimal at that size.
type SizeThreshold struct {
	MaxSize          int     `json:"max_size"`
	CompressionLevel float64 `json:"compression_level"`
	Justification    string  `json:"justification"`
}

// BufferEntry is the recommended buffer size for one workload.
type BufferEntry struct {
	BufferSize    float64 `json:"buffer_size"`
	Justification string  `json:"justification"`
}

// Table is the complete decision table. Size thresholds are sorted ascending
// and interpreted half-open: a dataset size below a threshold's MaxSize takes
// that threshold's level, and sizes at or past the last threshold take the
// last level.
type Table struct {
	SizeThresholds []SizeThreshold                      `json:"size_thresholds"`
	Buffers        map[models.WorkloadType]*BufferEntry `json:"buffers"`
}

// Recommendation is a fully resolved configuration for a deployment target.
type Recommendation struct {
	CompressionLevel         float64 `json:"compression_level"`
	BufferSize               float64 `json:"buffer_size"`
	CompressionJustification string  `json:"compression_justification"`
	BufferJustification      string  `json:"buffer_justification"`
}

// Build constructs a table from the compression-sweep and buffer-sweep
// selections. Both inputs must be non-empty.
func Build(compression, buffer []models.SelectionRecord) (*Table, error) {
	if len(compression) == 0 || len(buffer) == 0 {
		return nil, ErrNoSelections
	}

	bySize := map[int]models.SelectionRecord{}
	for _, sel := range compression {
		bySize[sel.DatasetSize] = sel
	}
	sizes := make([]int, 0, len(bySize))
	for size := range bySize {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	t := &Table{
		Buffers: make(map[models.WorkloadType]*BufferEntry, len(buffer)),
	}
	for _, size := range sizes {
		sel := bySize[size]
		t.SizeThresholds = append(t.SizeThresholds, SizeThreshold{
			MaxSize:          size,
			CompressionLevel: sel.Value,
			Justification:    sel.Justification,
		})
	}
	for _, sel := range buffer {
		t.Buffers[sel.Workload] = &BufferEntry{
			BufferSize:    sel.Value,
			Justification: sel.Justification,
		}
	}
	return t, nil
}

// Select resolves a recommendation for a dataset size and workload. A
// workload without its own buffer entry falls back to the mixed entry.
func (t *Table) Select(datasetSize int, workload models.WorkloadType) (Recommendation, error) {
	if len(t.SizeThresholds) == 0 {
		return Recommendation{}, ErrNoSelections
	}

	threshold := t.SizeThresholds[len(t.SizeThresholds)-1]
	for _, st := range t.SizeThresholds {
		if datasetSize < st.MaxSize {
			threshold = st
			break
		}
	}

	entry, ok := t.Buffers[workload]
	if !ok {
		entry, ok = t.Buffers[models.WorkloadMixed]
		if !ok {
			return Recommendation{}, fmt.Errorf("decision: no buffer entry for workload %q and no mixed fallback", workload)
		}
	}

	return Recommendation{
		CompressionLevel:         threshold.CompressionLevel,
		BufferSize:               entry.BufferSize,
		CompressionJustification: threshold.Justification,
		BufferJustification:      entry.Justification,
	}, nil
}

// Save writes the table as an indented JSON artifact.
func (t *Table) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal decision table: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write decision table: %w", err)
	}
	return nil
}

// Load reads a previously saved table.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read decision table: %w", err)
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse decision table: %w", err)
	}
	return &t, nil
}
