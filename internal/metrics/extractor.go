// Package metrics parses the free-form text output of a benchmark run into
// a structured metrics record. Parsing is line-oriented and label-driven:
// recognized labels are matched by substring, everything else is ignored, and
// a label that never appears leaves its metric absent rather than zero.
package metrics

import (
	"strconv"
	"strings"

	"github.com/wt-hali/experiment-core/pkg/models"
)

// Labels recognized in benchmark output, e.g. "Mean Lookup: 54.7 ns".
const (
	labelLookup     = "Mean Lookup:"
	labelThroughput = "Insert Throughput:"
	labelSpace      = "Space per Key:"
	labelBuild      = "Build Time:"
)

// Parse extracts a MetricsRecord from raw benchmark stdout. It never fails:
// unparseable or missing lines simply leave the corresponding field nil.
func Parse(stdout string) models.MetricsRecord {
	var rec models.MetricsRecord
	for _, line := range strings.Split(stdout, "\n") {
		switch {
		case strings.Contains(line, labelLookup):
			if v, ok := valueAfter(line, labelLookup); ok {
				rec.LookupNS = models.Float(v)
			}
		case strings.Contains(line, labelThroughput):
			if v, ok := valueAfter(line, labelThroughput); ok {
				rec.InsertOpsSec = models.Float(v)
			}
		case strings.Contains(line, labelSpace):
			if v, ok := valueAfter(line, labelSpace); ok {
				rec.BytesPerKey = models.Float(v)
			}
		case strings.Contains(line, labelBuild):
			if v, ok := valueAfter(line, labelBuild); ok {
				rec.BuildMS = models.Float(v)
			}
		}
	}
	return rec
}

// valueAfter parses the first whitespace-delimited token after the label's
// trailing colon as a float. Trailing units ("ns", "ops/sec") are ignored.
func valueAfter(line, label string) (float64, bool) {
	idx := strings.Index(line, label)
	if idx < 0 {
		return 0, false
	}
	fields := strings.Fields(line[idx+len(label):])
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
