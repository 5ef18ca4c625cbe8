package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/wt-hali/experiment-core/pkg/models"
)

// csvColumns is the flattened key space: RunConfig fields merged with metric
// fields plus elapsed time. One row per successful outcome.
var csvColumns = []string{
	"name",
	"compression_level",
	"buffer_size",
	"dataset_type",
	"dataset_size",
	"workload_type",
	"num_operations",
	"lookup_ns",
	"insert_ops_sec",
	"bytes_per_key",
	"build_ms",
	"elapsed_seconds",
}

// WriteCSV writes the tabular export of a result set. Non-success outcomes
// are omitted; missing metrics become empty cells, never zeros.
func WriteCSV(path string, rs models.ResultSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return err
	}

	for _, o := range rs {
		if o.Status != models.RunStatusSuccess {
			continue
		}
		var m models.MetricsRecord
		if o.Metrics != nil {
			m = *o.Metrics
		}
		row := []string{
			o.Config.Name,
			formatFloat(o.Config.CompressionLevel),
			formatFloat(o.Config.BufferSize),
			string(o.Config.DatasetType),
			strconv.Itoa(o.Config.DatasetSize),
			string(o.Config.WorkloadType),
			strconv.Itoa(o.Config.NumOperations),
			formatOptional(m.LookupNS),
			formatOptional(m.InsertOpsSec),
			formatOptional(m.BytesPerKey),
			formatOptional(m.BuildMS),
			formatFloat(o.ElapsedSeconds),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV loads a tabular export back into a ResultSet of success outcomes.
// Analyzing the reloaded set reproduces the selections of the in-memory set.
func ReadCSV(path string) (models.ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return models.ResultSet{}, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}

	rs := make(models.ResultSet, 0, len(records)-1)
	for _, row := range records[1:] {
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		size, err := strconv.Atoi(get("dataset_size"))
		if err != nil {
			return nil, fmt.Errorf("invalid dataset_size in %s: %w", path, err)
		}
		ops, err := strconv.Atoi(get("num_operations"))
		if err != nil {
			return nil, fmt.Errorf("invalid num_operations in %s: %w", path, err)
		}
		compression, err := strconv.ParseFloat(get("compression_level"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid compression_level in %s: %w", path, err)
		}
		buffer, err := strconv.ParseFloat(get("buffer_size"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid buffer_size in %s: %w", path, err)
		}

		metrics := &models.MetricsRecord{
			LookupNS:     parseOptional(get("lookup_ns")),
			InsertOpsSec: parseOptional(get("insert_ops_sec")),
			BytesPerKey:  parseOptional(get("bytes_per_key")),
			BuildMS:      parseOptional(get("build_ms")),
		}

		elapsed := 0.0
		if v := get("elapsed_seconds"); v != "" {
			elapsed, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid elapsed_seconds in %s: %w", path, err)
			}
		}

		rs = append(rs, models.RunOutcome{
			Status: models.RunStatusSuccess,
			Config: models.RunConfig{
				Name:             get("name"),
				CompressionLevel: compression,
				BufferSize:       buffer,
				DatasetType:      models.DatasetType(get("dataset_type")),
				DatasetSize:      size,
				WorkloadType:     models.WorkloadType(get("workload_type")),
				NumOperations:    ops,
			},
			ElapsedSeconds: elapsed,
			Metrics:        metrics,
		})
	}
	return rs, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func parseOptional(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return models.Float(v)
}
