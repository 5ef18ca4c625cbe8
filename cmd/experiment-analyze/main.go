package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wt-hali/experiment-core/internal/analysis"
	"github.com/wt-hali/experiment-core/internal/decision"
	"github.com/wt-hali/experiment-core/internal/store"
	"github.com/wt-hali/experiment-core/pkg/logger"
	"github.com/wt-hali/experiment-core/pkg/models"
)

func main() {
	var resultsDir string
	var outDir string
	var logLevel string

	flag.StringVar(&resultsDir, "results-dir", "results/experiments", "directory holding the sweep artifacts")
	flag.StringVar(&outDir, "out", "", "directory for analysis artifacts (defaults to results-dir)")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger.SetDefault(logger.NewText(logLevel, os.Stdout))
	if outDir == "" {
		outDir = resultsDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		logger.Error("create output directory", "dir", outDir, "error", err)
		os.Exit(1)
	}

	compression := analyzeCompression(resultsDir, outDir)
	buffer := analyzeBuffer(resultsDir, outDir)
	analyzeScaling(resultsDir, outDir)

	if len(compression) == 0 || len(buffer) == 0 {
		logger.Warn("decision table skipped",
			"compression_selections", len(compression),
			"buffer_selections", len(buffer))
		return
	}

	table, err := decision.Build(compression, buffer)
	if err != nil {
		logger.Error("build decision table", "error", err)
		os.Exit(1)
	}
	path := filepath.Join(outDir, decision.FileName)
	if err := table.Save(path); err != nil {
		logger.Error("save decision table", "path", path, "error", err)
		os.Exit(1)
	}
	logger.Info("decision table written", "path", path,
		"thresholds", len(table.SizeThresholds), "workloads", len(table.Buffers))
}

func analyzeCompression(resultsDir, outDir string) []models.SelectionRecord {
	rs, err := store.LoadFinal(resultsDir, "2.1")
	if err != nil {
		logger.Error("load phase 2.1 results", "error", err)
		os.Exit(1)
	}
	if len(rs) == 0 {
		logger.Warn("phase 2.1 has no results, skipping compression analysis")
		return nil
	}

	selections, err := analysis.CompressionSweep(rs)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyResultSet) {
			logger.Warn("no successful phase 2.1 runs, skipping compression analysis")
			return nil
		}
		logger.Error("compression analysis", "error", err)
		os.Exit(1)
	}

	logger.Info("optimal compression per dataset size")
	for _, sel := range selections {
		logger.Info("compression selection",
			"dataset_size", sel.DatasetSize,
			"compression", sel.Value,
			"lookup_ns", optional(sel.Metrics.LookupNS),
			"insert_ops_sec", optional(sel.Metrics.InsertOpsSec),
			"bytes_per_key", optional(sel.Metrics.BytesPerKey))
	}
	writeSelections(filepath.Join(outDir, "compression_selections.json"), selections)
	return selections
}

func analyzeBuffer(resultsDir, outDir string) []models.SelectionRecord {
	rs, err := store.LoadFinal(resultsDir, "2.2")
	if err != nil {
		logger.Error("load phase 2.2 results", "error", err)
		os.Exit(1)
	}
	if len(rs) == 0 {
		logger.Warn("phase 2.2 has no results, skipping buffer analysis")
		return nil
	}

	selections, err := analysis.BufferSweep(rs)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyResultSet) {
			logger.Warn("no successful phase 2.2 runs, skipping buffer analysis")
			return nil
		}
		logger.Error("buffer analysis", "error", err)
		os.Exit(1)
	}

	logger.Info("optimal buffer size per workload")
	for _, sel := range selections {
		logger.Info("buffer selection",
			"workload", sel.Workload,
			"buffer", sel.Value,
			"lookup_ns", optional(sel.Metrics.LookupNS),
			"insert_ops_sec", optional(sel.Metrics.InsertOpsSec))
	}
	writeSelections(filepath.Join(outDir, "buffer_selections.json"), selections)
	return selections
}

func analyzeScaling(resultsDir, outDir string) {
	rs, err := store.LoadFinal(resultsDir, "2.3")
	if err != nil {
		logger.Error("load phase 2.3 results", "error", err)
		os.Exit(1)
	}
	if len(rs) == 0 {
		logger.Warn("phase 2.3 has no results, skipping scaling analysis")
		return
	}

	insight, err := analysis.Scaling(rs)
	if err != nil {
		logger.Warn("scaling analysis skipped", "error", err)
		return
	}
	logger.Info("lookup latency scaling",
		"slope", fmt.Sprintf("%.3f", insight.Slope),
		"regime", insight.Regime,
		"samples", insight.Samples)
	writeJSON(filepath.Join(outDir, "scaling.json"), insight)
}

func writeSelections(path string, selections []models.SelectionRecord) {
	writeJSON(path, selections)
}

func writeJSON(path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Error("marshal artifact", "path", path, "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("write artifact", "path", path, "error", err)
		os.Exit(1)
	}
	logger.Info("artifact written", "path", path)
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
