// Package store accumulates run outcomes across a sweep and persists them:
// an incremental checkpoint every fixed batch of completions, a final JSON
// artifact at sweep completion, a flattened CSV next to each JSON artifact,
// and an optional SQLite archive spanning sweeps.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/wt-hali/experiment-core/pkg/models"
)

// DefaultCheckpointInterval is the number of completed runs between
// checkpoint writes.
const DefaultCheckpointInterval = 5

// ResultStore owns the outcomes of one phase's sweep. It has a single
// sequential writer, so no locking discipline is required.
type ResultStore struct {
	dir      string
	phase    string
	interval int
	archive  *Archive
	outcomes models.ResultSet
}

// NewResultStore creates a store writing artifacts for one phase under dir.
func NewResultStore(dir, phase string, interval int) (*ResultStore, error) {
	if phase == "" {
		return nil, fmt.Errorf("phase is required")
	}
	if interval <= 0 {
		interval = DefaultCheckpointInterval
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results dir %s: %w", dir, err)
	}
	return &ResultStore{dir: dir, phase: phase, interval: interval}, nil
}

// WithArchive attaches a SQLite archive; final outcomes are appended to it.
func (s *ResultStore) WithArchive(a *Archive) *ResultStore {
	s.archive = a
	return s
}

// Append records one outcome. A checkpoint is written after every interval
// of completions, so an interrupted sweep loses at most interval-1 results.
// A checkpoint write failure is fatal to the sweep.
func (s *ResultStore) Append(outcome models.RunOutcome) error {
	s.outcomes = append(s.outcomes, outcome)
	if len(s.outcomes)%s.interval == 0 {
		if err := s.writeArtifact(CheckpointPath(s.dir, s.phase)); err != nil {
			return fmt.Errorf("failed to write checkpoint: %w", err)
		}
	}
	return nil
}

// SaveFinal writes the final artifact and, if configured, archives the set.
func (s *ResultStore) SaveFinal() error {
	if err := s.writeArtifact(FinalPath(s.dir, s.phase)); err != nil {
		return fmt.Errorf("failed to write final results: %w", err)
	}
	if s.archive != nil {
		if err := s.archive.InsertSet(s.phase, s.outcomes); err != nil {
			return fmt.Errorf("failed to archive results: %w", err)
		}
	}
	return nil
}

// Results returns the outcomes recorded so far, in completion order.
func (s *ResultStore) Results() models.ResultSet {
	out := make(models.ResultSet, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

func (s *ResultStore) writeArtifact(path string) error {
	data, err := json.MarshalIndent(s.outcomes, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	return WriteCSV(csvPath(path), s.outcomes)
}

// CheckpointPath returns the checkpoint artifact path for a phase.
func CheckpointPath(dir, phase string) string {
	return filepath.Join(dir, fmt.Sprintf("experiment_results_phase%s_checkpoint.json", phase))
}

// FinalPath returns the final artifact path for a phase.
func FinalPath(dir, phase string) string {
	return filepath.Join(dir, fmt.Sprintf("experiment_results_phase%s_final.json", phase))
}

func csvPath(jsonPath string) string {
	return strings.TrimSuffix(jsonPath, ".json") + ".csv"
}

// LoadFinal loads a phase's final artifact. A missing file is not an error:
// it yields an empty ResultSet, and downstream stages treat the phase as
// having no data.
func LoadFinal(dir, phase string) (models.ResultSet, error) {
	return loadArtifact(FinalPath(dir, phase))
}

// LoadCheckpoint loads a phase's checkpoint artifact, if any.
func LoadCheckpoint(dir, phase string) (models.ResultSet, error) {
	return loadArtifact(CheckpointPath(dir, phase))
}

func loadArtifact(path string) (models.ResultSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.ResultSet{}, nil
		}
		return nil, fmt.Errorf("failed to read results file %s: %w", path, err)
	}
	var rs models.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse results file %s: %w", path, err)
	}
	return rs, nil
}
