package store

import (
	"os"
	"testing"

	"github.com/wt-hali/experiment-core/pkg/models"
)

func successOutcome(name string, lookupNS float64) models.RunOutcome {
	return models.RunOutcome{
		Status: models.RunStatusSuccess,
		Config: models.RunConfig{
			Name:             name,
			CompressionLevel: 0.5,
			BufferSize:       0.01,
			DatasetType:      models.DatasetClustered,
			DatasetSize:      500_000,
			WorkloadType:     models.WorkloadMixed,
			NumOperations:    models.DefaultNumOperations,
		},
		ElapsedSeconds: 1.5,
		Metrics: &models.MetricsRecord{
			LookupNS:     models.Float(lookupNS),
			InsertOpsSec: models.Float(1_000_000),
			BytesPerKey:  models.Float(17.25),
			BuildMS:      models.Float(1250),
		},
	}
}

func TestCheckpointAfterEveryInterval(t *testing.T) {
	dir := t.TempDir()
	s, err := NewResultStore(dir, "2.2", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A sweep of 12 interrupted after the 10th completion: the checkpoint
	// reflects exactly 10 outcomes.
	for i := 0; i < 10; i++ {
		if err := s.Append(successOutcome(string(rune('a'+i)), 50)); err != nil {
			t.Fatalf("append %d: unexpected error: %v", i, err)
		}
	}

	cp, err := LoadCheckpoint(dir, "2.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cp) != 10 {
		t.Fatalf("expected checkpoint with 10 outcomes, got %d", len(cp))
	}

	// No final artifact yet.
	final, err := LoadFinal(dir, "2.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(final) != 0 {
		t.Fatalf("expected no final artifact before SaveFinal, got %d outcomes", len(final))
	}
}

func TestCheckpointNotWrittenMidInterval(t *testing.T) {
	dir := t.TempDir()
	s, err := NewResultStore(dir, "2.3", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 4; i++ {
		if err := s.Append(successOutcome(string(rune('a'+i)), 50)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if _, err := os.Stat(CheckpointPath(dir, "2.3")); !os.IsNotExist(err) {
		t.Fatalf("expected no checkpoint after 4 appends, stat err: %v", err)
	}
}

func TestSaveFinalRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewResultStore(dir, "2.1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcomes := models.ResultSet{
		successOutcome("exp2.1_a", 54.7),
		{
			Status: models.RunStatusFailed,
			Config: models.RunConfig{Name: "exp2.1_b", DatasetSize: 100, NumOperations: 1},
			Error:  "simulator exited with code 2",
		},
		{
			Status: models.RunStatusTimeout,
			Config: models.RunConfig{Name: "exp2.1_c", DatasetSize: 100, NumOperations: 1},
		},
	}
	for _, o := range outcomes {
		if err := s.Append(o); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := s.SaveFinal(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := LoadFinal(dir, "2.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(loaded))
	}
	if loaded[0].Status != models.RunStatusSuccess || loaded[0].Config.Name != "exp2.1_a" {
		t.Fatalf("unexpected first outcome: %+v", loaded[0])
	}
	if loaded[0].Metrics == nil || *loaded[0].Metrics.LookupNS != 54.7 {
		t.Fatalf("expected metrics to survive round trip, got %+v", loaded[0].Metrics)
	}
	if loaded[1].Error != "simulator exited with code 2" {
		t.Fatalf("expected failure cause preserved, got %q", loaded[1].Error)
	}
	if loaded[2].Metrics != nil {
		t.Fatalf("expected no metrics on timeout outcome")
	}
}

func TestLoadFinalMissingArtifactIsEmpty(t *testing.T) {
	rs, err := LoadFinal(t.TempDir(), "2.2")
	if err != nil {
		t.Fatalf("missing artifact must not be an error, got: %v", err)
	}
	if len(rs) != 0 {
		t.Fatalf("expected empty result set, got %d outcomes", len(rs))
	}
}

func TestCSVExportSuccessRowsOnly(t *testing.T) {
	dir := t.TempDir()
	s, err := NewResultStore(dir, "2.2", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Append(successOutcome("ok", 60)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Append(models.RunOutcome{
		Status: models.RunStatusFailed,
		Config: models.RunConfig{Name: "bad", DatasetSize: 1, NumOperations: 1},
		Error:  "boom",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveFinal(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := ReadCSV(csvPath(FinalPath(dir, "2.2")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 success row, got %d", len(rows))
	}
	if rows[0].Config.Name != "ok" {
		t.Fatalf("expected row 'ok', got %s", rows[0].Config.Name)
	}
}

func TestCSVMissingMetricStaysMissing(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/partial.csv"

	o := successOutcome("partial", 42)
	o.Metrics.InsertOpsSec = nil

	if err := WriteCSV(path, models.ResultSet{o}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Metrics.InsertOpsSec != nil {
		t.Fatalf("expected missing metric to stay missing, got %v", *rows[0].Metrics.InsertOpsSec)
	}
	if rows[0].Metrics.LookupNS == nil || *rows[0].Metrics.LookupNS != 42 {
		t.Fatalf("expected lookup_ns 42, got %v", rows[0].Metrics.LookupNS)
	}
}
