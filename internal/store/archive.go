package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/wt-hali/experiment-core/pkg/models"
)

// Archive is a SQLite-backed outcome archive spanning sweeps. The per-phase
// JSON artifacts remain the source of truth for analysis; the archive exists
// for post-mortem queries across phases with external tools.
type Archive struct {
	db *sql.DB
	mu sync.Mutex
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS outcomes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	phase TEXT NOT NULL,
	name TEXT NOT NULL,
	status TEXT NOT NULL,
	compression_level REAL NOT NULL,
	buffer_size REAL NOT NULL,
	dataset_type TEXT NOT NULL,
	dataset_size INTEGER NOT NULL,
	workload_type TEXT NOT NULL,
	num_operations INTEGER NOT NULL,
	lookup_ns REAL,
	insert_ops_sec REAL,
	bytes_per_key REAL,
	build_ms REAL,
	elapsed_seconds REAL NOT NULL,
	error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_outcomes_phase ON outcomes(phase);`

// OpenArchive opens (or creates) the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}

	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init archive schema: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA synchronous = NORMAL;`); err != nil {
		// Non-fatal: the archive works without WAL, just slower.
		_ = err
	}

	return &Archive{db: db}, nil
}

// InsertSet appends a phase's outcomes in one transaction.
func (a *Archive) InsertSet(phase string, rs models.ResultSet) error {
	if len(rs) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO outcomes
		(phase, name, status, compression_level, buffer_size, dataset_type,
		 dataset_size, workload_type, num_operations, lookup_ns,
		 insert_ops_sec, bytes_per_key, build_ms, elapsed_seconds, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, o := range rs {
		var m models.MetricsRecord
		if o.Metrics != nil {
			m = *o.Metrics
		}
		_, err := stmt.Exec(
			phase, o.Config.Name, string(o.Status),
			o.Config.CompressionLevel, o.Config.BufferSize,
			string(o.Config.DatasetType), o.Config.DatasetSize,
			string(o.Config.WorkloadType), o.Config.NumOperations,
			nullable(m.LookupNS), nullable(m.InsertOpsSec),
			nullable(m.BytesPerKey), nullable(m.BuildMS),
			o.ElapsedSeconds, o.Error,
		)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Phase returns all archived outcomes for one phase, in insertion order.
func (a *Archive) Phase(phase string) (models.ResultSet, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rows, err := a.db.Query(`SELECT name, status, compression_level, buffer_size,
		dataset_type, dataset_size, workload_type, num_operations,
		lookup_ns, insert_ops_sec, bytes_per_key, build_ms,
		elapsed_seconds, error
		FROM outcomes WHERE phase = ? ORDER BY id`, phase)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rs models.ResultSet
	for rows.Next() {
		var o models.RunOutcome
		var status string
		var dataset, workload string
		var lookup, insert, space, build sql.NullFloat64
		err := rows.Scan(&o.Config.Name, &status,
			&o.Config.CompressionLevel, &o.Config.BufferSize,
			&dataset, &o.Config.DatasetSize, &workload,
			&o.Config.NumOperations,
			&lookup, &insert, &space, &build,
			&o.ElapsedSeconds, &o.Error)
		if err != nil {
			return nil, err
		}
		o.Status = models.RunStatus(status)
		o.Config.DatasetType = models.DatasetType(dataset)
		o.Config.WorkloadType = models.WorkloadType(workload)
		if o.Status == models.RunStatusSuccess {
			o.Metrics = &models.MetricsRecord{
				LookupNS:     fromNullable(lookup),
				InsertOpsSec: fromNullable(insert),
				BytesPerKey:  fromNullable(space),
				BuildMS:      fromNullable(build),
			}
		}
		rs = append(rs, o)
	}
	return rs, rows.Err()
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.Float(v.Float64)
}
