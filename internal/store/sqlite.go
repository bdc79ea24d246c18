package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/crime360/internal/models"
)

// SQLiteStore persists datasets in SQLite. Records are stored as JSON payloads keyed by
// (dataset, id); seq preserves load order.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS incidents (
		dataset TEXT NOT NULL,
		id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		case_number TEXT,
		payload TEXT NOT NULL,
		PRIMARY KEY (dataset, id),
		FOREIGN KEY (dataset) REFERENCES datasets(name) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_incidents_seq ON incidents(seq);
	CREATE INDEX IF NOT EXISTS idx_incidents_case_number ON incidents(case_number);

	CREATE TABLE IF NOT EXISTS persons (
		dataset TEXT NOT NULL,
		id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		person_id TEXT,
		payload TEXT NOT NULL,
		PRIMARY KEY (dataset, id),
		FOREIGN KEY (dataset) REFERENCES datasets(name) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_persons_seq ON persons(seq);
	`
	_, err := db.Exec(schema)
	return err
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Import replaces the stored datasets with the contents of snap in one transaction.
func (s *SQLiteStore) Import(ctx context.Context, snap *Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM incidents", "DELETE FROM persons", "DELETE FROM datasets"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}
	}

	now := time.Now()
	for i, name := range snap.Datasets() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO datasets (name, position, imported_at) VALUES (?, ?, ?)`,
			name, i, now,
		); err != nil {
			return fmt.Errorf("failed to insert dataset %s: %w", name, err)
		}
	}

	incStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO incidents (dataset, id, seq, case_number, payload) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer incStmt.Close()
	for i := range snap.incidents {
		inc := &snap.incidents[i]
		payload, err := json.Marshal(inc)
		if err != nil {
			return fmt.Errorf("failed to marshal incident: %w", err)
		}
		if _, err := incStmt.ExecContext(ctx, inc.Dataset, inc.ID, i, inc.CaseNumber, string(payload)); err != nil {
			return fmt.Errorf("failed to insert incident %s/%s: %w", inc.Dataset, inc.ID, err)
		}
	}

	personStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO persons (dataset, id, seq, person_id, payload) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer personStmt.Close()
	for i := range snap.persons {
		p := &snap.persons[i]
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal person: %w", err)
		}
		if _, err := personStmt.ExecContext(ctx, p.Dataset, p.ID, i, p.PersonID, string(payload)); err != nil {
			return fmt.Errorf("failed to insert person %s/%s: %w", p.Dataset, p.ID, err)
		}
	}

	return tx.Commit()
}

// Load reads every dataset back into a validated snapshot.
func (s *SQLiteStore) Load(ctx context.Context) (*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM datasets ORDER BY position`)
	if err != nil {
		return nil, err
	}
	var datasets []Dataset
	pos := make(map[string]int)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		pos[name] = len(datasets)
		datasets = append(datasets, Dataset{Name: name})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.scanPayloads(ctx, `SELECT dataset, payload FROM incidents ORDER BY seq`, func(dataset string, payload []byte) error {
		var inc models.Incident
		if err := json.Unmarshal(payload, &inc); err != nil {
			return fmt.Errorf("failed to unmarshal incident: %w", err)
		}
		i, ok := pos[dataset]
		if !ok {
			return fmt.Errorf("%w: incident in unknown dataset %s", models.ErrInvalidRecord, dataset)
		}
		datasets[i].Incidents = append(datasets[i].Incidents, inc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.scanPayloads(ctx, `SELECT dataset, payload FROM persons ORDER BY seq`, func(dataset string, payload []byte) error {
		var p models.Person
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("failed to unmarshal person: %w", err)
		}
		i, ok := pos[dataset]
		if !ok {
			return fmt.Errorf("%w: person in unknown dataset %s", models.ErrInvalidRecord, dataset)
		}
		datasets[i].Persons = append(datasets[i].Persons, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return NewSnapshot("sqlite:"+s.path, datasets)
}

func (s *SQLiteStore) scanPayloads(ctx context.Context, query string, fn func(dataset string, payload []byte) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var dataset, payload string
		if err := rows.Scan(&dataset, &payload); err != nil {
			return err
		}
		if err := fn(dataset, []byte(payload)); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Counts returns the number of stored incidents and persons.
func (s *SQLiteStore) Counts(ctx context.Context) (incidents, persons int64, err error) {
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM incidents`).Scan(&incidents); err != nil {
		return 0, 0, err
	}
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&persons); err != nil {
		return 0, 0, err
	}
	return incidents, persons, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
