// Package runs keeps a SQLite log of training runs.
package runs

import (
	"context"
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Run is one completed training run.
type Run struct {
	ID           int64
	StartedAt    time.Time
	DataPath     string
	ModelPath    string
	Rows         int
	Epochs       int
	BestEpoch    int
	BestValLoss  float64 // NaN when training ran without validation
	TestAccuracy float64
}

// Repository stores and lists runs.
type Repository interface {
	Record(ctx context.Context, r Run) (int64, error)
	List(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db     *sql.DB
	DBPath string
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create database directory %s", dir)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		data_path TEXT NOT NULL,
		model_path TEXT NOT NULL,
		rows INTEGER NOT NULL,
		epochs INTEGER NOT NULL,
		best_epoch INTEGER NOT NULL,
		best_val_loss REAL,
		test_accuracy REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create tables")
	}

	return &SQLiteRepository{db: db, DBPath: dbPath}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Record inserts a run and returns its id.
func (r *SQLiteRepository) Record(ctx context.Context, run Run) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO runs(started_at, data_path, model_path, rows, epochs, best_epoch, best_val_loss, test_accuracy)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC(),
		run.DataPath,
		run.ModelPath,
		run.Rows,
		run.Epochs,
		run.BestEpoch,
		sql.NullFloat64{Float64: run.BestValLoss, Valid: !math.IsNaN(run.BestValLoss)},
		run.TestAccuracy,
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert run")
	}
	return res.LastInsertId()
}

// List returns up to limit runs, newest first. limit <= 0 returns all.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, started_at, data_path, model_path, rows, epochs, best_epoch, best_val_loss, test_accuracy
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		var run Run
		var best sql.NullFloat64
		if err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&run.DataPath,
			&run.ModelPath,
			&run.Rows,
			&run.Epochs,
			&run.BestEpoch,
			&best,
			&run.TestAccuracy,
		); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		run.BestValLoss = math.NaN()
		if best.Valid {
			run.BestValLoss = best.Float64
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate runs")
	}
	return result, nil
}
