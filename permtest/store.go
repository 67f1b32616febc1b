package permtest

import (
	"context"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	created_at  INTEGER NOT NULL,
	mode        TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	replicates  INTEGER NOT NULL,
	observed    REAL NOT NULL,
	p_value     REAL NOT NULL,
	null_mean   REAL NOT NULL,
	null_sd     REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS replicates (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	replicate  INTEGER NOT NULL,
	seed       INTEGER NOT NULL,
	value      REAL NOT NULL,
	PRIMARY KEY (run_id, replicate)
);
`

// Store records permutation runs and their null distributions in SQLite.
type Store struct {
	DB *sqlx.DB
}

// RunRecord conforms to the rows of the runs table.
type RunRecord struct {
	ID         string  `db:"id"`
	CreatedAt  Time    `db:"created_at"`
	Mode       Mode    `db:"mode"`
	Seed       int64   `db:"seed"`
	Replicates int     `db:"replicates"`
	Observed   float64 `db:"observed"`
	PValue     float64 `db:"p_value"`
	Mean       float64 `db:"null_mean"`
	StdDev     float64 `db:"null_sd"`
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}

// OpenStore opens (creating if needed) the SQLite database at path.
func OpenStore(path string) (*Store, error) {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect(whichSQLiteDriver, path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if _, err := db.Exec(driverPragmas); err != nil {
		db.Close()
		return nil, pfx.Err(err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, pfx.Err(err)
	}

	return &Store{DB: db}, nil
}

// SaveRun stores res under a new run id and returns the id.
func (s *Store) SaveRun(ctx context.Context, cfg Config, res *Result) (string, error) {
	id := uuid.NewString()

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return "", pfx.Err(err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `INSERT INTO runs
		(id, created_at, mode, seed, replicates, observed, p_value, null_mean, null_sd) VALUES
		(:id, :created_at, :mode, :seed, :replicates, :observed, :p_value, :null_mean, :null_sd)`,
		map[string]interface{}{
			"id":         id,
			"created_at": time.Now().Unix(),
			"mode":       string(cfg.Mode),
			"seed":       cfg.Seed,
			"replicates": len(res.Null),
			"observed":   res.Observed,
			"p_value":    res.PValue,
			"null_mean":  res.Mean,
			"null_sd":    res.StdDev,
		})
	if err != nil {
		return "", pfx.Err(err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO replicates (run_id, replicate, seed, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", pfx.Err(err)
	}
	defer stmt.Close()

	for i, v := range res.Null {
		if _, err := stmt.ExecContext(ctx, id, i, ReplicateSeed(cfg.Seed, i), v); err != nil {
			return "", pfx.Err(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", pfx.Err(err)
	}
	return id, nil
}

func (s *Store) Run(ctx context.Context, id string) (*RunRecord, error) {
	rec := &RunRecord{}
	if err := s.DB.GetContext(ctx, rec, `SELECT * FROM runs WHERE id = ?`, id); err != nil {
		return nil, pfx.Err(err)
	}
	return rec, nil
}

func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	var out []RunRecord
	if err := s.DB.SelectContext(ctx, &out, `SELECT * FROM runs ORDER BY created_at, id`); err != nil {
		return nil, pfx.Err(err)
	}
	return out, nil
}

// NullDistribution returns the replicate values of a run in replicate order.
func (s *Store) NullDistribution(ctx context.Context, id string) ([]float64, error) {
	var out []float64
	if err := s.DB.SelectContext(ctx, &out, `SELECT value FROM replicates WHERE run_id = ? ORDER BY replicate`, id); err != nil {
		return nil, pfx.Err(err)
	}
	return out, nil
}
