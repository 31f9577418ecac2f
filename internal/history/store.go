package history

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/wcagcatalog/internal/model"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// Store is the run history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file and its directory.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database at dbPath.
func Open(dbPath string, opts Options) (*Store, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root TEXT NOT NULL,
		started_at TEXT NOT NULL,
		generated TEXT NOT NULL,
		output_path TEXT NOT NULL,
		total_pages INTEGER NOT NULL,
		total_test_cases INTEGER NOT NULL,
		total_criteria INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		diagnostics INTEGER NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root);

	CREATE TABLE IF NOT EXISTS run_entries (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		entry_id TEXT NOT NULL,
		filename TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		PRIMARY KEY (run_id, entry_id)
	);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is one stored run.
type RunRecord struct {
	ID             int64     `json:"id"`
	Root           string    `json:"root"`
	StartedAt      time.Time `json:"startedAt"`
	Generated      string    `json:"generated"`
	OutputPath     string    `json:"outputPath"`
	TotalPages     int       `json:"totalPages"`
	TotalTestCases int       `json:"totalTestCases"`
	TotalCriteria  int       `json:"totalCriteria"`
	Skipped        int       `json:"skipped"`
	Diagnostics    int       `json:"diagnostics"`
}

// Fingerprint returns the hex SHA3-256 digest of the entry's JSON form.
func Fingerprint(e model.CatalogEntry) (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// SaveRun stores a finished run. root identifies the catalog tree so
// histories of different trees stay apart.
func (s *Store) SaveRun(ctx context.Context, root string, run *model.Run) (int64, error) {
	if run.Catalog == nil {
		return 0, errors.New("run has no catalog to record")
	}

	summary := model.NewRunSummary(run)
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize run summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (root, started_at, generated, output_path, total_pages, total_test_cases,
		total_criteria, skipped, diagnostics, summary_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		root,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		summary.Generated,
		summary.OutputPath,
		summary.PagesProcessed,
		summary.TotalTestCases,
		summary.TotalWCAGCriteria,
		len(summary.Skipped),
		len(summary.Diagnostics),
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, e := range run.Catalog.TestPages {
		fp, err := Fingerprint(e)
		if err != nil {
			return 0, fmt.Errorf("failed to fingerprint %s: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_entries (run_id, entry_id, filename, fingerprint) VALUES (?, ?, ?, ?)`,
			runID, e.ID, e.Filename, fp,
		); err != nil {
			return 0, fmt.Errorf("failed to save entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

const runColumns = `id, root, started_at, generated, output_path, total_pages, total_test_cases,
	total_criteria, skipped, diagnostics`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var r RunRecord
	var startedAt string
	err := row.Scan(&r.ID, &r.Root, &startedAt, &r.Generated, &r.OutputPath, &r.TotalPages,
		&r.TotalTestCases, &r.TotalCriteria, &r.Skipped, &r.Diagnostics)
	r.StartedAt = parseTimestamp(startedAt)
	return r, err
}

// ListRuns returns runs recorded for root, newest first. A positive limit
// caps the number of rows.
func (s *Store) ListRuns(ctx context.Context, root string, limit int) ([]RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE root = ? ORDER BY id DESC`
	args := []any{root}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunRecord, 0)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// Summary returns the run summary stored with a run.
func (s *Store) Summary(ctx context.Context, id int64) (*model.RunSummary, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT summary_json FROM runs WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run summary: %w", err)
	}

	var summary model.RunSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse run summary: %w", err)
	}
	return &summary, nil
}

// Fingerprints returns entry id to fingerprint for a run.
func (s *Store) Fingerprints(ctx context.Context, runID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_id, fingerprint FROM run_entries WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	fps := make(map[string]string)
	for rows.Next() {
		var id, fp string
		if err := rows.Scan(&id, &fp); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		fps[id] = fp
	}
	return fps, rows.Err()
}

// RunDiff lists entry ids that differ between two runs, each sorted.
type RunDiff struct {
	From    int64    `json:"from"`
	To      int64    `json:"to"`
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Changed []string `json:"changed"`
}

// Empty reports whether the runs hold identical entries.
func (d *RunDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff compares the entries of run from with those of run to.
func (s *Store) Diff(ctx context.Context, from, to int64) (*RunDiff, error) {
	for _, id := range []int64{from, to} {
		if _, err := s.GetRun(ctx, id); err != nil {
			return nil, err
		}
	}

	old, err := s.Fingerprints(ctx, from)
	if err != nil {
		return nil, err
	}
	cur, err := s.Fingerprints(ctx, to)
	if err != nil {
		return nil, err
	}

	d := &RunDiff{
		From:    from,
		To:      to,
		Added:   make([]string, 0),
		Removed: make([]string, 0),
		Changed: make([]string, 0),
	}
	for id, fp := range cur {
		prev, ok := old[id]
		switch {
		case !ok:
			d.Added = append(d.Added, id)
		case prev != fp:
			d.Changed = append(d.Changed, id)
		}
	}
	for id := range old {
		if _, ok := cur[id]; !ok {
			d.Removed = append(d.Removed, id)
		}
	}
	slices.Sort(d.Added)
	slices.Sort(d.Removed)
	slices.Sort(d.Changed)
	return d, nil
}

var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseTimestamp returns the zero time when s matches no known format.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
