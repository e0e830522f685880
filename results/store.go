package results

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/yllada/vpn-bench/common"
	"github.com/yllada/vpn-bench/discovery"
	"github.com/yllada/vpn-bench/probe"
)

const schema = `
CREATE TABLE IF NOT EXISTS campaigns (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	interrupted INTEGER NOT NULL,
	filters     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	campaign_id   TEXT NOT NULL REFERENCES campaigns(id),
	position      INTEGER NOT NULL,
	config        TEXT NOT NULL,
	latency_ms    REAL,
	download_mbps REAL,
	upload_mbps   REAL,
	finished_at   TEXT NOT NULL,
	PRIMARY KEY (campaign_id, position)
);`

// Campaign describes one stored benchmark run.
type Campaign struct {
	ID          uuid.UUID
	StartedAt   time.Time
	FinishedAt  time.Time
	Interrupted bool
	Filters     []string
}

// Store keeps the history of campaigns in a sqlite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the history database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrHistory, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", common.ErrHistory, path, err)
	}
	// A single connection serializes writers and keeps :memory: databases alive.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating schema: %v", common.ErrHistory, err)
	}
	return &Store{db: db}, nil
}

// DefaultStorePath returns the history database location in the config
// directory.
func DefaultStorePath() (string, error) {
	dir, err := common.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, common.HistoryFileName), nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a campaign and its records, in ledger order, atomically.
func (s *Store) Save(ctx context.Context, c Campaign, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrHistory, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO campaigns (id, started_at, finished_at, interrupted, filters) VALUES (?, ?, ?, ?, ?)`,
		c.ID.String(), formatTime(c.StartedAt), formatTime(c.FinishedAt), c.Interrupted, strings.Join(c.Filters, ","))
	if err != nil {
		return fmt.Errorf("%w: saving campaign %s: %v", common.ErrHistory, c.ID, err)
	}

	for i, r := range records {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (campaign_id, position, config, latency_ms, download_mbps, upload_mbps, finished_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID.String(), i, r.Config.Path, nullable(r.Latency), nullable(r.Download), nullable(r.Upload),
			formatTime(r.FinishedAt))
		if err != nil {
			return fmt.Errorf("%w: saving record %s: %v", common.ErrHistory, r.Config.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrHistory, err)
	}
	return nil
}

// Recent returns up to limit campaigns, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Campaign, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, interrupted, filters FROM campaigns
		 ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrHistory, err)
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		var (
			c                 Campaign
			id, started, done string
			filters           string
		)
		if err := rows.Scan(&id, &started, &done, &c.Interrupted, &filters); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrHistory, err)
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: bad campaign id %q: %v", common.ErrHistory, id, err)
		}
		c.StartedAt = parseTime(started)
		c.FinishedAt = parseTime(done)
		if filters != "" {
			c.Filters = strings.Split(filters, ",")
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// Records returns the records of campaign id in ledger order.
func (s *Store) Records(ctx context.Context, id uuid.UUID) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT config, latency_ms, download_mbps, upload_mbps, finished_at FROM records
		 WHERE campaign_id = ? ORDER BY position`, id.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrHistory, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r                          Record
			path, finished             string
			latency, download, upload sql.NullFloat64
		)
		if err := rows.Scan(&path, &latency, &download, &upload, &finished); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrHistory, err)
		}
		r.Config = discovery.Configuration{Path: path}
		r.Latency = fromNullable(latency)
		r.Download = fromNullable(download)
		r.Upload = fromNullable(upload)
		r.FinishedAt = parseTime(finished)
		records = append(records, r)
	}
	return records, rows.Err()
}

func nullable(m probe.Measurement) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Valid}
}

func fromNullable(v sql.NullFloat64) probe.Measurement {
	if !v.Valid {
		return probe.Absent()
	}
	return probe.Measured(v.Float64)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
