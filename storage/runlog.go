package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"sslv_watcher/models"
)

// RunLog keeps operational data (crawl runs and their log lines) in a
// local SQLite file, separate from the domain database.
type RunLog struct {
	db *sql.DB
}

func NewRunLog(path string) (*RunLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		status TEXT NOT NULL,
		criteria_total INTEGER NOT NULL DEFAULT 0,
		criteria_failed INTEGER NOT NULL DEFAULT 0,
		listings_found INTEGER NOT NULL DEFAULT 0,
		listings_new INTEGER NOT NULL DEFAULT 0,
		message TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS crawl_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER,
		timestamp TIMESTAMP NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		criteria TEXT NOT NULL DEFAULT ''
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &RunLog{db: db}, nil
}

func (r *RunLog) Close() error {
	return r.db.Close()
}

func (r *RunLog) CreateRun(run *models.CrawlRun) error {
	res, err := r.db.Exec(
		`INSERT INTO crawl_runs (job_id, started_at, status) VALUES (?, ?, ?)`,
		run.JobID.String(), run.StartedAt, run.Status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	run.ID = id
	return nil
}

func (r *RunLog) UpdateRun(run *models.CrawlRun) error {
	_, err := r.db.Exec(
		`UPDATE crawl_runs SET finished_at = ?, status = ?, criteria_total = ?,
			criteria_failed = ?, listings_found = ?, listings_new = ?, message = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.CriteriaTotal,
		run.CriteriaFailed, run.ListingsFound, run.ListingsNew, run.Message,
		run.ID,
	)
	return err
}

func (r *RunLog) Log(runID int64, level models.LogLevel, message, criteria string) {
	// Best-effort; a failed log write never disturbs the crawl.
	r.db.Exec(
		`INSERT INTO crawl_logs (run_id, timestamp, level, message, criteria) VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now(), level, message, criteria,
	)
}

func (r *RunLog) RecentRuns(limit int) ([]models.CrawlRun, error) {
	rows, err := r.db.Query(
		`SELECT id, job_id, started_at, finished_at, status, criteria_total,
			criteria_failed, listings_found, listings_new, message
		FROM crawl_runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.CrawlRun
	for rows.Next() {
		var run models.CrawlRun
		var jobID string
		if err := rows.Scan(
			&run.ID, &jobID, &run.StartedAt, &run.FinishedAt, &run.Status, &run.CriteriaTotal,
			&run.CriteriaFailed, &run.ListingsFound, &run.ListingsNew, &run.Message,
		); err != nil {
			return nil, err
		}
		run.JobID = parseJobID(jobID)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func parseJobID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
