package models

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

type LogLevel string

const (
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// CrawlRun is the operational record of one job invocation.
type CrawlRun struct {
	ID             int64      `json:"id" db:"id"`
	JobID          uuid.UUID  `json:"job_id" db:"job_id"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	FinishedAt     *time.Time `json:"finished_at" db:"finished_at"`
	Status         RunStatus  `json:"status" db:"status"`
	CriteriaTotal  int        `json:"criteria_total" db:"criteria_total"`
	CriteriaFailed int        `json:"criteria_failed" db:"criteria_failed"`
	ListingsFound  int        `json:"listings_found" db:"listings_found"`
	ListingsNew    int        `json:"listings_new" db:"listings_new"`
	Message        string     `json:"message" db:"message"`
}

// CrawlSummary is the job-level result returned to the invoking
// scheduler.
type CrawlSummary struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}
