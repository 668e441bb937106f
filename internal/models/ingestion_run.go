package models

import (
	"time"

	"gorm.io/datatypes"
)

// RunStatus represents the outcome of an ingestion batch
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
)

// RowError is a recoverable problem with a single uploaded row or filter.
type RowError struct {
	Row     int    `json:"row"`
	VideoID string `json:"video_id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IngestionRun records one upload attempt, successful or not.
type IngestionRun struct {
	ID            uint                          `json:"id" gorm:"primaryKey"`
	RunID         string                        `json:"run_id" gorm:"uniqueIndex;not null"`
	ChannelID     string                        `json:"channel_id" gorm:"index"`
	Source        string                        `json:"source"`
	Status        RunStatus                     `json:"status" gorm:"index"`
	TotalRows     int                           `json:"total_rows"`
	InsertedCount int                           `json:"inserted_count"`
	ActiveCount   int                           `json:"active_count"`
	Errors        datatypes.JSONSlice[RowError] `json:"errors"`
	FailureReason string                        `json:"failure_reason,omitempty"`
	StartedAt     time.Time                     `json:"started_at" gorm:"index"`
	FinishedAt    time.Time                     `json:"finished_at"`
}

// Duration returns how long the run took.
func (r *IngestionRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
