package entities

import (
	"time"

	"github.com/google/uuid"
)

// SyncRunStatus represents the outcome of one pipeline run
type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "running"
	SyncRunStatusSucceeded SyncRunStatus = "succeeded"
	SyncRunStatusSkipped   SyncRunStatus = "skipped"
	SyncRunStatusCanceled  SyncRunStatus = "canceled"
	SyncRunStatusFailed    SyncRunStatus = "failed"
)

// SyncRun is one recorded execution of the sync pipeline.
type SyncRun struct {
	ID              uuid.UUID     `json:"id"`
	Status          SyncRunStatus `json:"status"`
	TotalMerchants  int           `json:"totalMerchants"`
	TotalLocations  int           `json:"totalLocations"`
	MergedLocations int           `json:"mergedLocations"`
	TotalAtms       int           `json:"totalAtms"`
	Checksum        string        `json:"checksum,omitempty"`
	Report          string        `json:"report,omitempty"`
	Error           string        `json:"error,omitempty"`
	StartedAt       time.Time     `json:"startedAt"`
	FinishedAt      time.Time     `json:"finishedAt"`
}
