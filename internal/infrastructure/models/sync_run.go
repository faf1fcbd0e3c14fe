package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncRun is the run-history row kept in the service database, not the
// published artifact.
type SyncRun struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status          string    `gorm:"type:varchar(16);index;not null"`
	TotalMerchants  int       ``
	TotalLocations  int       ``
	MergedLocations int       ``
	TotalAtms       int       ``
	Checksum        string    `gorm:"type:varchar(16)"`
	Report          string    `gorm:"type:text"`
	Error           string    `gorm:"type:text"`
	StartedAt       time.Time ``
	FinishedAt      time.Time ``
	CreatedAt       time.Time
}

func (SyncRun) TableName() string {
	return "sync_runs"
}
