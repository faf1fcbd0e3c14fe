package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// AtmLocation is the artifact-database row for one ATM.
type AtmLocation struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	SourceID     string `gorm:"type:varchar(128);index"`
	Source       string `gorm:"type:varchar(32);not null"`
	Name         string `gorm:"type:varchar(255)"`
	Manufacturer string `gorm:"type:varchar(128)"`
	Address      string `gorm:"type:varchar(255)"`
	City         string `gorm:"type:varchar(128)"`
	State        string `gorm:"type:varchar(64)"`
	Postcode     string `gorm:"type:varchar(16)"`

	Latitude  null.Float64 ``
	Longitude null.Float64 ``

	Phone        string `gorm:"type:varchar(64)"`
	Website      string `gorm:"type:varchar(512)"`
	LogoLocation string `gorm:"type:varchar(512)"`
	CoverImage   string `gorm:"type:varchar(512)"`
	BuySell      string `gorm:"type:varchar(16)"`

	CreatedAt time.Time
}

func (AtmLocation) TableName() string {
	return "atm_locations"
}
