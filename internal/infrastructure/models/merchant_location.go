package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// MerchantLocation is the artifact-database row for one merged location.
type MerchantLocation struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	MerchantID string `gorm:"type:varchar(64);index;not null"`
	SourceID   string `gorm:"type:varchar(128)"`
	Source     string `gorm:"type:varchar(32);index;not null"`

	Name         string      `gorm:"type:varchar(255);index;not null"`
	Address1     string      `gorm:"type:varchar(255)"`
	Address2     string      `gorm:"type:varchar(255)"`
	Address3     string      `gorm:"type:varchar(255)"`
	Address4     string      `gorm:"type:varchar(255)"`
	City         string      `gorm:"type:varchar(128)"`
	Territory    string      `gorm:"type:varchar(64)"`
	Website      string      `gorm:"type:varchar(512)"`
	Phone        string      `gorm:"type:varchar(64)"`
	LogoLocation string      `gorm:"type:varchar(512)"`
	CoverImage   string      `gorm:"type:varchar(512)"`
	PaymentMeth  string      `gorm:"column:payment_method;type:varchar(64)"`
	Deeplink     null.String `gorm:"type:varchar(512)"`

	Latitude  null.Float64 `gorm:"index:idx_merchant_locations_coords"`
	Longitude null.Float64 `gorm:"index:idx_merchant_locations_coords"`

	Active            bool     `gorm:"not null;default:true"`
	Type              string   `gorm:"type:varchar(16);not null"`
	RedeemType        string   `gorm:"type:varchar(32)"`
	SavingsPercentage null.Int ``
	DenominationsType string   `gorm:"type:varchar(16)"`

	// Schedule holds the opening-hours week as JSON.
	Schedule string `gorm:"type:text"`

	Merged    bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (MerchantLocation) TableName() string {
	return "merchant_locations"
}
