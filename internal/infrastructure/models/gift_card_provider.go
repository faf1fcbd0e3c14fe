package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// GiftCardProvider is the attribution row linking a canonical merchant to
// one contributing upstream.
type GiftCardProvider struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	MerchantID string `gorm:"type:varchar(64);uniqueIndex:idx_gift_card_providers_key;not null"`
	Provider   string `gorm:"type:varchar(32);uniqueIndex:idx_gift_card_providers_key;not null"`
	SourceID   string `gorm:"type:varchar(128)"`

	Active            bool     `gorm:"not null;default:true"`
	RedeemType        string   `gorm:"type:varchar(32)"`
	SavingsPercentage null.Int ``
	DenominationsType string   `gorm:"type:varchar(16)"`

	CreatedAt time.Time
}

func (GiftCardProvider) TableName() string {
	return "gift_card_providers"
}
