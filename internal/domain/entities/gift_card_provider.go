package entities

import (
	"github.com/volatiletech/null/v8"
)

// GiftCardProvider is an attribution row: one per (canonical merchant,
// contributing source) pair. SourceID keeps the provider's own merchant id
// so redemptions can be routed back to the right upstream.
type GiftCardProvider struct {
	MerchantID        string            `json:"merchantId"`
	Provider          Source            `json:"provider"`
	SourceID          string            `json:"sourceId"`
	Active            bool              `json:"active"`
	RedeemType        string            `json:"redeemType"`
	SavingsPercentage null.Int          `json:"savingsPercentage,omitempty"`
	DenominationsType DenominationsType `json:"denominationsType,omitempty"`
}

// Key returns the dedup key for the attribution table. Repeated merges of
// the same (merchant, provider) pair must not produce duplicate rows.
func (g *GiftCardProvider) Key() string {
	return g.MerchantID + "_" + string(g.Provider)
}
