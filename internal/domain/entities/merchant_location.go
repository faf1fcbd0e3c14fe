package entities

import (
	"github.com/volatiletech/null/v8"
)

// Source identifies which upstream produced a location record
type Source string

const (
	SourceCTX        Source = "CTX"
	SourcePiggyCards Source = "PiggyCards"
	SourceDCG        Source = "DCG"
	SourceATM        Source = "CoinATMRadar"
)

// LocationType represents how a merchant can be redeemed
type LocationType string

const (
	LocationTypePhysical LocationType = "physical"
	LocationTypeOnline   LocationType = "online"
	LocationTypeBoth     LocationType = "both"
)

// DenominationsType represents how a gift card's denominations are offered
type DenominationsType string

const (
	DenominationsFixed  DenominationsType = "fixed"
	DenominationsMinMax DenominationsType = "min-max"
)

// DaySchedule holds a single day's opening hours as free-form text
type DaySchedule struct {
	Open  null.String `json:"open,omitempty"`
	Close null.String `json:"close,omitempty"`
}

// WeekSchedule holds seven days of opening hours
type WeekSchedule struct {
	Mon DaySchedule `json:"mon"`
	Tue DaySchedule `json:"tue"`
	Wed DaySchedule `json:"wed"`
	Thu DaySchedule `json:"thu"`
	Fri DaySchedule `json:"fri"`
	Sat DaySchedule `json:"sat"`
	Sun DaySchedule `json:"sun"`
}

// MerchantLocation is the canonical normalized record every source connector
// produces. Merging never mutates a record in place; derived records are
// built with Clone plus field overrides.
type MerchantLocation struct {
	MerchantID string `json:"merchantId"`
	SourceID   string `json:"sourceId"`
	Source     Source `json:"source"`

	Name         string      `json:"name"`
	Address1     string      `json:"address1,omitempty"`
	Address2     string      `json:"address2,omitempty"`
	Address3     string      `json:"address3,omitempty"`
	Address4     string      `json:"address4,omitempty"`
	City         string      `json:"city,omitempty"`
	Territory    string      `json:"territory,omitempty"`
	Website      string      `json:"website,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	LogoLocation string      `json:"logoLocation,omitempty"`
	CoverImage   string      `json:"coverImage,omitempty"`
	PaymentMeth  string      `json:"paymentMethod,omitempty"`
	Deeplink     null.String `json:"deeplink,omitempty"`

	Latitude  null.Float64 `json:"latitude,omitempty"`
	Longitude null.Float64 `json:"longitude,omitempty"`

	Active            bool              `json:"active"`
	Type              LocationType      `json:"type"`
	RedeemType        string            `json:"redeemType,omitempty"`
	SavingsPercentage null.Int          `json:"savingsPercentage,omitempty"`
	DenominationsType DenominationsType `json:"denominationsType,omitempty"`

	Schedule WeekSchedule `json:"schedule"`

	// Merged marks a record produced by collapsing a reference/candidate pair.
	Merged bool `json:"merged,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (m *MerchantLocation) HasCoordinates() bool {
	return m.Latitude.Valid && m.Longitude.Valid
}

// Valid reports whether the record satisfies the location invariant:
// online records are always valid, physical/both records need coordinates
// or at least one street address line.
func (m *MerchantLocation) Valid() bool {
	if m.Type == LocationTypeOnline {
		return true
	}
	if m.HasCoordinates() {
		return true
	}
	return m.Address1 != "" || m.Address2 != ""
}

// Clone returns a copy; value semantics make this a plain dereference but
// the call site reads as intent (copy-with-overrides merging).
func (m *MerchantLocation) Clone() MerchantLocation {
	return *m
}
