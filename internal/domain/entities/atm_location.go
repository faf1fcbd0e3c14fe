package entities

import (
	"github.com/volatiletech/null/v8"
)

// AtmLocation is a normalized ATM record from the ATM locator source. ATMs
// bypass the merge engine (a single source contributes them) and are
// persisted alongside the merged merchant list.
type AtmLocation struct {
	SourceID     string       `json:"sourceId"`
	Source       Source       `json:"source"`
	Name         string       `json:"name"`
	Manufacturer string       `json:"manufacturer,omitempty"`
	Address      string       `json:"address,omitempty"`
	City         string       `json:"city,omitempty"`
	State        string       `json:"state,omitempty"`
	Postcode     string       `json:"postcode,omitempty"`
	Latitude     null.Float64 `json:"latitude,omitempty"`
	Longitude    null.Float64 `json:"longitude,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Website      string       `json:"website,omitempty"`
	LogoLocation string       `json:"logoLocation,omitempty"`
	CoverImage   string       `json:"coverImage,omitempty"`
	BuySell      string       `json:"buySell,omitempty"`
}
