package models

import "time"

// LocationMatch is the audit row for one accepted pairing.
type LocationMatch struct {
	ID                uint    `gorm:"primaryKey;autoIncrement"`
	CandidateIndex    int     `gorm:"not null"`
	ReferenceIndex    int     `gorm:"not null"`
	DistanceMiles     float64 `gorm:"not null"`
	NameSimilarity    float64 ``
	AddressSimilarity float64 ``
	Confidence        float64 `gorm:"index;not null"`
	Reasons           string  `gorm:"type:varchar(255)"`
	CityMatch         bool    ``
	StateMatch        bool    ``
	CreatedAt         time.Time
}

func (LocationMatch) TableName() string {
	return "location_matches"
}
