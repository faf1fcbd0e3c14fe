package entities

// MatchInfo is a resolved pairing between one candidate-list record and one
// reference-list record. Indices point into the two input slices handed to
// the matcher. Immutable once produced.
type MatchInfo struct {
	CandidateIndex    int     `json:"candidateIndex"`
	ReferenceIndex    int     `json:"referenceIndex"`
	DistanceMiles     float64 `json:"distanceMiles"`
	NameSimilarity    float64 `json:"nameSimilarity"`
	AddressSimilarity float64 `json:"addressSimilarity"`
	Confidence        float64 `json:"confidence"`
	Reasons           string  `json:"reasons"`
	CityMatch         bool    `json:"cityMatch"`
	StateMatch        bool    `json:"stateMatch"`
}

// MatchingParameters configures the spatial/textual matcher.
type MatchingParameters struct {
	// MaxDistance is the hard cutoff in miles for any candidate pairing.
	MaxDistance float64
	// MinNameSimilarity gates matches on name similarity unless IgnoreName.
	MinNameSimilarity float64
	// MinConfidence is the floor on combined confidence.
	MinConfidence float64
	// CoordinatePrecision is the number of decimal places used for the
	// exact-bucket phase. 4 decimals is roughly 11 meters.
	CoordinatePrecision int
	// IncludeAddress enables street-address similarity as a signal.
	IncludeAddress bool
	// ShowAllMatches keeps every passing pair in the proximity phase
	// instead of only the highest-confidence one per candidate.
	ShowAllMatches bool

	IgnoreName  bool
	IgnoreCity  bool
	IgnoreState bool
	IgnoreZip   bool

	// Confidence ceilings applied when the coordinate signal is weak.
	// Empirically tuned; kept configurable for recalibration.
	WeakCoordinateCeiling float64 // applied when coordinateScore < 0.5
	FairCoordinateCeiling float64 // applied when coordinateScore < 0.7
}

// DefaultMatchingParameters mirrors the production defaults used for the
// CTX vs PiggyCards run.
func DefaultMatchingParameters() MatchingParameters {
	return MatchingParameters{
		MaxDistance:           0.2,
		MinNameSimilarity:     0.9,
		MinConfidence:         0.8,
		CoordinatePrecision:   4,
		IncludeAddress:        true,
		ShowAllMatches:        true,
		IgnoreName:            false,
		IgnoreCity:            true,
		IgnoreState:           true,
		IgnoreZip:             true,
		WeakCoordinateCeiling: 0.4,
		FairCoordinateCeiling: 0.6,
	}
}
