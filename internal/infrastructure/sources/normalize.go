// Package sources holds the upstream connectors and the normalization
// helpers they share.
package sources

import (
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"
)

// stateAbbreviations maps full US state and territory names to their
// two-letter codes. Sources disagree on which form they send.
var stateAbbreviations = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID",
	"illinois": "IL", "indiana": "IN", "iowa": "IA", "kansas": "KS",
	"kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS",
	"missouri": "MO", "montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH", "oklahoma": "OK",
	"oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY", "district of columbia": "DC",
	"puerto rico": "PR",
}

// NormalizeTerritory folds a state name or code into the two-letter form.
// Unknown values pass through trimmed.
func NormalizeTerritory(territory string) string {
	t := strings.TrimSpace(territory)
	if len(t) == 2 {
		return strings.ToUpper(t)
	}
	if abbr, ok := stateAbbreviations[strings.ToLower(t)]; ok {
		return abbr
	}
	return t
}

// ParseCoordinate parses a coordinate string, returning invalid for blank
// or malformed input and for the (0,0) placeholder some feeds emit.
func ParseCoordinate(raw string) null.Float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return null.Float64{}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v == 0 {
		return null.Float64{}
	}
	return null.Float64From(v)
}

// CleanPhone strips everything but digits and a leading plus.
func CleanPhone(phone string) string {
	var sb strings.Builder
	for i, c := range phone {
		if c >= '0' && c <= '9' {
			sb.WriteRune(c)
		}
		if c == '+' && i == 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
