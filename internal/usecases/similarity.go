package usecases

import (
	"math"
	"regexp"
	"strings"
)

const earthRadiusMiles = 3959.0

var (
	nonWordRegex        = regexp.MustCompile(`[^\w\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// haversineDistance returns the great-circle distance in miles.
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Pow(math.Sin(dLon/2), 2)
	return earthRadiusMiles * 2 * math.Asin(math.Sqrt(a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// truncateCoordinate floors (not rounds) a coordinate to the given number
// of decimal places so nearby points land in the same bucket.
func truncateCoordinate(coord float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Floor(coord*factor) / factor
}

// levenshteinSimilarity is a normalized edit-distance similarity:
// 1 - distance/max(len). Two empty strings are identical by convention.
func levenshteinSimilarity(s1, s2 string) float64 {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1, len2 := len(r1), len(r2)

	if len1 == 0 && len2 == 0 {
		return 1.0
	}
	if len1 == 0 || len2 == 0 {
		return 0.0
	}

	// Two-row DP keeps memory linear in the shorter string.
	prev := make([]int, len2+1)
	curr := make([]int, len2+1)
	for j := 0; j <= len2; j++ {
		prev[j] = j
	}
	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	maxLen := len1
	if len2 > maxLen {
		maxLen = len2
	}
	return 1.0 - float64(prev[len2])/float64(maxLen)
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// nameSimilarity compares merchant names after marketing-suffix stripping,
// case-folded. Blank input on either side scores 0.
func nameSimilarity(name1, name2 string) float64 {
	if strings.TrimSpace(name1) == "" || strings.TrimSpace(name2) == "" {
		return 0.0
	}
	n1 := strings.ToLower(RemoveSuffix(name1))
	n2 := strings.ToLower(RemoveSuffix(name2))
	return levenshteinSimilarity(n1, n2)
}

// extractStreetAddress drops trailing ZIP-like and 2-letter-state-like
// comma segments and returns the leading street segment.
func extractStreetAddress(address string) string {
	addr := strings.TrimSpace(address)
	if strings.Contains(addr, ",") {
		parts := strings.Split(addr, ",")

		last := strings.TrimSpace(parts[len(parts)-1])
		digits := strings.ReplaceAll(last, "-", "")
		if isAllDigits(digits) && (len(last) == 5 || len(last) == 10) {
			parts = parts[:len(parts)-1]
		}

		if len(parts) > 0 {
			secondLast := strings.TrimSpace(parts[len(parts)-1])
			if len(secondLast) == 2 && isAllLetters(secondLast) {
				parts = parts[:len(parts)-1]
			}
		}

		addr = strings.Join(parts, ",")
	}
	return strings.TrimSpace(strings.Split(addr, ",")[0])
}

// streetAddressSimilarity compares the street segments of two address
// lines, lowercased with non-word characters collapsed into spaces.
func streetAddressSimilarity(addr1, addr2 string) float64 {
	if strings.TrimSpace(addr1) == "" || strings.TrimSpace(addr2) == "" {
		return 0.0
	}
	street1 := extractStreetAddress(addr1)
	street2 := extractStreetAddress(addr2)
	if street1 == "" || street2 == "" {
		return 0.0
	}

	n1 := normalizeStreet(street1)
	n2 := normalizeStreet(street2)
	return levenshteinSimilarity(n1, n2)
}

func normalizeStreet(s string) string {
	s = nonWordRegex.ReplaceAllString(strings.ToLower(s), " ")
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(s, " "))
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isAllLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}

func citiesMatch(city1, city2 string) bool {
	c1 := strings.ToLower(strings.TrimSpace(city1))
	c2 := strings.ToLower(strings.TrimSpace(city2))
	if c1 == "" || c2 == "" {
		return false
	}
	return c1 == c2
}

func statesMatch(state1, state2 string) bool {
	s1 := strings.ToLower(strings.TrimSpace(state1))
	s2 := strings.ToLower(strings.TrimSpace(state2))
	if s1 == "" || s2 == "" {
		return false
	}
	return s1 == s2
}

// zipCodesMatch compares the first five characters of the raw address
// lines, which carry the ZIP when sources put it in address1.
func zipCodesMatch(zip1, zip2 string) bool {
	z1 := strings.TrimSpace(zip1)
	z2 := strings.TrimSpace(zip2)
	if z1 == "" || z2 == "" {
		return false
	}
	return firstN(z1, 5) == firstN(z2, 5)
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
