package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTerritory(t *testing.T) {
	assert.Equal(t, "TX", NormalizeTerritory("Texas"))
	assert.Equal(t, "TX", NormalizeTerritory("texas"))
	assert.Equal(t, "TX", NormalizeTerritory("tx"))
	assert.Equal(t, "NY", NormalizeTerritory(" New York "))
	assert.Equal(t, "DC", NormalizeTerritory("District of Columbia"))
	assert.Equal(t, "Ontario", NormalizeTerritory("Ontario"))
	assert.Equal(t, "", NormalizeTerritory("  "))
}

func TestParseCoordinate(t *testing.T) {
	assert.Equal(t, 40.7128, ParseCoordinate("40.7128").Float64)
	assert.True(t, ParseCoordinate("-74.0060").Valid)
	assert.False(t, ParseCoordinate("").Valid)
	assert.False(t, ParseCoordinate("abc").Valid)
	// (0,0) placeholders are treated as missing.
	assert.False(t, ParseCoordinate("0").Valid)
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "+12125550101", CleanPhone("+1 (212) 555-0101"))
	assert.Equal(t, "2125550101", CleanPhone("212.555.0101"))
	assert.Equal(t, "", CleanPhone(""))
}
