package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"explore-sync.backend/internal/domain/entities"
	"explore-sync.backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("development")
	os.Exit(m.Run())
}

func TestExportWritesRows(t *testing.T) {
	dir := t.TempDir()
	e := NewCSVExporter(dir, true)

	locations := []entities.MerchantLocation{
		{
			MerchantID:        "m-1",
			SourceID:          "ctx-1",
			Source:            entities.SourceCTX,
			Name:              "Dash N Drink",
			Address1:          "1 Main St",
			City:              "Concord",
			Territory:         "NH",
			Latitude:          null.Float64From(43.2081),
			Longitude:         null.Float64From(-71.5376),
			Type:              entities.LocationTypePhysical,
			SavingsPercentage: null.IntFrom(450),
			Merged:            true,
		},
		{
			MerchantID: "m-2",
			SourceID:   "piggy-9",
			Source:     entities.SourcePiggyCards,
			Name:       "Web Only Shop",
			Type:       entities.LocationTypeOnline,
		},
	}

	require.NoError(t, e.Export(context.Background(), locations))

	f, err := os.Open(filepath.Join(dir, "merged_locations.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "Dash N Drink", rows[1][3])
	assert.Equal(t, "43.2081", rows[1][8])
	assert.Equal(t, "450", rows[1][11])
	assert.Equal(t, "true", rows[1][12])
	assert.Equal(t, "", rows[2][8])
	assert.Equal(t, "false", rows[2][12])
}

func TestExportDisabledWritesNothing(t *testing.T) {
	dir := t.TempDir()
	e := NewCSVExporter(dir, false)

	require.NoError(t, e.Export(context.Background(), []entities.MerchantLocation{{Name: "x"}}))

	_, err := os.Stat(filepath.Join(dir, "merged_locations.csv"))
	assert.True(t, os.IsNotExist(err))
}
