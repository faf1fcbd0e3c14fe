package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"explore-sync.backend/internal/domain/entities"
	"explore-sync.backend/pkg/logger"
)

// CSVExporter writes the merged location set as a flat CSV next to the
// artifact for manual inspection of merge output.
type CSVExporter struct {
	dir     string
	enabled bool
}

func NewCSVExporter(dir string, enabled bool) *CSVExporter {
	return &CSVExporter{dir: dir, enabled: enabled}
}

var csvHeader = []string{
	"merchant_id", "source_id", "source", "name",
	"address1", "address2", "city", "territory",
	"latitude", "longitude", "type", "savings_bp", "merged",
}

// Export writes the debug CSV. Disabled exporters return immediately.
func (e *CSVExporter) Export(ctx context.Context, locations []entities.MerchantLocation) error {
	if !e.enabled {
		return nil
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(e.dir, "merged_locations.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("debug csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for i := range locations {
		if err := w.Write(csvRow(&locations[i])); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	logger.WithContext(ctx).Info("debug csv written",
		zap.String("path", path),
		zap.Int("rows", len(locations)))
	return nil
}

func csvRow(loc *entities.MerchantLocation) []string {
	lat, lon := "", ""
	if loc.Latitude.Valid {
		lat = strconv.FormatFloat(loc.Latitude.Float64, 'f', -1, 64)
	}
	if loc.Longitude.Valid {
		lon = strconv.FormatFloat(loc.Longitude.Float64, 'f', -1, 64)
	}
	savings := ""
	if loc.SavingsPercentage.Valid {
		savings = strconv.Itoa(loc.SavingsPercentage.Int)
	}
	return []string{
		loc.MerchantID, loc.SourceID, string(loc.Source), loc.Name,
		loc.Address1, loc.Address2, loc.City, loc.Territory,
		lat, lon, string(loc.Type), savings, strconv.FormatBool(loc.Merged),
	}
}
