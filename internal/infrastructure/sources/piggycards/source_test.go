package piggycards

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explore-sync.backend/internal/config"
	"explore-sync.backend/internal/domain/entities"
	"explore-sync.backend/internal/usecases"
	"explore-sync.backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("development")
	os.Exit(m.Run())
}

func testSource(t *testing.T, handler http.HandlerFunc) *MerchantSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.PiggyCardsConfig{
		BaseURL:    srv.URL,
		APIUser:    "user",
		APIKey:     "key",
		RatePerSec: 1000,
		Timeout:    2 * time.Second,
	})
	return NewMerchantSource(client, usecases.NewNameRegistry())
}

func TestFetchMapsBrands(t *testing.T) {
	src := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user", r.Header.Get("X-Api-User"))
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		_ = json.NewEncoder(w).Encode(catalogResponse{Data: []apiBrand{
			{
				ID: "p-1", Name: "Chipotle", Savings: 3.5,
				Stores: []apiStore{
					{Address: "42 Congress Ave", City: "Austin", State: "texas", Zip: "78701", Latitude: 30.2672, Longitude: -97.7431},
					{Address: "", City: "", State: ""},
				},
			},
			{ID: "p-2", Name: "Airbnb US", URL: "https://airbnb.com"},
			{ID: "p-3", Name: "Sears", Disabled: true},
		}})
	})

	result, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Sears"}, result.Disabled)
	require.Len(t, result.Locations, 2)

	store := result.Locations[0]
	assert.Equal(t, entities.LocationTypePhysical, store.Type)
	assert.Equal(t, "TX", store.Territory)
	assert.Equal(t, "78701", store.Address2)
	assert.Equal(t, 350, store.SavingsPercentage.Int)
	assert.True(t, store.Latitude.Valid)

	online := result.Locations[1]
	assert.Equal(t, entities.LocationTypeOnline, online.Type)
	assert.Equal(t, "Airbnb US", online.Name)
}

func TestFetchDropsInvalidStores(t *testing.T) {
	src := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(catalogResponse{Data: []apiBrand{
			// Physical store with no coordinates and no address is useless.
			{ID: "p-1", Name: "Ghost Mart", Stores: []apiStore{{City: "Nowhere"}}},
		}})
	})

	result, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Locations)
}
