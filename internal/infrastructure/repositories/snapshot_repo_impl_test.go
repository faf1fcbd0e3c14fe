package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explore-sync.backend/internal/domain/entities"
	domainerrors "explore-sync.backend/internal/domain/errors"
)

func TestSnapshotRepo_NoPreviousData(t *testing.T) {
	db := newTestDB(t)
	repo := NewSnapshotRepository(db)

	_, err := repo.PreviousNames(context.Background(), entities.SourceCTX)
	assert.ErrorIs(t, err, domainerrors.ErrNoSnapshot)
}

func TestSnapshotRepo_PreviousNames(t *testing.T) {
	db := newTestDB(t)
	locRepo := NewLocationRepository(db)
	provRepo := NewGiftCardProviderRepository(db)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	require.NoError(t, locRepo.SaveBatch(ctx, []entities.MerchantLocation{
		testLocation("Starbucks", "m1", entities.SourceCTX),
		testLocation("Chipotle", "m2", entities.SourcePiggyCards),
	}))
	require.NoError(t, provRepo.ReplaceAll(ctx, []entities.GiftCardProvider{
		{MerchantID: "m1", Provider: entities.SourceCTX, SourceID: "ctx-1"},
		{MerchantID: "m2", Provider: entities.SourcePiggyCards, SourceID: "p-1"},
	}))

	names, err := repo.PreviousNames(ctx, entities.SourceCTX)
	require.NoError(t, err)
	assert.Equal(t, []string{"Starbucks"}, names)

	names, err = repo.PreviousNames(ctx, entities.SourcePiggyCards)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chipotle"}, names)
}
