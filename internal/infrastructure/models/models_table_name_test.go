package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "merchant_locations", MerchantLocation{}.TableName())
	assert.Equal(t, "gift_card_providers", GiftCardProvider{}.TableName())
	assert.Equal(t, "atm_locations", AtmLocation{}.TableName())
	assert.Equal(t, "location_matches", LocationMatch{}.TableName())
	assert.Equal(t, "sync_runs", SyncRun{}.TableName())
}
