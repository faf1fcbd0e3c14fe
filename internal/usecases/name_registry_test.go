package usecases

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explore-sync.backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("development")
	os.Exit(m.Run())
}

func TestRemoveSuffix(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Starbucks USD", "Starbucks"},
		{"Starbucks USA", "Starbucks"},
		{"Starbucks US", "Starbucks"},
		{"Nike®", "Nike"},
		{"1-800-Flowers (Same Day Delivery)", "1-800-Flowers"},
		{"Domino’s", "Domino's"},
		{"  Starbucks  ", "Starbucks"},
		{"Starbucks", "Starbucks"},
		// Only the trailing token is treated as a suffix.
		{"US Foods", "US Foods"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, RemoveSuffix(tt.in), tt.in)
	}
}

func TestCanonicalNameManualOverride(t *testing.T) {
	r := NewNameRegistry()
	r.Register("Domino's", "https://cdn/dominos.png", "id-dominos")

	// The variant keys onto the same entry as the canonical spelling.
	assert.Equal(t, "Domino's", r.CanonicalName("Domino's Pizza"))
	assert.Equal(t, "id-dominos", r.StableID("Domino's Pizza"))
}

func TestCanonicalNameUnescapesEntities(t *testing.T) {
	r := NewNameRegistry()
	assert.Equal(t, "Barnes & Noble", r.CanonicalName("Barnes &amp; Noble"))
}

func TestRegisterFirstSeenWins(t *testing.T) {
	r := NewNameRegistry()
	r.Register("Starbucks", "logo-a", "id-a")
	r.Register("STARBUCKS", "logo-b", "id-b")

	assert.Equal(t, "Starbucks", r.CanonicalName("starbucks"))
	assert.Equal(t, "logo-a", r.Logo("Starbucks"))
	assert.Equal(t, "id-a", r.StableID("Starbucks"))
}

func TestStableIDDeterministic(t *testing.T) {
	a := NewNameRegistry()
	b := NewNameRegistry()

	// Two independent registries derive the same id for the same name.
	idA := a.StableID("Corner Bakery")
	idB := b.StableID("Corner Bakery")
	require.Equal(t, idA, idB)

	// Idempotent within a registry.
	assert.Equal(t, idA, a.StableID("Corner Bakery"))

	// Suffix variants collapse to the same id.
	assert.Equal(t, idA, a.StableID("Corner Bakery US"))

	// Different names get different ids.
	assert.NotEqual(t, idA, a.StableID("Corner Store"))
}

func TestStableIDIsValidUUID(t *testing.T) {
	r := NewNameRegistry()
	id := r.StableID("Starbucks")
	assert.Len(t, id, 36)
	assert.Equal(t, id, r.StableID("starbucks"))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewNameRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Register("Starbucks", "logo", "id-1")
				_ = r.StableID("Starbucks")
				_ = r.CanonicalName("STARBUCKS US")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, "id-1", r.StableID("Starbucks"))
}
