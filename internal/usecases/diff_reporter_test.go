package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffAddedAndRemoved(t *testing.T) {
	d := NewDiffReporter(NewNameRegistry())

	previous := []string{"Starbucks", "Burger King", "Panera Bread"}
	current := []string{"Starbucks", "Panera Bread", "Chipotle"}

	diff := d.Diff(previous, current)
	assert.Equal(t, []string{"Chipotle"}, diff.Added)
	assert.Equal(t, []string{"Burger King"}, diff.Removed)
	assert.False(t, diff.Empty())
}

func TestDiffIgnoresCanonicalizationChurn(t *testing.T) {
	d := NewDiffReporter(NewNameRegistry())

	// Suffix and apostrophe variants are the same merchant.
	previous := []string{"Starbucks US", "Domino’s"}
	current := []string{"Starbucks", "Domino's"}

	diff := d.Diff(previous, current)
	assert.True(t, diff.Empty())
}

func TestDiffEmptyInputs(t *testing.T) {
	d := NewDiffReporter(NewNameRegistry())

	diff := d.Diff(nil, []string{"Starbucks"})
	assert.Equal(t, []string{"Starbucks"}, diff.Added)
	assert.Empty(t, diff.Removed)

	diff = d.Diff([]string{"Starbucks"}, nil)
	assert.Empty(t, diff.Added)
	assert.Equal(t, []string{"Starbucks"}, diff.Removed)

	assert.True(t, d.Diff(nil, nil).Empty())
}

func TestDiffSortedOutput(t *testing.T) {
	d := NewDiffReporter(NewNameRegistry())

	diff := d.Diff(nil, []string{"Zara", "Aldi", "Macy's"})
	assert.Equal(t, []string{"Aldi", "Macy's", "Zara"}, diff.Added)
}
