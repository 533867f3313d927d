package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVisitTypeWeight(t *testing.T) {
	assert.InDelta(t, 0.5, VisitWebLinkActivation.Weight(), 1e-9)
	assert.InDelta(t, 1.5, VisitWebSearchBar.Weight(), 1e-9)
	assert.InDelta(t, 1.5, VisitWebFromNote.Weight(), 1e-9)
	assert.InDelta(t, 1, VisitWebRoot.Weight(), 1e-9)
}

func TestDecayFrecency(t *testing.T) {
	link := LinkIDFor("https://go.dev/")
	halfLife := time.Hour
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	first := DecayFrecency(nil, link, FrecencyWebVisit30d0, 1, 1.5, start, halfLife)
	assert.InDelta(t, 1.5, first.Score, 1e-9)

	second := DecayFrecency(&first, link, FrecencyWebVisit30d0, 1, 1, start.Add(halfLife), halfLife)
	assert.InDelta(t, 0.75+1, second.Score, 1e-9)
	assert.True(t, second.LastTimestamp.Equal(start.Add(halfLife)))

	late := DecayFrecency(&second, link, FrecencyWebVisit30d0, 2, 1, start, halfLife)
	assert.InDelta(t, 1.75+1, late.Score, 1e-9, "older updates decay forward")
	assert.True(t, late.LastTimestamp.Equal(second.LastTimestamp))

	assert.Greater(t, second.SortValue, first.SortValue)
	assert.True(t, math.IsInf(FrecencySortValue(0, start, halfLife), -1))
}
