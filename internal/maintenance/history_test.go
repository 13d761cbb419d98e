package maintenance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ukydev/asset-maintenance/internal/models"
)

func TestIsPreventive(t *testing.T) {
	assert.True(t, IsPreventive("preventive"))
	assert.True(t, IsPreventive("Preventive"))
	assert.True(t, IsPreventive("PREVENTIVO"))
	assert.True(t, IsPreventive("preventivo"))
	assert.False(t, IsPreventive("corrective"))
	assert.False(t, IsPreventive("preventative"))
	assert.False(t, IsPreventive(""))
}

func TestMatchHistory(t *testing.T) {
	ivs := intervals(250, 1000) // ids "A", "B"
	byID := IntervalIndex(ivs)
	cycle := Cycle{Length: 1000, Number: 2, Start: 1000, End: 2000}

	history := []models.ServiceEvent{
		{IntervalID: "A", Type: "preventive", Hours: 1250},  // current cycle
		{IntervalID: "B", Type: "preventivo", Hours: 400},   // previous cycle
		{IntervalID: "A", Type: "corrective", Hours: 1300},  // not preventive
		{IntervalID: "Z", Type: "preventive", Hours: 1400},  // unknown interval
		{IntervalID: "B", Type: "preventive", Hours: 1999},  // current cycle
	}

	preventive, current := MatchHistory(history, byID, cycle)

	assert.Len(t, preventive, 3, "classified and matched events only")
	assert.Len(t, current, 2)
	assert.Equal(t, 1250.0, current[0].Hours)
	assert.Equal(t, 1999.0, current[1].Hours)
}

func TestMatchHistory_BoundaryHoursExcluded(t *testing.T) {
	ivs := intervals(250, 1000)
	byID := IntervalIndex(ivs)
	cycle := Cycle{Length: 1000, Number: 2, Start: 1000, End: 2000}

	history := []models.ServiceEvent{
		{IntervalID: "A", Type: "preventive", Hours: 1000}, // exactly cycle start
		{IntervalID: "B", Type: "preventive", Hours: 2000}, // exactly cycle end
	}

	preventive, current := MatchHistory(history, byID, cycle)

	// Boundary readings belong to neither adjacent cycle.
	assert.Len(t, preventive, 2)
	assert.Empty(t, current)
}

func TestMatchHistory_ZeroHoursNeverInCycleOne(t *testing.T) {
	ivs := intervals(500)
	byID := IntervalIndex(ivs)
	cycle := Cycle{Length: 500, Number: 1, Start: 0, End: 500}

	history := []models.ServiceEvent{
		{IntervalID: "A", Type: "preventive", Hours: 0},
	}

	preventive, current := MatchHistory(history, byID, cycle)
	assert.Len(t, preventive, 1)
	assert.Empty(t, current)
}
