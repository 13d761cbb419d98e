package maintenance

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/asset-maintenance/internal/models"
)

// preventiveTypes are the history classifications that count as scheduled
// (preventive) maintenance. The Spanish spelling appears in legacy records.
var preventiveTypes = []string{"preventive", "preventivo"}

// IsPreventive classifies a free-text event type as preventive maintenance.
func IsPreventive(eventType string) bool {
	for _, t := range preventiveTypes {
		if strings.EqualFold(eventType, t) {
			return true
		}
	}
	return false
}

// IntervalIndex builds an id lookup over interval definitions.
func IntervalIndex(intervals []models.ServiceInterval) map[string]models.ServiceInterval {
	byID := make(map[string]models.ServiceInterval, len(intervals))
	for _, iv := range intervals {
		byID[iv.ID] = iv
	}
	return byID
}

// MatchHistory reduces a raw event history to the events the evaluator cares
// about. The first return value holds every preventive event that references a
// known interval; the second is its subset performed inside the current cycle.
//
// Cycle membership is strictly exclusive on both bounds: an event whose hours
// land exactly on a cycle boundary belongs to neither adjacent cycle. Events
// failing classification or referencing an unknown interval are dropped
// silently; absence, not error, is the contract.
func MatchHistory(history []models.ServiceEvent, byID map[string]models.ServiceInterval, c Cycle) (preventive, currentCycle []models.ServiceEvent) {
	for _, ev := range history {
		if !IsPreventive(ev.Type) {
			continue
		}
		if _, ok := byID[ev.IntervalID]; !ok {
			log.WithFields(log.Fields{
				"asset_id":    ev.AssetID,
				"interval_id": ev.IntervalID,
			}).Debug("preventive event references unknown interval, skipping")
			continue
		}
		preventive = append(preventive, ev)
		if ev.Hours > c.Start && ev.Hours < c.End {
			currentCycle = append(currentCycle, ev)
		}
	}
	return preventive, currentCycle
}
