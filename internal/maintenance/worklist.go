// Package maintenance implements the due-computation core: a pure,
// side-effect-free reconciliation of an asset's operating counter, its model's
// recurring service intervals and its maintenance history into a prioritized
// worklist. The computation is rerun in full whenever any input changes; it
// keeps no state between runs and identical inputs always produce identical
// output.
package maintenance

import (
	"sort"

	"github.com/ukydev/asset-maintenance/internal/models"
)

// statusPriority orders worklist rows by how actionable they are.
var statusPriority = map[models.DueStatus]int{
	models.DueStatusOverdue:   4,
	models.DueStatusUpcoming:  3,
	models.DueStatusScheduled: 2,
	models.DueStatusCovered:   1,
}

var urgencyPriority = map[models.Urgency]int{
	models.UrgencyHigh:   3,
	models.UrgencyMedium: 2,
	models.UrgencyLow:    1,
}

// ComputeDueItems evaluates every interval against the asset's current counter
// and history and returns the filtered, sorted worklist. Degenerate input
// (no intervals, non-finite counter) yields an empty slice, never a panic.
//
// Items that carry no actionable signal (not_applicable, completed) are
// dropped. The rest sort by status priority, then urgency, then ascending
// interval value so equal-priority ties stay deterministic.
func ComputeDueItems(currentValue float64, intervals []models.ServiceInterval, history []models.ServiceEvent) []models.DueItem {
	items := []models.DueItem{}

	cycle, ok := ResolveCycle(currentValue, intervals)
	if !ok {
		return items
	}

	byID := IntervalIndex(intervals)
	_, cycleEvents := MatchHistory(history, byID, cycle)

	for _, iv := range intervals {
		item := EvaluateInterval(iv, cycleEvents, byID, cycle, currentValue)
		if item.Status == models.DueStatusNotApplicable || item.Status == models.DueStatusCompleted {
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if statusPriority[items[i].Status] != statusPriority[items[j].Status] {
			return statusPriority[items[i].Status] > statusPriority[items[j].Status]
		}
		if urgencyPriority[items[i].Urgency] != urgencyPriority[items[j].Urgency] {
			return urgencyPriority[items[i].Urgency] > urgencyPriority[items[j].Urgency]
		}
		return items[i].IntervalValue < items[j].IntervalValue
	})

	return items
}
