package maintenance

import (
	"math"
	"time"

	"github.com/ukydev/asset-maintenance/internal/models"
)

// Threshold constants carried over from the legacy calculator. Their exact
// values are load-bearing for behavioral parity.
const (
	// upcomingWindow is the early-warning distance before the due point at
	// which an interval turns from scheduled to upcoming.
	upcomingWindow = 100.0
	// lookaheadHorizon caps how far into the next cycle a rolled-over due
	// point may sit and still appear on the worklist as scheduled.
	lookaheadHorizon = 1000.0
	// overdueSeverityFactor scales the interval value to decide when an
	// overdue item escalates from medium to high urgency.
	overdueSeverityFactor = 0.5
	// upcomingHighCutoff is the remaining distance at which an upcoming item
	// escalates to high urgency.
	upcomingHighCutoff = 50.0
)

// EvaluateInterval computes the DueItem for one service interval given the
// asset's current cycle and the preventive events performed inside it. byID
// must index every interval of the model so coverage can compare an event's
// originating interval against the one under evaluation.
func EvaluateInterval(iv models.ServiceInterval, cycleEvents []models.ServiceEvent, byID map[string]models.ServiceInterval, c Cycle, currentValue float64) models.DueItem {
	item := models.DueItem{
		IntervalID:      iv.ID,
		IntervalName:    iv.Name,
		Type:            iv.Type,
		IntervalValue:   iv.IntervalValue,
		CurrentValue:    currentValue,
		CycleForService: c.Number,
		CycleLength:     c.Length,
		Urgency:         models.UrgencyLow,
		EstimatedDate:   time.Now(),
	}

	// First-cycle-only intervals (break-in services) stop existing after
	// cycle 1.
	if iv.FirstCycleOnly && c.Number != 1 {
		item.Status = models.DueStatusNotApplicable
		return item
	}

	dueHour := float64(c.Number-1)*c.Length + iv.IntervalValue

	if dueHour > c.End {
		// The due point rolls into the next cycle. Only surface it if it
		// falls within the lookahead horizon; anything farther out carries no
		// actionable signal yet.
		dueHour = float64(c.Number)*c.Length + iv.IntervalValue
		item.TargetValue = dueHour
		item.CycleForService = c.Number + 1
		if dueHour-currentValue <= lookaheadHorizon {
			item.Status = models.DueStatusScheduled
		} else {
			item.Status = models.DueStatusNotApplicable
		}
	} else {
		item.TargetValue = dueHour
		item.Status = resolveCycleStatus(iv, cycleEvents, byID, dueHour, currentValue)
		if item.Status == models.DueStatusCompleted {
			if ev := firstCompletion(iv.ID, cycleEvents); ev != nil {
				d := ev.Date
				item.LastMaintenanceDate = &d
				item.WasPerformed = true
			}
		}
	}

	item.Urgency = resolveUrgency(item.Status, iv.IntervalValue, dueHour, currentValue)
	item.Progress, item.ValueRemaining = resolveProgress(item.Status, dueHour, currentValue)
	return item
}

// resolveCycleStatus decides the status of an interval whose due point falls
// inside the current cycle.
func resolveCycleStatus(iv models.ServiceInterval, cycleEvents []models.ServiceEvent, byID map[string]models.ServiceInterval, dueHour, currentValue float64) models.DueStatus {
	if firstCompletion(iv.ID, cycleEvents) != nil {
		return models.DueStatusCompleted
	}
	if coveredBy(iv, cycleEvents, byID) {
		return models.DueStatusCovered
	}
	switch {
	case currentValue >= dueHour:
		return models.DueStatusOverdue
	case currentValue >= dueHour-upcomingWindow:
		return models.DueStatusUpcoming
	default:
		return models.DueStatusScheduled
	}
}

// firstCompletion returns the first current-cycle event performed against
// exactly this interval, or nil.
func firstCompletion(intervalID string, cycleEvents []models.ServiceEvent) *models.ServiceEvent {
	for i := range cycleEvents {
		if cycleEvents[i].IntervalID == intervalID {
			return &cycleEvents[i]
		}
	}
	return nil
}

// coveredBy reports whether some current-cycle event satisfies this interval
// through a larger-or-equal service. Coverage requires the same unit type and,
// when both sides declare a maintenance category, the same category; a missing
// category on either side imposes no constraint. Coverage is monotonic: a
// 1500-unit service covers every smaller same-type interval of the cycle.
func coveredBy(iv models.ServiceInterval, cycleEvents []models.ServiceEvent, byID map[string]models.ServiceInterval) bool {
	for _, ev := range cycleEvents {
		performed, ok := byID[ev.IntervalID]
		if !ok {
			continue
		}
		if performed.Type != iv.Type {
			continue
		}
		if performed.Category != "" && iv.Category != "" && performed.Category != iv.Category {
			continue
		}
		if performed.IntervalValue >= iv.IntervalValue {
			return true
		}
	}
	return false
}

func resolveUrgency(status models.DueStatus, intervalValue, dueHour, currentValue float64) models.Urgency {
	switch status {
	case models.DueStatusOverdue:
		if currentValue-dueHour > intervalValue*overdueSeverityFactor {
			return models.UrgencyHigh
		}
		return models.UrgencyMedium
	case models.DueStatusUpcoming:
		if dueHour-currentValue <= upcomingHighCutoff {
			return models.UrgencyHigh
		}
		return models.UrgencyMedium
	default:
		return models.UrgencyLow
	}
}

func resolveProgress(status models.DueStatus, dueHour, currentValue float64) (progress int, remaining float64) {
	switch status {
	case models.DueStatusCompleted, models.DueStatusCovered:
		return 100, 0
	case models.DueStatusOverdue:
		// Negative remaining signals how far past due the asset has run.
		return 100, -(currentValue - dueHour)
	default:
		if dueHour <= 0 {
			return 0, dueHour - currentValue
		}
		return int(math.Round(currentValue / dueHour * 100)), dueHour - currentValue
	}
}
