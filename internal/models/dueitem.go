package models

import "time"

// DueStatus is the evaluated state of one service interval for one asset.
type DueStatus string

const (
	DueStatusNotApplicable DueStatus = "not_applicable"
	DueStatusCompleted     DueStatus = "completed"
	DueStatusCovered       DueStatus = "covered"
	DueStatusOverdue       DueStatus = "overdue"
	DueStatusUpcoming      DueStatus = "upcoming"
	DueStatusScheduled     DueStatus = "scheduled"
)

// Urgency ranks how soon a due item needs attention.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// DueItem is one row of the upcoming-maintenance worklist. It is derived on
// every evaluation and never persisted.
type DueItem struct {
	IntervalID          string       `json:"interval_id"`
	IntervalName        string       `json:"interval_name"`
	Type                IntervalType `json:"type"`
	IntervalValue       float64      `json:"interval_value"`
	CurrentValue        float64      `json:"current_value"`
	TargetValue         float64      `json:"target_value"`
	ValueRemaining      float64      `json:"value_remaining"`
	Status              DueStatus    `json:"status"`
	Urgency             Urgency      `json:"urgency"`
	Progress            int          `json:"progress"` // 0-100
	CycleForService     int          `json:"cycle_for_service"`
	CycleLength         float64      `json:"cycle_length"`
	LastMaintenanceDate *time.Time   `json:"last_maintenance_date,omitempty"`
	EstimatedDate       time.Time    `json:"estimated_date"`
	WasPerformed        bool         `json:"was_performed"`
}
