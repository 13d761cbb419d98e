package models

// IntervalType is the operating unit a service interval is metered in.
type IntervalType string

const (
	IntervalTypeHours      IntervalType = "hours"
	IntervalTypeKilometers IntervalType = "kilometers"
)

// IsValidIntervalType checks if an interval type is valid
func IsValidIntervalType(t IntervalType) bool {
	switch t {
	case IntervalTypeHours, IntervalTypeKilometers:
		return true
	default:
		return false
	}
}

// ServiceInterval is a recurring maintenance requirement for an equipment
// model: "every IntervalValue units, do this service".
type ServiceInterval struct {
	ID            string       `bson:"_id,omitempty" json:"id"`
	ModelID       string       `bson:"model_id" json:"model_id"`
	Type          IntervalType `bson:"type" json:"type"`
	IntervalValue float64      `bson:"interval_value" json:"interval_value"` // > 0, offset within one cycle
	Name          string       `bson:"name" json:"name"`
	Description   string       `bson:"description,omitempty" json:"description,omitempty"`
	// IsRecurring is persisted and exposed but the evaluator does not branch
	// on it; intended semantics are pending product clarification.
	IsRecurring    bool   `bson:"is_recurring" json:"is_recurring"`
	FirstCycleOnly bool   `bson:"is_first_cycle_only" json:"is_first_cycle_only"`
	Category       string `bson:"maintenance_category,omitempty" json:"maintenance_category,omitempty"`
}
