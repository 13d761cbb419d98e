package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Asset represents a maintained piece of equipment (machine, vehicle, generator).
type Asset struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID          string             `bson:"tenant_id" json:"tenant_id"`
	Name              string             `bson:"name" json:"name"`
	ModelID           string             `bson:"model_id" json:"model_id"`
	CompositeGroupID  string             `bson:"composite_group_id,omitempty" json:"composite_group_id,omitempty"`
	CurrentHours      float64            `bson:"current_hours" json:"current_hours"`
	CurrentKilometers float64            `bson:"current_kilometers" json:"current_kilometers"`
	Location          Location           `bson:"location" json:"location"`
	Status            string             `bson:"status" json:"status"` // "active" or "inactive"
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsComposite reports whether the asset belongs to a composite grouping.
// Composite assets get their upcoming-maintenance list from the aggregation
// service instead of the local calculator.
func (a *Asset) IsComposite() bool {
	return a.CompositeGroupID != ""
}

// CounterValue returns the operating counter matching the given interval unit.
func (a *Asset) CounterValue(t IntervalType) float64 {
	if t == IntervalTypeKilometers {
		return a.CurrentKilometers
	}
	return a.CurrentHours
}
