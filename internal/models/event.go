package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceEvent is a maintenance history record: one occurrence of maintenance
// performed on an asset.
type ServiceEvent struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID string             `bson:"asset_id" json:"asset_id"`
	Date    time.Time          `bson:"date" json:"date"`
	Type    string             `bson:"type" json:"type"` // free text; "preventive"/"preventivo" marks preventive service
	Hours   float64            `bson:"hours" json:"hours"` // counter reading at time of service; may be zero
	// IntervalID references the ServiceInterval this event fulfilled. The
	// legacy records stored this under "maintenance_plan_id" even though it
	// never held a plan id, so the bson key keeps the old name while the Go
	// field carries the honest one.
	IntervalID string `bson:"maintenance_plan_id" json:"interval_id"`
	Technician string `bson:"technician,omitempty" json:"technician,omitempty"`
	Notes      string `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
