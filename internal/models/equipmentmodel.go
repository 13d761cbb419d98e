package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EquipmentModel groups assets of the same make/series. Service intervals are
// defined per equipment model and shared by every asset of that model.
type EquipmentModel struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Manufacturer string            `bson:"manufacturer" json:"manufacturer"`
	CounterType IntervalType       `bson:"counter_type" json:"counter_type"` // unit the model's assets are metered in
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
