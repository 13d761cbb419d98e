package db

import (
	"context"

	"github.com/ukydev/asset-maintenance/internal/models"
)

// AssetCollection defines the interface for asset record operations.
type AssetCollection interface {
	InsertAsset(ctx context.Context, asset models.Asset) error
	FindAssets(ctx context.Context, filter interface{}) ([]models.Asset, error)
	FindAssetByID(ctx context.Context, id string) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id string, asset models.Asset) error
	DeleteAsset(ctx context.Context, id string) error
	UpdateAssetCounters(ctx context.Context, id string, hours, kilometers float64) error
}

// ModelCollection defines the interface for equipment model operations.
type ModelCollection interface {
	InsertModel(ctx context.Context, model models.EquipmentModel) error
	FindModels(ctx context.Context, filter interface{}) ([]models.EquipmentModel, error)
	FindModelByID(ctx context.Context, id string) (*models.EquipmentModel, error)
}

// IntervalCollection defines the interface for service interval operations.
type IntervalCollection interface {
	InsertInterval(ctx context.Context, interval models.ServiceInterval) error
	FindIntervalsByModel(ctx context.Context, modelID string) ([]models.ServiceInterval, error)
	DeleteInterval(ctx context.Context, id string) error
}

// EventCollection defines the interface for maintenance history operations.
type EventCollection interface {
	InsertEvent(ctx context.Context, event models.ServiceEvent) error
	FindEventsByAsset(ctx context.Context, assetID string) ([]models.ServiceEvent, error)
}
