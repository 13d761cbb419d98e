package maintenance

import (
	"context"
	"fmt"

	"github.com/ukydev/asset-maintenance/internal/models"
)

// WorklistSource produces the upcoming-maintenance worklist for one asset.
// Standalone assets use ComputedSource; composite assets use the aggregation
// client's pass-through source instead. The caller decides which, the core
// never inspects composite membership itself.
type WorklistSource interface {
	Worklist(ctx context.Context) ([]models.DueItem, error)
}

// IntervalStore is the slice of the record store the computed source reads
// interval definitions from.
type IntervalStore interface {
	FindIntervalsByModel(ctx context.Context, modelID string) ([]models.ServiceInterval, error)
}

// EventStore is the slice of the record store the computed source reads
// maintenance history from.
type EventStore interface {
	FindEventsByAsset(ctx context.Context, assetID string) ([]models.ServiceEvent, error)
}

// ComputedSource fetches an asset's interval definitions and history and runs
// the calculator. Fetching is the only I/O; the computation itself has no
// suspension points.
type ComputedSource struct {
	Asset     models.Asset
	Model     models.EquipmentModel
	Intervals IntervalStore
	Events    EventStore
}

// Worklist implements WorklistSource.
func (s *ComputedSource) Worklist(ctx context.Context) ([]models.DueItem, error) {
	intervals, err := s.Intervals.FindIntervalsByModel(ctx, s.Model.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("fetching intervals for model %s: %w", s.Model.ID.Hex(), err)
	}
	history, err := s.Events.FindEventsByAsset(ctx, s.Asset.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("fetching history for asset %s: %w", s.Asset.ID.Hex(), err)
	}
	current := s.Asset.CounterValue(s.Model.CounterType)
	return ComputeDueItems(current, intervals, history), nil
}
