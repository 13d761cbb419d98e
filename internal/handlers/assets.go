package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/asset-maintenance/internal/aggregate"
	"github.com/ukydev/asset-maintenance/internal/db"
	"github.com/ukydev/asset-maintenance/internal/maintenance"
	"github.com/ukydev/asset-maintenance/internal/models"
)

// AssetHandler handles asset requests: CRUD, counter updates and the
// upcoming-maintenance worklist.
type AssetHandler struct {
	Assets    db.AssetCollection
	Models    db.ModelCollection
	Intervals db.IntervalCollection
	Events    db.EventCollection
	Aggregate *aggregate.Client // nil when no aggregation service is configured
}

// WorklistResponse is the payload of the upcoming-maintenance endpoint.
type WorklistResponse struct {
	AssetID string           `json:"asset_id"`
	Items   []models.DueItem `json:"items"`
}

// Collection handles /api/assets (POST create, GET list).
func (h *AssetHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Resource handles /api/assets/{id} and its subresources
// (/counters, /upcoming).
func (h *AssetHandler) Resource(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/assets/"), "/"), "/")
	if parts[0] == "" {
		http.Error(w, "Asset ID required", http.StatusBadRequest)
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.get(w, r, id)
	case len(parts) == 1 && r.Method == http.MethodPut:
		h.update(w, r, id)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.delete(w, r, id)
	case len(parts) == 2 && parts[1] == "counters" && r.Method == http.MethodPost:
		h.updateCounters(w, r, id)
	case len(parts) == 2 && parts[1] == "upcoming" && r.Method == http.MethodGet:
		h.upcoming(w, r, id)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (h *AssetHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var asset models.Asset
	if err := json.Unmarshal(body, &asset); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if asset.Name == "" || asset.ModelID == "" {
		http.Error(w, "Name and model_id are required", http.StatusBadRequest)
		return
	}
	if _, err := h.Models.FindModelByID(r.Context(), asset.ModelID); err != nil {
		http.Error(w, "Unknown equipment model", http.StatusBadRequest)
		return
	}

	asset.ID = primitive.NewObjectID()
	if asset.Status == "" {
		asset.Status = "active"
	}
	asset.CreatedAt = time.Now()
	asset.UpdatedAt = time.Now()

	if err := h.Assets.InsertAsset(r.Context(), asset); err != nil {
		http.Error(w, "Failed to create asset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(asset)
}

func (h *AssetHandler) list(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Assets.FindAssets(r.Context(), bson.M{})
	if err != nil {
		http.Error(w, "Failed to list assets", http.StatusInternalServerError)
		return
	}
	if assets == nil {
		assets = []models.Asset{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assets)
}

func (h *AssetHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	asset, err := h.Assets.FindAssetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

// update replaces the asset's descriptive fields. Counters are not writable
// here; they only move through the monotonic counter paths.
func (h *AssetHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	existing, err := h.Assets.FindAssetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var asset models.Asset
	if err := json.Unmarshal(body, &asset); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if asset.Name == "" || asset.ModelID == "" {
		http.Error(w, "Name and model_id are required", http.StatusBadRequest)
		return
	}
	if _, err := h.Models.FindModelByID(r.Context(), asset.ModelID); err != nil {
		http.Error(w, "Unknown equipment model", http.StatusBadRequest)
		return
	}

	asset.ID = existing.ID
	asset.CurrentHours = existing.CurrentHours
	asset.CurrentKilometers = existing.CurrentKilometers
	asset.CreatedAt = existing.CreatedAt
	asset.UpdatedAt = time.Now()

	if err := h.Assets.UpdateAsset(r.Context(), id, asset); err != nil {
		http.Error(w, "Failed to update asset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

func (h *AssetHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.Assets.DeleteAsset(r.Context(), id); err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// updateCounters applies an explicit counter reading to an asset. The store
// enforces monotonicity, so a stale reading is a silent no-op.
func (h *AssetHandler) updateCounters(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, "update_counters") {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		Hours      float64 `json:"hours"`
		Kilometers float64 `json:"kilometers"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Hours < 0 || req.Kilometers < 0 {
		http.Error(w, "Counter readings must be non-negative", http.StatusBadRequest)
		return
	}

	if err := h.Assets.UpdateAssetCounters(r.Context(), id, req.Hours, req.Kilometers); err != nil {
		http.Error(w, "Failed to update counters", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Counters updated"})
}

// upcoming serves the maintenance worklist. Composite assets bypass the local
// calculator and use the aggregation service's pre-computed list; the choice
// is made here, never inside the calculator. Upstream failures degrade to an
// empty worklist so the next request can retry; they are never fatal.
func (h *AssetHandler) upcoming(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, "view_worklist") {
		return
	}

	asset, err := h.Assets.FindAssetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	var source maintenance.WorklistSource
	if asset.IsComposite() {
		// Composite assets never run the per-asset calculator, even when no
		// aggregation service is configured to stand in for it.
		if h.Aggregate == nil {
			log.WithFields(log.Fields{"asset_id": id, "composite_group_id": asset.CompositeGroupID}).
				Warn("composite asset but no aggregation service configured, serving empty worklist")
			h.writeWorklist(w, id, nil)
			return
		}
		source = &aggregate.Source{Client: h.Aggregate, GroupID: asset.CompositeGroupID}
	} else {
		model, err := h.Models.FindModelByID(r.Context(), asset.ModelID)
		if err != nil {
			log.WithFields(log.Fields{"asset_id": id, "model_id": asset.ModelID}).
				WithError(err).Warn("equipment model lookup failed, serving empty worklist")
			h.writeWorklist(w, id, nil)
			return
		}
		source = &maintenance.ComputedSource{
			Asset:     *asset,
			Model:     *model,
			Intervals: h.Intervals,
			Events:    h.Events,
		}
	}

	items, err := source.Worklist(r.Context())
	if err != nil {
		log.WithField("asset_id", id).WithError(err).Warn("worklist computation failed, serving empty worklist")
		items = nil
	}
	h.writeWorklist(w, id, items)
}

func (h *AssetHandler) writeWorklist(w http.ResponseWriter, assetID string, items []models.DueItem) {
	if items == nil {
		items = []models.DueItem{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(WorklistResponse{AssetID: assetID, Items: items})
}
