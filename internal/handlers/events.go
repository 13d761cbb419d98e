package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/asset-maintenance/internal/db"
	"github.com/ukydev/asset-maintenance/internal/maintenance"
	"github.com/ukydev/asset-maintenance/internal/models"
)

// EventHandler handles maintenance history requests.
type EventHandler struct {
	Events db.EventCollection
	Assets db.AssetCollection
	Models db.ModelCollection
}

// Collection handles /api/events (POST record, GET list by asset).
func (h *EventHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *EventHandler) create(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, "record_service") {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var event models.ServiceEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if event.AssetID == "" || event.Type == "" {
		http.Error(w, "asset_id and type are required", http.StatusBadRequest)
		return
	}
	asset, err := h.Assets.FindAssetByID(r.Context(), event.AssetID)
	if err != nil {
		http.Error(w, "Unknown asset", http.StatusBadRequest)
		return
	}

	event.ID = primitive.NewObjectID()
	if event.Date.IsZero() {
		event.Date = time.Now()
	}
	event.CreatedAt = time.Now()

	if err := h.Events.InsertEvent(r.Context(), event); err != nil {
		http.Error(w, "Failed to record event", http.StatusInternalServerError)
		return
	}

	// A preventive service with a counter reading also advances the asset's
	// counter, same as the completion flows upstream of the calculator.
	if maintenance.IsPreventive(event.Type) && event.Hours > 0 {
		h.advanceCounter(r, asset, event.Hours)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(event)
}

func (h *EventHandler) advanceCounter(r *http.Request, asset *models.Asset, reading float64) {
	hours, kilometers := reading, 0.0
	if model, err := h.Models.FindModelByID(r.Context(), asset.ModelID); err == nil &&
		model.CounterType == models.IntervalTypeKilometers {
		hours, kilometers = 0, reading
	}
	if err := h.Assets.UpdateAssetCounters(r.Context(), asset.ID.Hex(), hours, kilometers); err != nil {
		log.WithField("asset_id", asset.ID.Hex()).WithError(err).
			Warn("failed to advance asset counter after service event")
	}
}

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, "view_events") {
		return
	}

	assetID := r.URL.Query().Get("asset_id")
	if assetID == "" {
		http.Error(w, "asset_id query parameter is required", http.StatusBadRequest)
		return
	}

	events, err := h.Events.FindEventsByAsset(r.Context(), assetID)
	if err != nil {
		http.Error(w, "Failed to list events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []models.ServiceEvent{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}
