package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/asset-maintenance/internal/db"
	"github.com/ukydev/asset-maintenance/internal/models"
)

// IntervalHandler handles service interval definition requests.
type IntervalHandler struct {
	Intervals db.IntervalCollection
	Models    db.ModelCollection
}

// Collection handles /api/intervals (POST create, GET list by model).
func (h *IntervalHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Resource handles /api/intervals/{id} (DELETE).
func (h *IntervalHandler) Resource(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/intervals/"), "/")
	if id == "" {
		http.Error(w, "Interval ID required", http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.Intervals.DeleteInterval(r.Context(), id); err != nil {
		http.Error(w, "Interval not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *IntervalHandler) create(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, "manage_intervals") {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	// IsRecurring defaults to true; the pointer distinguishes an absent field
	// from an explicit false.
	var req struct {
		models.ServiceInterval
		IsRecurring *bool `json:"is_recurring"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	interval := req.ServiceInterval
	interval.IsRecurring = req.IsRecurring == nil || *req.IsRecurring

	if interval.ModelID == "" {
		http.Error(w, "model_id is required", http.StatusBadRequest)
		return
	}
	if !models.IsValidIntervalType(interval.Type) {
		http.Error(w, "Invalid interval type", http.StatusBadRequest)
		return
	}
	if interval.IntervalValue <= 0 {
		http.Error(w, "interval_value must be positive", http.StatusBadRequest)
		return
	}
	if _, err := h.Models.FindModelByID(r.Context(), interval.ModelID); err != nil {
		http.Error(w, "Unknown equipment model", http.StatusBadRequest)
		return
	}

	if interval.ID == "" {
		interval.ID = primitive.NewObjectID().Hex()
	}

	if err := h.Intervals.InsertInterval(r.Context(), interval); err != nil {
		http.Error(w, "Failed to create interval", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(interval)
}

func (h *IntervalHandler) list(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, "view_intervals") {
		return
	}

	modelID := r.URL.Query().Get("model_id")
	if modelID == "" {
		http.Error(w, "model_id query parameter is required", http.StatusBadRequest)
		return
	}

	intervals, err := h.Intervals.FindIntervalsByModel(r.Context(), modelID)
	if err != nil {
		http.Error(w, "Failed to list intervals", http.StatusInternalServerError)
		return
	}
	if intervals == nil {
		intervals = []models.ServiceInterval{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(intervals)
}
