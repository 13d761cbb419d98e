package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/asset-maintenance/internal/db"
	"github.com/ukydev/asset-maintenance/internal/models"
)

// ModelHandler handles equipment model requests.
type ModelHandler struct {
	Models db.ModelCollection
}

// Collection handles /api/models (POST create, GET list).
func (h *ModelHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ModelHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var model models.EquipmentModel
	if err := json.Unmarshal(body, &model); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if model.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}
	if model.CounterType == "" {
		model.CounterType = models.IntervalTypeHours
	}
	if !models.IsValidIntervalType(model.CounterType) {
		http.Error(w, "Invalid counter type", http.StatusBadRequest)
		return
	}

	model.ID = primitive.NewObjectID()
	model.CreatedAt = time.Now()

	if err := h.Models.InsertModel(r.Context(), model); err != nil {
		http.Error(w, "Failed to create model", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(model)
}

func (h *ModelHandler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.Models.FindModels(r.Context(), bson.M{})
	if err != nil {
		http.Error(w, "Failed to list models", http.StatusInternalServerError)
		return
	}
	if out == nil {
		out = []models.EquipmentModel{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
