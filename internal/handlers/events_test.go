package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/asset-maintenance/internal/models"
)

func newEventFixture(counterType models.IntervalType) (*EventHandler, *models.Asset) {
	modelID := primitive.NewObjectID()
	assetID := primitive.NewObjectID()
	model := &models.EquipmentModel{ID: modelID, CounterType: counterType}
	asset := &models.Asset{ID: assetID, ModelID: modelID.Hex()}

	handler := &EventHandler{
		Events: &mockEventCollection{},
		Assets: &mockAssetCollection{assets: map[string]*models.Asset{assetID.Hex(): asset}},
		Models: &mockModelCollection{models: map[string]*models.EquipmentModel{modelID.Hex(): model}},
	}
	return handler, asset
}

func TestEventHandler_Create_PreventiveAdvancesHoursCounter(t *testing.T) {
	handler, asset := newEventFixture(models.IntervalTypeHours)
	assets := handler.Assets.(*mockAssetCollection)

	body, _ := json.Marshal(models.ServiceEvent{
		AssetID:    asset.ID.Hex(),
		Type:       "preventivo",
		Hours:      1320,
		IntervalID: "iv-250",
	})
	req := asRole(httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBuffer(body)), "m.torres", models.RoleTechnician)
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	got := assets.counters[asset.ID.Hex()]
	if got[0] != 1320 || got[1] != 0 {
		t.Errorf("expected hours counter advanced to 1320, got %v", got)
	}
}

func TestEventHandler_Create_PreventiveAdvancesKilometerCounter(t *testing.T) {
	handler, asset := newEventFixture(models.IntervalTypeKilometers)
	assets := handler.Assets.(*mockAssetCollection)

	body, _ := json.Marshal(models.ServiceEvent{
		AssetID: asset.ID.Hex(),
		Type:    "preventive",
		Hours:   45000,
	})
	req := asRole(httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBuffer(body)), "m.torres", models.RoleTechnician)
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	got := assets.counters[asset.ID.Hex()]
	if got[0] != 0 || got[1] != 45000 {
		t.Errorf("expected kilometer counter advanced to 45000, got %v", got)
	}
}

func TestEventHandler_Create_CorrectiveLeavesCounterAlone(t *testing.T) {
	handler, asset := newEventFixture(models.IntervalTypeHours)
	assets := handler.Assets.(*mockAssetCollection)

	body, _ := json.Marshal(models.ServiceEvent{
		AssetID: asset.ID.Hex(),
		Type:    "corrective",
		Hours:   1320,
	})
	req := asRole(httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBuffer(body)), "m.torres", models.RoleTechnician)
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if len(assets.counters) != 0 {
		t.Errorf("expected no counter update for corrective event, got %v", assets.counters)
	}
}

func TestEventHandler_Create_UnknownAsset(t *testing.T) {
	handler, _ := newEventFixture(models.IntervalTypeHours)

	body, _ := json.Marshal(models.ServiceEvent{
		AssetID: "507f1f77bcf86cd799439011",
		Type:    "preventive",
	})
	req := asRole(httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBuffer(body)), "m.torres", models.RoleTechnician)
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestEventHandler_Create_ViewerDenied(t *testing.T) {
	handler, asset := newEventFixture(models.IntervalTypeHours)
	events := handler.Events.(*mockEventCollection)

	body, _ := json.Marshal(models.ServiceEvent{
		AssetID: asset.ID.Hex(),
		Type:    "preventive",
		Hours:   1320,
	})
	req := asRole(httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBuffer(body)), "dashboard", models.RoleViewer)
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if len(events.events) != 0 {
		t.Errorf("expected no event recorded on denied request, got %v", events.events)
	}
}

func TestEventHandler_List_RequiresAssetID(t *testing.T) {
	handler, _ := newEventFixture(models.IntervalTypeHours)

	req := asRole(httptest.NewRequest(http.MethodGet, "/api/events", nil), "m.torres", models.RoleTechnician)
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
