package handlers

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ukydev/asset-maintenance/internal/db"
)

// UserHandler exposes the administrative account endpoints.
type UserHandler struct {
	Users db.UserCollection
}

func NewUserHandler(users db.UserCollection) *UserHandler {
	return &UserHandler{Users: users}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, "manage_users") {
		return
	}

	filter := bson.M{}
	if role := r.URL.Query().Get("role"); role != "" {
		filter["role"] = role
	}

	users, err := h.Users.FindUsers(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Resource handles DELETE /api/users/{id}.
func (h *UserHandler) Resource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, "delete_user") {
		return
	}

	if err := h.Users.DeleteUser(r.Context(), id); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	log.WithField("user_id", id).Info("Account deleted")
	w.WriteHeader(http.StatusNoContent)
}
