package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ukydev/asset-maintenance/internal/middleware"
	"github.com/ukydev/asset-maintenance/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// authorize checks the actor's permission for an action and writes the error
// response itself. Handlers whose action depends on the method call this
// instead of being wrapped in middleware.RequirePermission.
func authorize(w http.ResponseWriter, r *http.Request, action string) bool {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return false
	}
	actor := &models.User{Role: claims.Role}
	if !actor.HasPermission(action) {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return false
	}
	return true
}
