package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/asset-maintenance/internal/auth"
	"github.com/ukydev/asset-maintenance/internal/middleware"
	"github.com/ukydev/asset-maintenance/internal/models"
)

// mockUserCollection keeps accounts in memory keyed by username.
type mockUserCollection struct {
	users     map[string]*models.User
	insertErr error
}

func newMockUserCollection() *mockUserCollection {
	return &mockUserCollection{users: make(map[string]*models.User)}
}

func (m *mockUserCollection) add(user *models.User) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.Username] = user
}

func (m *mockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	u := user
	m.add(&u)
	return nil
}

func (m *mockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func (m *mockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockUserCollection) FindUsers(ctx context.Context, filter interface{}) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	for name, u := range m.users {
		if u.ID.Hex() == id {
			user.ID = u.ID
			m.users[name] = &user
			return nil
		}
	}
	return errors.New("not found")
}

func (m *mockUserCollection) DeleteUser(ctx context.Context, id string) error {
	for name, u := range m.users {
		if u.ID.Hex() == id {
			delete(m.users, name)
			return nil
		}
	}
	return errors.New("user not found")
}

func (m *mockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	return nil
}

// asRole attaches claims for the given role to the request context, the way
// the authentication middleware would after validating a token.
func asRole(req *http.Request, username string, role models.Role) *http.Request {
	claims := &models.Claims{
		UserID:   primitive.NewObjectID().Hex(),
		Username: username,
		Role:     role,
	}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func newAuthFixture(t *testing.T) (*AuthHandler, *auth.Service, *mockUserCollection) {
	t.Helper()
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	users := newMockUserCollection()
	return NewAuthHandler(authService, users), authService, users
}

func seedAccount(t *testing.T, authService *auth.Service, users *mockUserCollection, username, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := authService.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        username + "@plant.example.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	users.add(user)
	return user
}

func postJSON(path string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	return httptest.NewRequest("POST", path, bytes.NewBuffer(body))
}

func TestAuthHandler_Login(t *testing.T) {
	handler, authService, users := newAuthFixture(t)
	seedAccount(t, authService, users, "m.torres", "wrench-turner-9", models.RoleTechnician)

	t.Run("valid credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Login(w, postJSON("/api/auth/login", models.LoginRequest{
			Username: "m.torres",
			Password: "wrench-turner-9",
		}))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		var resp models.LoginResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Token == "" || resp.RefreshToken == "" {
			t.Fatal("expected both tokens in response")
		}
		claims, err := authService.ValidateToken("Bearer " + resp.Token)
		if err != nil {
			t.Fatalf("issued token failed validation: %v", err)
		}
		if claims.Role != models.RoleTechnician {
			t.Fatalf("token role = %q, want technician", claims.Role)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Login(w, postJSON("/api/auth/login", models.LoginRequest{
			Username: "m.torres",
			Password: "not-the-password",
		}))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Login(w, postJSON("/api/auth/login", models.LoginRequest{
			Username: "nobody",
			Password: "whatever12",
		}))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		inactive := seedAccount(t, authService, users, "j.leaver", "gone-fishing-1", models.RoleTechnician)
		inactive.IsActive = false

		w := httptest.NewRecorder()
		handler.Login(w, postJSON("/api/auth/login", models.LoginRequest{
			Username: "j.leaver",
			Password: "gone-fishing-1",
		}))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Login(w, postJSON("/api/auth/login", models.LoginRequest{Username: "m.torres"}))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("public registration yields a viewer", func(t *testing.T) {
		handler, _, users := newAuthFixture(t)

		w := httptest.NewRecorder()
		handler.Register(w, postJSON("/api/auth/register", models.RegisterRequest{
			Username: "dashboard",
			Email:    "dashboard@plant.example.com",
			Password: "read-only-wall-1",
		}))

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
		}
		created := users.users["dashboard"]
		if created == nil || created.Role != models.RoleViewer {
			t.Fatalf("created role = %v, want viewer", created)
		}
	})

	t.Run("public registration cannot claim an elevated role", func(t *testing.T) {
		handler, _, users := newAuthFixture(t)

		w := httptest.NewRecorder()
		handler.Register(w, postJSON("/api/auth/register", models.RegisterRequest{
			Username: "sneaky",
			Email:    "sneaky@plant.example.com",
			Password: "let-me-in-123",
			Role:     models.RoleAdmin,
		}))

		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
		if _, ok := users.users["sneaky"]; ok {
			t.Fatal("account must not be created")
		}
	})

	t.Run("admin assigns technician role", func(t *testing.T) {
		handler, _, users := newAuthFixture(t)

		req := postJSON("/api/auth/register", models.RegisterRequest{
			Username:  "m.torres",
			Email:     "m.torres@plant.example.com",
			Password:  "wrench-turner-9",
			FirstName: "Maria",
			LastName:  "Torres",
			Role:      models.RoleTechnician,
		})
		w := httptest.NewRecorder()
		handler.Register(w, asRole(req, "ops.admin", models.RoleAdmin))

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
		}
		if users.users["m.torres"].Role != models.RoleTechnician {
			t.Fatalf("role = %q, want technician", users.users["m.torres"].Role)
		}
	})

	t.Run("technician cannot assign roles", func(t *testing.T) {
		handler, _, _ := newAuthFixture(t)

		req := postJSON("/api/auth/register", models.RegisterRequest{
			Username: "s.ito",
			Email:    "s.ito@plant.example.com",
			Password: "night-shift-77",
			Role:     models.RoleSupervisor,
		})
		w := httptest.NewRecorder()
		handler.Register(w, asRole(req, "m.torres", models.RoleTechnician))

		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		handler, authService, users := newAuthFixture(t)
		seedAccount(t, authService, users, "m.torres", "wrench-turner-9", models.RoleTechnician)

		w := httptest.NewRecorder()
		handler.Register(w, postJSON("/api/auth/register", models.RegisterRequest{
			Username: "m.torres",
			Email:    "other@plant.example.com",
			Password: "something-else-1",
		}))
		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", w.Code)
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		handler, _, _ := newAuthFixture(t)

		req := postJSON("/api/auth/register", models.RegisterRequest{
			Username: "newcomer",
			Email:    "newcomer@plant.example.com",
			Password: "password-123",
			Role:     "mechanic",
		})
		w := httptest.NewRecorder()
		handler.Register(w, asRole(req, "ops.admin", models.RoleAdmin))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("short password", func(t *testing.T) {
		handler, _, _ := newAuthFixture(t)

		w := httptest.NewRecorder()
		handler.Register(w, postJSON("/api/auth/register", models.RegisterRequest{
			Username: "newcomer",
			Email:    "newcomer@plant.example.com",
			Password: "short",
		}))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	handler, authService, users := newAuthFixture(t)
	account := seedAccount(t, authService, users, "m.torres", "wrench-turner-9", models.RoleTechnician)
	claims := &models.Claims{UserID: account.ID.Hex(), Username: account.Username, Role: account.Role}

	withClaims := func(req *http.Request) *http.Request {
		return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
	}

	t.Run("get", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/profile", nil)
		w := httptest.NewRecorder()
		handler.Profile(w, withClaims(req))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		var got models.User
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Username != "m.torres" {
			t.Fatalf("username = %q, want m.torres", got.Username)
		}
	})

	t.Run("update names", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"first_name": "Maria", "last_name": "Torres"})
		req := httptest.NewRequest("PUT", "/api/auth/profile", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.Profile(w, withClaims(req))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		if users.users["m.torres"].FirstName != "Maria" {
			t.Fatalf("first name not updated: %+v", users.users["m.torres"])
		}
	})

	t.Run("update to taken email", func(t *testing.T) {
		seedAccount(t, authService, users, "a.petrov", "supervisor-pass-1", models.RoleSupervisor)

		body, _ := json.Marshal(map[string]string{"email": "a.petrov@plant.example.com"})
		req := httptest.NewRequest("PUT", "/api/auth/profile", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.Profile(w, withClaims(req))

		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", w.Code)
		}
	})

	t.Run("no claims", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/profile", nil)
		w := httptest.NewRecorder()
		handler.Profile(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/auth/profile", nil)
		w := httptest.NewRecorder()
		handler.Profile(w, withClaims(req))
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want 405", w.Code)
		}
	})
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	handler, authService, users := newAuthFixture(t)
	account := seedAccount(t, authService, users, "m.torres", "wrench-turner-9", models.RoleTechnician)
	claims := &models.Claims{UserID: account.ID.Hex(), Username: account.Username, Role: account.Role}

	withClaims := func(req *http.Request) *http.Request {
		return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
	}

	t.Run("wrong current password", func(t *testing.T) {
		req := postJSON("/api/auth/change-password", map[string]string{
			"current_password": "not-it",
			"new_password":     "impact-driver-12",
		})
		w := httptest.NewRecorder()
		handler.ChangePassword(w, withClaims(req))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("new password too short", func(t *testing.T) {
		req := postJSON("/api/auth/change-password", map[string]string{
			"current_password": "wrench-turner-9",
			"new_password":     "short",
		})
		w := httptest.NewRecorder()
		handler.ChangePassword(w, withClaims(req))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("rotates the hash", func(t *testing.T) {
		req := postJSON("/api/auth/change-password", map[string]string{
			"current_password": "wrench-turner-9",
			"new_password":     "impact-driver-12",
		})
		w := httptest.NewRecorder()
		handler.ChangePassword(w, withClaims(req))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		if !authService.CheckPassword("impact-driver-12", users.users["m.torres"].PasswordHash) {
			t.Fatal("new password does not verify against stored hash")
		}
	})
}
