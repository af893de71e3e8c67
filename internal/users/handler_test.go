package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storefront-api/internal/apperr"
)

func newUsersRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(apperr.Middleware(nil))
	NewHandler(store).Register(router.Group("/api/v1/auth/users"))
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	router := newUsersRouter(store)

	rec := doJSON(router, http.MethodPost, "/api/v1/auth/users",
		`{"name":"Alice","email":"alice@example.com","password":"secret123"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "secret123") {
		t.Fatalf("response leaked password: %s", rec.Body.String())
	}

	var created struct {
		Success bool `json:"success"`
		Data    User `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !created.Success || created.Data.ID == "" {
		t.Fatalf("unexpected payload: %+v", created)
	}

	rec = doJSON(router, http.MethodGet, "/api/v1/auth/users/"+created.Data.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestHandlerListCount(t *testing.T) {
	store := NewMemoryStore()
	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := store.Create(context.Background(), NewUser{Name: "x", Email: email, Password: "secret123"}); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}
	router := newUsersRouter(store)

	rec := doJSON(router, http.MethodGet, "/api/v1/auth/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var payload struct {
		Count int    `json:"count"`
		Data  []User `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if payload.Count != 2 || len(payload.Data) != 2 {
		t.Fatalf("unexpected list payload: %+v", payload)
	}
}

func TestHandlerUpdateAndDelete(t *testing.T) {
	store := NewMemoryStore()
	u, err := store.Create(context.Background(), NewUser{Name: "Old", Email: "old@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	router := newUsersRouter(store)

	rec := doJSON(router, http.MethodPut, "/api/v1/auth/users/"+u.ID, `{"name":"New"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	got, _ := store.FindByID(context.Background(), u.ID)
	if got.Name != "New" {
		t.Fatalf("name not updated: %q", got.Name)
	}

	rec = doJSON(router, http.MethodDelete, "/api/v1/auth/users/"+u.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"data":{}`) {
		t.Fatalf("unexpected delete body: %s", rec.Body.String())
	}

	rec = doJSON(router, http.MethodGet, "/api/v1/auth/users/"+u.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status after delete: %d", rec.Code)
	}
}

func TestHandlerCreateInvalidBody(t *testing.T) {
	router := newUsersRouter(NewMemoryStore())

	rec := doJSON(router, http.MethodPost, "/api/v1/auth/users", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var env apperr.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if env.Success || env.Error != "Invalid request body" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
