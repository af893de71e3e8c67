package products

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storefront-api/internal/apperr"
)

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
)

const testUserKey = "test.user"

// fakeProtect は X-Test-User ヘッダーがあれば認証済みとして扱うミドルウェアです。
func fakeProtect(c *gin.Context) {
	id := c.GetHeader("X-Test-User")
	if id == "" {
		_ = c.Error(apperr.Unauthorized("Not authorized to access this route"))
		c.Abort()
		return
	}
	c.Set(testUserKey, id)
	c.Next()
}

func fakeUserID(c *gin.Context) (string, bool) {
	id := c.GetString(testUserKey)
	return id, id != ""
}

func newProductsRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(apperr.Middleware(nil))
	NewHandler(store).Register(router.Group("/api/v1/products"), fakeProtect, fakeUserID)
	return router
}

func request(router *gin.Engine, method, path, body, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateRequiresAuth(t *testing.T) {
	router := newProductsRouter(NewMemoryStore())

	rec := request(router, http.MethodPost, "/api/v1/products", `{"name":"Lamp","price":10}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestCreateAndFetch(t *testing.T) {
	store := NewMemoryStore()
	router := newProductsRouter(store)

	rec := request(router, http.MethodPost, "/api/v1/products", `{"name":"Lamp","description":"desk lamp","price":19.5}`, "user-1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data Product `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if created.Data.User != "user-1" || created.Data.Price != 19.5 {
		t.Fatalf("unexpected product: %+v", created.Data)
	}

	rec = request(router, http.MethodGet, "/api/v1/products/"+created.Data.ID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	rec = request(router, http.MethodGet, "/api/v1/products", "", "")
	var list struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if list.Count != 1 {
		t.Fatalf("unexpected count: %d", list.Count)
	}
}

func TestCreateValidation(t *testing.T) {
	router := newProductsRouter(NewMemoryStore())

	rec := request(router, http.MethodPost, "/api/v1/products", `{"price":-1}`, "user-1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var env apperr.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if env.Error != "Please add a name, Price can not be negative" {
		t.Fatalf("unexpected message: %q", env.Error)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	store := NewMemoryStore()
	p, err := store.Create(context.Background(), "user-1", Input{Name: "Lamp", Price: 10})
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	router := newProductsRouter(store)

	rec := request(router, http.MethodPut, "/api/v1/products/"+p.ID, `{"price":12}`, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	got, _ := store.FindByID(context.Background(), p.ID)
	if got.Price != 12 || got.Name != "Lamp" {
		t.Fatalf("unexpected product after update: %+v", got)
	}

	rec = request(router, http.MethodDelete, "/api/v1/products/"+p.ID, "", "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	rec = request(router, http.MethodGet, "/api/v1/products/"+p.ID, "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status after delete: %d", rec.Code)
	}
}
