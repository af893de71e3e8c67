package apperr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery(nil), Middleware(nil))
	router.GET("/", handler)
	return router
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse response: %v body=%s", err, rec.Body.String())
	}
	return env
}

func TestStatusTable(t *testing.T) {
	cases := map[Kind]int{
		KindBadRequest:   http.StatusBadRequest,
		KindValidation:   http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindNotFound:     http.StatusNotFound,
		KindInternal:     http.StatusInternalServerError,
		Kind("UNKNOWN"):  http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := StatusOf(kind); got != want {
			t.Fatalf("StatusOf(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestMiddlewareRendersTypedError(t *testing.T) {
	router := newTestRouter(func(c *gin.Context) {
		_ = c.Error(Unauthorized("Invalid credentials"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Fatal("expected success=false")
	}
	if env.Error != "Invalid credentials" {
		t.Fatalf("unexpected error message: %q", env.Error)
	}
}

func TestMiddlewareUnwrapsWrappedError(t *testing.T) {
	router := newTestRouter(func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("create user: %w", Validation("Duplicate field value entered")))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != "Duplicate field value entered" {
		t.Fatalf("unexpected error message: %q", env.Error)
	}
}

func TestMiddlewareHidesInternalDetails(t *testing.T) {
	router := newTestRouter(func(c *gin.Context) {
		_ = c.Error(errors.New("connection refused: mongodb://secret-host"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != InternalMessage {
		t.Fatalf("internal details leaked: %q", env.Error)
	}
}

func TestMiddlewareMapsCanceledContext(t *testing.T) {
	router := newTestRouter(func(c *gin.Context) {
		_ = c.Error(context.Canceled)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusRequestTimeout {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestRecoveryRendersEnvelope(t *testing.T) {
	router := newTestRouter(func(c *gin.Context) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != InternalMessage || env.Success {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestMiddlewareLeavesWrittenResponses(t *testing.T) {
	router := newTestRouter(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		_ = c.Error(errors.New("late error"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestWrapKeepsKind(t *testing.T) {
	cause := errors.New("cause")
	err := NotFound("Resource not found").Wrap(cause)
	if !IsKind(err, KindNotFound) {
		t.Fatal("expected NotFound kind")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause")
	}
}
