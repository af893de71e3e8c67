package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storefront-api/internal/config"
)

func TestNewUsesJSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&config.Config{Env: config.EnvProduction}, &buf)
	logger.Info("hello", "k", "v")

	out := buf.String()
	if !strings.HasPrefix(out, "{") {
		t.Fatalf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, `"env":"production"`) {
		t.Fatalf("expected env attribute, got %q", out)
	}
}

func TestNewDebugOnlyInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&config.Config{Env: config.EnvTest}, &buf)
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %q", buf.String())
	}

	buf.Reset()
	logger = NewWithWriter(&config.Config{Env: config.EnvDevelopment}, &buf)
	logger.Debug("shown")
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := NewWithWriter(&config.Config{Env: config.EnvDevelopment}, &buf)

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	out := buf.String()
	for _, want := range []string{"msg=request", "method=GET", "path=/ping", "status=418"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
