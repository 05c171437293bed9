package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) *App {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
port: 8123
env: development
ai:
  providers:
    - id: test
      type: OpenAI-Compatible
      endpoint: http://127.0.0.1:0
      api_key: test-key
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	application, err := New(zap.NewNop(), path)
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	return application
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	application := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	application.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	status, _ := body["status"].(string)
	if !strings.Contains(status, "running") {
		t.Fatalf("expected running status, body=%v", body)
	}
}

func TestPingHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	application := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rec := httptest.NewRecorder()
	application.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pong") {
		t.Fatalf("expected pong, got %s", rec.Body.String())
	}
}

func TestUptimeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	application := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/uptime", nil)
	rec := httptest.NewRecorder()
	application.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Timestamp *int64 `json:"timestamp"`
		Humanize  string `json:"humanize"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Timestamp == nil || body.Humanize == "" {
		t.Fatalf("unexpected uptime body: %s", rec.Body.String())
	}
}

func TestUnknownRouteReturnsErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	application := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/does-not-exist", nil)
	rec := httptest.NewRecorder()
	application.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error == "" {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestGenerateEndpointsWiredThroughRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	application := setupTestApp(t)

	for _, path := range []string{
		"/api/generate-explanations/",
		"/api/generate-quiz/",
		"/api/generate-notes/",
	} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"text_id":"unknown0000000000"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		application.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 for unknown text_id, got %d", path, rec.Code)
		}
	}
}

func TestMatchOriginPattern(t *testing.T) {
	cases := []struct {
		pattern string
		host    string
		want    bool
	}{
		{"study.example.com", "study.example.com", true},
		{"study.example.com", "other.example.com", false},
		{"*.example.com", "study.example.com", true},
		{"*.example.com", "example.org", false},
		{"localhost:*", "localhost:5173", true},
		{"localhost:*", "remotehost:5173", false},
	}

	for _, tc := range cases {
		if got := matchOriginPattern(tc.pattern, tc.host); got != tc.want {
			t.Fatalf("matchOriginPattern(%q, %q) = %v, want %v", tc.pattern, tc.host, got, tc.want)
		}
	}
}
