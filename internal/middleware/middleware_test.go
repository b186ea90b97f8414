package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func newRouter(buf *bytes.Buffer, seen *string) http.Handler {
	logger := zerolog.New(buf)

	r := chi.NewRouter()
	r.Use(RequestID(logger))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		*seen = GetRequestID(r.Context())
		zerolog.Ctx(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	var buf bytes.Buffer
	var seen string

	rec := httptest.NewRecorder()
	newRouter(&buf, &seen).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))

	id := rec.Header().Get(RequestIDHeader)
	if id == "" {
		t.Fatal("expected a generated request id")
	}
	if seen != id {
		t.Fatalf("handler saw %q, header has %q", seen, id)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var completed map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &completed); err != nil {
		t.Fatal(err)
	}
	if completed["request_id"] != id || completed["route"] != "/items/{id}" {
		t.Fatalf("unexpected completion log: %v", completed)
	}
	if completed["status"] != float64(http.StatusTeapot) {
		t.Fatalf("status = %v", completed["status"])
	}
	if !strings.Contains(buf.String(), `"message":"inside handler"`) {
		t.Fatal("handler logger should carry the request id")
	}
}

func TestRequestIDFromHeader(t *testing.T) {
	var buf bytes.Buffer
	var seen string

	req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
	req.Header.Set(RequestIDHeader, "abc-123")

	rec := httptest.NewRecorder()
	newRouter(&buf, &seen).ServeHTTP(rec, req)

	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("request id not propagated: seen=%q header=%q", seen, rec.Header().Get(RequestIDHeader))
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	if id := GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()); id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
}
