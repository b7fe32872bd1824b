package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime"
	"strings"
	"testing"

	"nccportal.org/internal/obs"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RequestIDFromContext(r.Context()) == "" {
			t.Error("request id missing from context")
		}
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatal("X-Request-Id not set")
	}
}

func TestRequestIDPreservesIncoming(t *testing.T) {
	h := RequestID(okHandler())
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.Header.Set("X-Request-Id", "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if got := rr.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("X-Request-Id = %q, want abc-123", got)
	}
}

func TestRateLimitExceeded(t *testing.T) {
	h := RequestID(RateLimit(okHandler(), 1, 1))

	r := httptest.NewRequest(http.MethodGet, "/api/fallin", nil)
	r.RemoteAddr = "10.1.2.3:5000"

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "1" {
		t.Fatal("missing Retry-After header")
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" || body["request_id"] == "" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestRateLimitIsolatesClients(t *testing.T) {
	h := RateLimit(okHandler(), 1, 1)

	first := httptest.NewRequest(http.MethodGet, "/api/fallin", nil)
	first.RemoteAddr = "10.0.0.1:1000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, first)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, first)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("same client second request = %d, want 429", rr.Code)
	}

	other := httptest.NewRequest(http.MethodGet, "/api/fallin", nil)
	other.RemoteAddr = "10.0.0.2:1000"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	if rr.Code != http.StatusOK {
		t.Fatalf("other client status = %d, want 200", rr.Code)
	}
}

func TestRateLimitConstructionLeaksNoGoroutines(t *testing.T) {
	before := runtime.NumGoroutine()
	for i := 0; i < 50; i++ {
		RateLimit(okHandler(), 1, 1)
	}
	runtime.Gosched()
	if after := runtime.NumGoroutine(); after > before {
		t.Fatalf("goroutines grew from %d to %d after constructing limiters", before, after)
	}
}

func TestLoggingJSONEmitsStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := obs.Logger()
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	h := RequestID(LoggingJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/fallin", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "request_complete" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["method"] != "POST" || entry["path"] != "/api/fallin" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["status"] != float64(201) {
		t.Fatalf("status = %v, want 201", entry["status"])
	}
	for _, key := range []string{"ts", "level", "request_id", "duration_ms"} {
		if _, ok := entry[key]; !ok {
			t.Fatalf("missing %q in %v", key, entry)
		}
	}
}

func TestCORSEchoesDevOrigin(t *testing.T) {
	h := CORS(okHandler(), "development")
	r := httptest.NewRequest(http.MethodGet, "/api/info", nil)
	r.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("Allow-Origin = %q", got)
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("credentials not allowed")
	}
}

func TestCORSRejectsForeignOriginInProduction(t *testing.T) {
	h := CORS(okHandler(), "production")
	r := httptest.NewRequest(http.MethodGet, "/api/info", nil)
	r.Header.Set("Origin", "https://evil.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("foreign origin must not be echoed")
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }), "development")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/fallin", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if called {
		t.Fatal("preflight must not reach the handler")
	}
}

func TestMaxBodyBytesRejectsOversizedBody(t *testing.T) {
	h := MaxBodyBytes(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var dst map[string]any
		if err := json.NewDecoder(r.Body).Decode(&dst); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}), 64)

	big := `{"pad":"` + strings.Repeat("x", 256) + `"}`
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/fallin", strings.NewReader(big)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
