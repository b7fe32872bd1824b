package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthz(t *testing.T) {
	a := newTestAPI(t, nil, nil)
	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "portal-api" || body["version"] != "test" {
		t.Fatalf("unexpected body %v", body)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatal("missing X-Request-Id header")
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing security headers")
	}
}

func TestReadyzWithoutDB(t *testing.T) {
	a := newTestAPI(t, nil, nil)
	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestInfoReportsVersion(t *testing.T) {
	a := newTestAPI(t, nil, nil)
	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/info")
	if err != nil {
		t.Fatalf("GET /api/info: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["name"] != "portal-api" || body["version"] != "test" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestUnknownPathIs404(t *testing.T) {
	a := newTestAPI(t, nil, nil)
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestMethodNotAllowedSetsAllowHeader(t *testing.T) {
	a := newTestAPI(t, nil, nil)
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rr.Code)
	}
	if got := rr.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("Allow = %q, want POST", got)
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst loginRequest
	r := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"identifier":"REG-1","password":"x","bogus":true}`))
	err := decodeJSON(httptest.NewRecorder(), r, &dst)
	if err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("expected unknown-field error, got %v", err)
	}
}

func TestDecodeJSONRejectsEmptyBody(t *testing.T) {
	var dst loginRequest
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(""))
	err := decodeJSON(httptest.NewRecorder(), r, &dst)
	if err == nil || err.Error() != "request body is required" {
		t.Fatalf("expected empty-body error, got %v", err)
	}
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	var dst loginRequest
	r := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"identifier":"REG-1","password":"x"}{"again":true}`))
	if err := decodeJSON(httptest.NewRecorder(), r, &dst); err == nil {
		t.Fatal("expected trailing-data error")
	}
}
