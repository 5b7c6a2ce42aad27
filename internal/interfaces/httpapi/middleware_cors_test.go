package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	const site = "https://fpl-team-builder.example.com"

	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{name: "configured origin", allowed: []string{site}, method: http.MethodGet, origin: site, wantStatus: http.StatusOK, wantOrigin: site},
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: site, wantStatus: http.StatusNoContent, wantOrigin: "*"},
		{name: "unknown origin still served", allowed: []string{"https://allowed.example.com"}, method: http.MethodGet, origin: site, wantStatus: http.StatusOK},
		{name: "options without origin reaches handler", allowed: []string{"*"}, method: http.MethodOptions, wantStatus: http.StatusOK},
		{name: "blank entries ignored", allowed: []string{" ", ""}, method: http.MethodGet, origin: site, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/teams", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			CORS(tt.allowed, okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestCORS_ExposesRequestIDHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/players", nil)
	req.Header.Set("Origin", "https://a.example.com")
	rec := httptest.NewRecorder()

	CORS([]string{"https://a.example.com"}, okHandler()).ServeHTTP(rec, req)

	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("Vary = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, requestIDHeader) {
		t.Fatalf("expose headers = %q, want %s", got, requestIDHeader)
	}
}
