// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/models"
)

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	t.Parallel()

	cfg := ChiMiddlewareConfigFromSecurity(config.SecurityConfig{
		CORSOrigins:     []string{"https://a.example.com"},
		RateLimitReqs:   7,
		RateLimitWindow: 30 * time.Second,
	})
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRequests != 7 || cfg.RateLimitWindow != 30*time.Second || cfg.RateLimitDisabled {
		t.Errorf("rate limit = %d/%v disabled=%v", cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.RateLimitDisabled)
	}

	defaults := ChiMiddlewareConfigFromSecurity(config.SecurityConfig{})
	if defaults.RateLimitRequests != 100 || defaults.RateLimitWindow != time.Minute {
		t.Errorf("zero security config should keep defaults, got %d/%v", defaults.RateLimitRequests, defaults.RateLimitWindow)
	}
}

func TestRateLimit_Exceeded(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitReqs = 2
	cfg.Security.RateLimitWindow = time.Minute
	router := NewRouter(newTestHandler(t, newTestPosters()), cfg).SetupChi()

	for i := 0; i < 2; i++ {
		if rec := doGet(t, router, "/api/v1/movies", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := doGet(t, router, "/api/v1/movies", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != models.ErrCodeTooManyRequests {
		t.Errorf("error = %+v, want TOO_MANY_REQUESTS", env.Error)
	}

	// Health probes have their own budget.
	if rec := doGet(t, router, "/api/v1/health/live", nil); rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200 while the API group is limited", rec.Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitRequests: 1, RateLimitWindow: time.Minute, RateLimitDisabled: true})
	handler := m.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d status = %d, want 204", i+1, rec.Code)
		}
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	tests := []struct {
		origin string
		want   string
	}{
		{"https://app.example.com", "https://app.example.com"},
		{"https://evil.example.com", ""},
	}
	for _, tt := range tests {
		rec := doGet(t, router, "/api/v1/movies", map[string]string{"Origin": tt.origin})
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("Origin %s: Access-Control-Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommend", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Errorf("preflight missing Access-Control-Allow-Origin, headers = %v", rec.Header())
	}
}

func TestAPISecurityHeaders(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := doGet(t, router, "/api/v1/health/live", nil)
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS set on a plain HTTP request")
	}

	rec = doGet(t, router, "/api/v1/health/live", map[string]string{"X-Forwarded-Proto": "https"})
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS missing behind a TLS-terminating proxy")
	}
}
