package httpapi

import (
	"net/http"
	"testing"
)

func TestRateLimitMiddleware(t *testing.T) {
	r := newTestRouter(t, nil, nil, nil, Options{RateLimitPerMinute: 1, RateLimitBurst: 2})

	for i := 0; i < 2; i++ {
		if rec := do(t, r, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}
	if rec := do(t, r, http.MethodGet, "/healthz", nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 after the burst", rec.Code)
	}
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	r := newTestRouter(t, nil, nil, nil, Options{})

	for i := 0; i < 50; i++ {
		if rec := do(t, r, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRateLimiterStore_PerIP(t *testing.T) {
	s := newRateLimiterStore(60, 1)
	if s.getLimiter("10.0.0.1") != s.getLimiter("10.0.0.1") {
		t.Error("same IP should reuse its limiter")
	}
	if s.getLimiter("10.0.0.1") == s.getLimiter("10.0.0.2") {
		t.Error("different IPs should get separate limiters")
	}
}
