package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestIPRateLimiterAllow verifies requests are allowed up to the burst and
// rejected beyond it, per IP
func TestIPRateLimiterAllow(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             3,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst rejected", i)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request beyond burst allowed")
	}

	// A different IP has its own budget
	if !rl.Allow("10.0.0.2") {
		t.Error("fresh IP rejected")
	}

	stats := rl.GetStats()
	if stats["allowed"] != 4 || stats["rejected"] != 1 {
		t.Errorf("stats %v, want 4 allowed / 1 rejected", stats)
	}
}

// TestRateLimitMiddleware verifies the 429 response with Retry-After
func TestRateLimitMiddleware(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             1,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.3:12345"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Error("missing Retry-After header")
	}
}

// TestGetClientIP verifies proxy header precedence
func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr only", "192.168.1.5:8080", "", "", "192.168.1.5"},
		{"x-forwarded-for single", "10.0.0.1:80", "203.0.113.7", "", "203.0.113.7"},
		{"x-forwarded-for chain takes first", "10.0.0.1:80", "203.0.113.7, 10.0.0.2", "", "203.0.113.7"},
		{"x-real-ip fallback", "10.0.0.1:80", "", "203.0.113.9", "203.0.113.9"},
		{"xff beats x-real-ip", "10.0.0.1:80", "203.0.113.7", "203.0.113.9", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestWebSocketRateLimiter verifies per-IP concurrent connection caps
func TestWebSocketRateLimiter(t *testing.T) {
	wrl := NewWebSocketRateLimiter(2)

	if !wrl.Allow("10.0.0.1") || !wrl.Allow("10.0.0.1") {
		t.Fatal("connections within cap rejected")
	}
	if wrl.Allow("10.0.0.1") {
		t.Error("connection over cap allowed")
	}

	wrl.Release("10.0.0.1")
	if !wrl.Allow("10.0.0.1") {
		t.Error("connection after release rejected")
	}

	if got := wrl.GetConnectionCount("10.0.0.1"); got != 2 {
		t.Errorf("connection count %d, want 2", got)
	}
}

// TestIsAllowedOrigin verifies loopback origins pass and others do not
func TestIsAllowedOrigin(t *testing.T) {
	allowed := []string{
		"http://localhost",
		"http://localhost:3000",
		"http://localhost:9999",
		"http://127.0.0.1",
		"http://127.0.0.1:8080",
	}
	for _, origin := range allowed {
		if !IsAllowedOrigin(origin) {
			t.Errorf("origin %q should be allowed", origin)
		}
	}

	denied := []string{
		"",
		"http://evil.example.com",
		"https://localhost.evil.example.com",
	}
	for _, origin := range denied {
		if IsAllowedOrigin(origin) {
			t.Errorf("origin %q should be denied", origin)
		}
	}
}
