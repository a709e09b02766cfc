package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_BurstThenDeny(t *testing.T) {
	l := New(3, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("4th request should be denied")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("other keys have their own bucket")
	}

	// One token refills every 20s.
	now = now.Add(21 * time.Second)
	if !l.Allow("1.2.3.4") {
		t.Error("expected a refilled token")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("expected deny")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("expected allow after reset")
	}
}

func TestLimiter_SweepsIdleKeys(t *testing.T) {
	l := New(1, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	now = now.Add(3 * time.Minute)
	l.Allow("c")
	if got := l.Len(); got != 1 {
		t.Errorf("Len = %d, want 1 after sweep", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded", "9.9.9.9, 10.0.0.1", "", "10.0.0.2:1234", "9.9.9.9"},
		{"real ip", "", "8.8.8.8", "10.0.0.2:1234", "8.8.8.8"},
		{"remote", "", "", "10.0.0.2:1234", "10.0.0.2"},
		{"remote no port", "", "", "10.0.0.2", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddleware_Returns429(t *testing.T) {
	l := New(1, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/login", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/login", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: got %d, want 429", rec.Code)
	}
}

func TestLoginLimiter_PerUser(t *testing.T) {
	ll := NewLoginLimiter()
	r := httptest.NewRequest("POST", "/auth/login", nil)
	for i := 0; i < 5; i++ {
		if ok, _ := ll.Check(r, "Admin@acme.internal"); !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if ok, reason := ll.Check(r, "admin@acme.internal"); ok || reason == "" {
		t.Error("6th attempt for the same user should be denied with a reason")
	}
	ll.ResetUser("ADMIN@acme.internal")
	if ok, _ := ll.Check(r, "admin@acme.internal"); !ok {
		t.Error("expected allow after ResetUser")
	}
}
