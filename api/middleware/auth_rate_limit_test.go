package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeWindowStore struct {
	counts map[string]int64
	scopes []string
}

func (f *fakeWindowStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	f.scopes = append(f.scopes, scope)
	count := f.counts[scope]
	return count <= limit, count, nil
}

func loginRequest(ip, email string) *http.Request {
	body := strings.NewReader(`{"email":"` + email + `","password":"x"}`)
	r := httptest.NewRequest(http.MethodPost, "/login", body)
	r.Header.Set("X-Forwarded-For", ip)
	return r
}

func TestAuthRateLimitBlocksAfterIPLimit(t *testing.T) {
	store := &fakeWindowStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, loginRequest("9.9.9.9", "a@b.c"))
		if w.Code != http.StatusNoContent {
			t.Fatalf("attempt %d blocked early: %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, loginRequest("9.9.9.9", "a@b.c"))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt status = %d, want 429", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, loginRequest("1.1.1.1", "a@b.c"))
	if w.Code != http.StatusNoContent {
		t.Fatalf("other IP should not be throttled, got %d", w.Code)
	}
}

func TestAuthRateLimitHashesEmailScope(t *testing.T) {
	store := &fakeWindowStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, loginRequest("9.9.9.9", "Admin@AgriHub.Test"))
	if w.Code != http.StatusNoContent {
		t.Fatalf("first attempt status = %d", w.Code)
	}

	// Different spelling of the same address lands on the same counter.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, loginRequest("9.9.9.9", "admin@agrihub.test"))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt status = %d, want 429", w.Code)
	}

	for _, scope := range store.scopes {
		if strings.Contains(scope, "@") {
			t.Fatalf("raw email leaked into counter scope %q", scope)
		}
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 5, 5)
	handler := AuthRateLimit(policy, &fakeWindowStore{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, loginRequest("9.9.9.9", "a@b.c"))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
}
