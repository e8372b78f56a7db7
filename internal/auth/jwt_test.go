package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"watchlist/internal/domain"
)

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	mgr, err := NewManager("test-secret", ttl)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func TestManager_GenerateValidateRoundtrip(t *testing.T) {
	mgr := newTestManager(t, time.Hour)

	token, err := mgr.Generate("user-1", "alice", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	actor, err := mgr.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if actor.ID != "user-1" || actor.Username != "alice" || actor.Role != domain.RoleAdmin {
		t.Fatalf("actor = %+v", actor)
	}
}

func TestManager_UnknownRoleDowngradesToRegular(t *testing.T) {
	mgr := newTestManager(t, time.Hour)
	token, err := mgr.Generate("user-2", "bob", domain.Role("superuser"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	actor, err := mgr.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if actor.Role != domain.RoleRegular {
		t.Fatalf("role = %s, want regular", actor.Role)
	}
}

func TestManager_RejectsBadTokens(t *testing.T) {
	mgr := newTestManager(t, time.Hour)
	other := newTestManager(t, time.Hour)
	other.secret = []byte("another-secret")

	expired, err := (&Manager{secret: mgr.secret, ttl: -time.Hour}).Generate("user-3", "eve", domain.RoleRegular)
	if err != nil {
		t.Fatalf("Generate expired: %v", err)
	}
	foreign, err := other.Generate("user-4", "mallory", domain.RoleRegular)
	if err != nil {
		t.Fatalf("Generate foreign: %v", err)
	}

	for name, raw := range map[string]string{
		"garbage":      "not-a-token",
		"empty":        "",
		"expired":      expired,
		"wrong secret": foreign,
	} {
		if _, err := mgr.Validate(raw); err == nil {
			t.Fatalf("Validate(%s) should fail", name)
		}
	}
}

func TestManager_RequiresSecret(t *testing.T) {
	if _, err := NewManager("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestMiddleware(t *testing.T) {
	mgr := newTestManager(t, time.Hour)
	token, err := mgr.Generate("user-1", "alice", domain.RoleRegular)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var seen *domain.Actor
	handler := mgr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ActorFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// Anonymous requests pass through with no actor.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || seen != nil {
		t.Fatalf("anonymous: code=%d actor=%+v", rec.Code, seen)
	}

	// Valid bearer tokens resolve to an actor.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen == nil || seen.Username != "alice" {
		t.Fatalf("valid token: code=%d actor=%+v", rec.Code, seen)
	}

	// Invalid credentials are rejected, not downgraded.
	for _, header := range []string{"Bearer nope", "Basic abc", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: code = %d, want 401", header, rec.Code)
		}
	}
}
