package auth

import (
	"context"
	"net/http"
	"strings"

	"watchlist/internal/domain"
)

type contextKey int

const actorKey contextKey = 0

// Middleware resolves an optional Authorization header into an actor on the
// request context. Requests without a credential pass through as anonymous;
// requests with an invalid credential are rejected outright so a bad token
// never silently downgrades to anonymous access.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			unauthenticated(w)
			return
		}
		actor, err := m.Validate(strings.TrimSpace(strings.TrimPrefix(header, prefix)))
		if err != nil {
			unauthenticated(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor attaches an actor to a context.
func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the request's actor, or nil for anonymous requests.
func ActorFrom(ctx context.Context) *domain.Actor {
	actor, _ := ctx.Value(actorKey).(*domain.Actor)
	return actor
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"code":"UNAUTHENTICATED","message":"Missing or invalid authentication information"}`))
}
