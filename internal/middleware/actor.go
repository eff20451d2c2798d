package middleware

import (
	"net/http"

	"github.com/dukerupert/choreboard/internal/identity"
)

// ResolveActor reads the acting user from request headers and attaches
// it to the request context. Establishing identity (sessions, tokens)
// belongs to the surrounding application; this engine only consumes the
// result for comment and activity-log authorship.
func ResolveActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Actor-ID")
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		name := r.Header.Get("X-Actor-Name")
		if name == "" {
			name = id
		}
		ctx := identity.WithActor(r.Context(), identity.Actor{ID: id, Name: name})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
