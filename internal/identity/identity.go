package identity

import "context"

// Actor is the current user performing a mutation, as established by the
// surrounding application. How identity is proven is not this engine's
// concern; it only records authorship on comments and activity entries.
type Actor struct {
	ID   string
	Name string
}

type contextKey struct{}

// System is used for mutations with no resolved actor, e.g. the
// scheduled reconciler.
var System = Actor{ID: "system", Name: "System"}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the actor on the context, falling back to System.
func FromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(contextKey{}).(Actor); ok && a.ID != "" {
		return a
	}
	return System
}
