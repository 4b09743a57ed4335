package middleware

import (
	"context"

	"github.com/cropdev/crop-backend/pkg/auth"
)

type contextKey string

const ctxActor contextKey = "actor"

// WithActor injects the resolved caller into the context.
func WithActor(ctx context.Context, actor *auth.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// ActorFromContext returns the caller, or nil for anonymous requests.
func ActorFromContext(ctx context.Context) *auth.Actor {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxActor).(*auth.Actor); ok {
		return v
	}
	return nil
}

func UserIDFromContext(ctx context.Context) string {
	if actor := ActorFromContext(ctx); actor.Authenticated() {
		return actor.UserID.String()
	}
	return ""
}
