package http

import (
	"context"

	"github.com/example/roomboard/internal/application"
)

type contextKey string

const sessionContextKey contextKey = "session"

// ContextWithSession returns a derived context carrying the validated session.
func ContextWithSession(ctx context.Context, info application.SessionInfo) context.Context {
	return context.WithValue(ctx, sessionContextKey, info)
}

// SessionFromContext extracts the validated session if RequireSession ran.
func SessionFromContext(ctx context.Context) (application.SessionInfo, bool) {
	info, ok := ctx.Value(sessionContextKey).(application.SessionInfo)
	return info, ok
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	info, ok := SessionFromContext(ctx)
	if !ok {
		return application.Principal{}, false
	}
	return info.Principal, true
}
