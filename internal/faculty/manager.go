// Package faculty holds the client-side managers behind the faculty dashboard:
// room posts, room requests, booking and the weekly class schedule. Each
// manager is bound to one explicit client.Session.
package faculty

import (
	"context"
	"io"
	"log/slog"

	"github.com/example/roomboard/internal/client"
	"github.com/example/roomboard/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func managerLogger(ctx context.Context, base *slog.Logger, manager, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContextOr(ctx, base).With("manager", manager, "operation", operation)
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}
	return logger
}

func requireSession(session *client.Session) error {
	if !session.Live() {
		return client.ErrNoSession
	}
	return nil
}

func without[T any](items []T, drop func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !drop(item) {
			out = append(out, item)
		}
	}
	return out
}
