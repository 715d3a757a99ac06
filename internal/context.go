package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextSessionKey ctxKey = "session"

// Session identifies the authenticated caller for the duration of one
// request. Core operations receive it through the context instead of
// reading ambient global state.
type Session struct {
	UserID string
	Email  string
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	s, ok := ctx.Value(ContextSessionKey).(Session)
	return s, ok
}

func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ContextSessionKey, s)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
