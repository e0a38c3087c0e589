package ctxutil

import "context"

type sessionDataKey struct{}

// SessionData is the request-scoped member session. Farmer is the profile
// document returned by the identity API, kept as-is; its shape belongs to
// that system.
type SessionData struct {
	Token  string
	UserID string
	Farmer map[string]interface{}
}

func WithSessionData(ctx context.Context, sd *SessionData) context.Context {
	return context.WithValue(ctx, sessionDataKey{}, sd)
}

func GetSessionData(ctx context.Context) *SessionData {
	val := ctx.Value(sessionDataKey{})
	if sd, ok := val.(*SessionData); ok {
		return sd
	}
	return nil
}
