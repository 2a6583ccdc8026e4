package contextkeys

import (
	"context"
	"listing-service/internal/core/domain"
)

type sessionKeyType struct{}

var sessionKey = sessionKeyType{}

// ContextWithSession кладет в контекст сессию, разобранную из токена запроса.
func ContextWithSession(ctx context.Context, session domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext возвращает сессию запроса или анонимную сессию.
func SessionFromContext(ctx context.Context) domain.Session {
	if session, ok := ctx.Value(sessionKey).(domain.Session); ok {
		return session
	}
	return domain.AnonymousSession()
}
