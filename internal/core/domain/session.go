package domain

import "time"

// SessionUser - данные пользователя из токена.
type SessionUser struct {
	ID    string
	Email string
	Role  string
}

// Session - состояние аутентификации. Ядро его только читает.
type Session struct {
	Authenticated bool
	User          *SessionUser

	TokenID   string
	ExpiresAt time.Time
}

// AnonymousSession - сессия неаутентифицированного посетителя.
func AnonymousSession() Session {
	return Session{}
}

// UserID возвращает идентификатор пользователя или пустую строку.
func (s Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// GateDecision - результат проверки перед защищенным действием.
type GateDecision struct {
	Allowed bool
	Reason  string
}

const (
	DenyReasonNotAuthenticated = "not_authenticated"
	DenyReasonMissingUser      = "missing_user"
)

// LoginRedirectURL - куда фронтенд отправляет пользователя при отказе.
const LoginRedirectURL = "/login?redirect=/"
