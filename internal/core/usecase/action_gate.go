package usecase

import (
	"listing-service/internal/core/domain"
)

// ActionGate решает, можно ли выполнить защищенное действие
// (переключение избранного, сохранение поиска). Состояния не хранит.
type ActionGate struct{}

func NewActionGate() *ActionGate {
	return &ActionGate{}
}

// Authorize отказывает, если сессия не аутентифицирована или в ней нет пользователя.
func (g *ActionGate) Authorize(session domain.Session) domain.GateDecision {
	if !session.Authenticated {
		return domain.GateDecision{Allowed: false, Reason: domain.DenyReasonNotAuthenticated}
	}
	if session.User == nil || session.User.ID == "" {
		return domain.GateDecision{Allowed: false, Reason: domain.DenyReasonMissingUser}
	}
	return domain.GateDecision{Allowed: true}
}
