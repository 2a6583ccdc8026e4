package domain

import "time"

// Favorite - сохраненная на бэкенде пара (пользователь, объект).
type Favorite struct {
	ID         string // идентификатор записи на бэкенде
	UserID     string
	PropertyID string
	CreatedAt  time.Time
}

// ToggleOutcome - результат переключения избранного.
type ToggleOutcome string

const (
	ToggleAdded             ToggleOutcome = "added"
	ToggleRemoved           ToggleOutcome = "removed"
	ToggleNotAuthenticated  ToggleOutcome = "not_authenticated"
	ToggleInconsistent      ToggleOutcome = "inconsistent"
	TogglePersistenceFailed ToggleOutcome = "persistence_failed"
	ToggleBusy              ToggleOutcome = "busy"
)

// ToggleLockMode - как сериализуются переключения избранного.
type ToggleLockMode string

const (
	// ToggleLockShared - один общий флаг на все объекты.
	ToggleLockShared ToggleLockMode = "shared"
	// ToggleLockPerProperty - отдельный флаг на каждый объект.
	ToggleLockPerProperty ToggleLockMode = "per_property"
)
