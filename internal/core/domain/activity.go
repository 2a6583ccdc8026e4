package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType - тип события активности пользователя.
type ActivityType string

const (
	ActivityFavoriteAdded   ActivityType = "favorite.added"
	ActivityFavoriteRemoved ActivityType = "favorite.removed"
	ActivitySearchSaved     ActivityType = "search.saved"
)

// ActivityEvent публикуется после успешных действий пользователя.
type ActivityEvent struct {
	ID         uuid.UUID
	Type       ActivityType
	UserID     string
	PropertyID string
	Search     *SearchParams
	OccurredAt time.Time
}

func NewActivityEvent(t ActivityType, userID string) ActivityEvent {
	return ActivityEvent{
		ID:         uuid.New(),
		Type:       t,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}
