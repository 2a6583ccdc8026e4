package rabbitmq

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEventDTO - контракт события активности, соответствует JSON-схеме.
type ActivityEventDTO struct {
	EventID    uuid.UUID  `json:"event_id"`
	EventType  string     `json:"event_type"`
	UserID     string     `json:"user_id"`
	PropertyID string     `json:"property_id,omitempty"`
	Search     *SearchDTO `json:"search,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type SearchDTO struct {
	Location     string `json:"location"`
	PropertyType string `json:"property_type,omitempty"`
	PriceRange   string `json:"price_range,omitempty"`
	Bedrooms     string `json:"bedrooms,omitempty"`
	Bathrooms    string `json:"bathrooms,omitempty"`
}
