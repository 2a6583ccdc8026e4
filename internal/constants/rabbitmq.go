package constants

// Обменник событий активности пользователей
const (
	ActivityExchange     = "listing_activity_exchange"
	ActivityExchangeType = "topic"
)

// Ключи маршрутизации
const (
	RoutingKeyFavoriteAdded   = "activity.favorite.added"
	RoutingKeyFavoriteRemoved = "activity.favorite.removed"
	RoutingKeySearchSaved     = "activity.search.saved"
)

// Контракт события
const (
	ActivityEventSchema  = "UserActivityEvent"
	ActivityEventVersion = "1.0.0"
)
