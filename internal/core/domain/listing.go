package domain

// Viewer - посетитель, чье состояние страницы хранит сервис.
// Key - id пользователя или анонимный X-Viewer-ID.
type Viewer struct {
	Key     string
	Session Session
}

// LoadKind - одна из трех независимых загрузок при открытии страницы.
type LoadKind string

const (
	LoadProperties LoadKind = "properties"
	LoadLocations  LoadKind = "locations"
	LoadFavorites  LoadKind = "favorites"
)

// LoadFlags - флаги "идет загрузка" по каждой загрузке.
type LoadFlags struct {
	Properties bool
	Locations  bool
	Favorites  bool
}

// LoadErrors - тексты ошибок загрузки, пустая строка - ошибки нет.
// Ошибка популярных локаций не показывается: вместо нее встроенный список.
type LoadErrors struct {
	Properties string
	Favorites  string
}

// ListingSnapshot - согласованный срез состояния страницы.
type ListingSnapshot struct {
	View             []Property
	TotalProperties  int
	Criteria         FilterCriteria
	Loading          LoadFlags
	Errors           LoadErrors
	PropertiesLoaded bool
	FavoriteIDs      []string
	PopularLocations []PopularLocation
}
