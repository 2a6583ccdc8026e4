package usecase

import (
	"listing-service/internal/core/domain"
	"sync"
)

// ListingController - владелец состояния страницы одного посетителя:
// загруженные объекты, критерии, производный список, флаги и ошибки загрузок.
// Каждая мутация атомарна, читатели получают копию через Snapshot.
type ListingController struct {
	mu sync.RWMutex

	properties       []domain.Property
	propertiesLoaded bool
	view             []domain.Property
	criteria         domain.FilterCriteria
	loading          domain.LoadFlags
	errors           domain.LoadErrors
	popular          []domain.PopularLocation

	favorites *FavoriteTracker
}

func NewListingController(favorites *FavoriteTracker) *ListingController {
	return &ListingController{
		properties: []domain.Property{},
		view:       []domain.Property{},
		criteria:   domain.DefaultCriteria(),
		favorites:  favorites,
	}
}

// Favorites возвращает трекер избранного этого посетителя.
func (c *ListingController) Favorites() *FavoriteTracker {
	return c.favorites
}

// SetProperties целиком заменяет загруженные объекты и пересчитывает список.
func (c *ListingController) SetProperties(props []domain.Property) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.properties = append([]domain.Property(nil), props...)
	c.propertiesLoaded = true
	c.setFilteredView()
}

// SetCriteria заменяет критерии и пересчитывает список.
func (c *ListingController) SetCriteria(criteria domain.FilterCriteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = criteria
	c.setFilteredView()
}

// ReplaceSearch за одну мутацию ставит результат поиска и его критерии
// и очищает ошибку загрузки объектов.
func (c *ListingController) ReplaceSearch(props []domain.Property, criteria domain.FilterCriteria) []domain.Property {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.properties = append([]domain.Property(nil), props...)
	c.propertiesLoaded = true
	c.criteria = criteria
	c.errors.Properties = ""
	c.setFilteredView()
	return append([]domain.Property{}, c.view...)
}

// ApplyCriteria меняет только переданные поля критериев.
// При ошибке разбора состояние не меняется.
func (c *ListingController) ApplyCriteria(patch domain.CriteriaPatch) (domain.FilterCriteria, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := c.criteria.Apply(patch)
	if err != nil {
		return c.criteria, err
	}
	c.criteria = next
	c.setFilteredView()
	return next, nil
}

// ClearCriteria возвращает фильтр по умолчанию.
func (c *ListingController) ClearCriteria() {
	c.SetCriteria(domain.DefaultCriteria())
}

// SetLoading выставляет флаг загрузки конкретного вида.
func (c *ListingController) SetLoading(kind domain.LoadKind, loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case domain.LoadProperties:
		c.loading.Properties = loading
	case domain.LoadLocations:
		c.loading.Locations = loading
	case domain.LoadFavorites:
		c.loading.Favorites = loading
	}
}

// SetError записывает (или очищает пустой строкой) ошибку загрузки.
// Для локаций ошибка не хранится.
func (c *ListingController) SetError(kind domain.LoadKind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case domain.LoadProperties:
		c.errors.Properties = message
	case domain.LoadFavorites:
		c.errors.Favorites = message
	}
}

func (c *ListingController) SetPopularLocations(locations []domain.PopularLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.popular = append([]domain.PopularLocation(nil), locations...)
}

// View возвращает копию текущего производного списка.
func (c *ListingController) View() []domain.Property {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Property{}, c.view...)
}

func (c *ListingController) Criteria() domain.FilterCriteria {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.criteria
}

func (c *ListingController) PopularLocations() []domain.PopularLocation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.PopularLocation{}, c.popular...)
}

// Snapshot - согласованная копия всего состояния.
func (c *ListingController) Snapshot() domain.ListingSnapshot {
	c.mu.RLock()
	snap := domain.ListingSnapshot{
		View:             append([]domain.Property{}, c.view...),
		TotalProperties:  len(c.properties),
		Criteria:         c.criteria,
		Loading:          c.loading,
		Errors:           c.errors,
		PropertiesLoaded: c.propertiesLoaded,
		PopularLocations: append([]domain.PopularLocation{}, c.popular...),
	}
	c.mu.RUnlock()

	if c.favorites != nil {
		snap.FavoriteIDs = c.favorites.IDs()
	} else {
		snap.FavoriteIDs = []string{}
	}
	return snap
}

// setFilteredView пересчитывает производный список. Вызывается под c.mu.
func (c *ListingController) setFilteredView() {
	c.view = domain.DeriveView(c.properties, c.criteria)
}
