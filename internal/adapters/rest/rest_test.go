package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"listing-service/internal/adapters/rest"
	session_adapter "listing-service/internal/adapters/session"
	static_adapter "listing-service/internal/adapters/static"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/usecase"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// switchableCatalog отдает встроенный каталог, пока не включен отказ.
type switchableCatalog struct {
	port.CatalogProviderPort
	fail atomic.Bool
}

func (c *switchableCatalog) FetchProperties(ctx context.Context, query domain.CatalogQuery) ([]domain.Property, error) {
	if c.fail.Load() {
		return nil, errors.New("catalog backend unavailable")
	}
	return c.CatalogProviderPort.FetchProperties(ctx, query)
}

type testEnv struct {
	router   http.Handler
	sessions *session_adapter.JWTSessionProvider
	catalog  *switchableCatalog
	registry *usecase.ViewerRegistry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dataset, err := static_adapter.EmbeddedDataset()
	require.NoError(t, err)
	staticCatalog := static_adapter.NewCatalogProvider(dataset)
	catalog := &switchableCatalog{CatalogProviderPort: staticCatalog}
	favorites := static_adapter.NewFavoriteStore()
	history := static_adapter.NewSearchHistoryStore(10)

	sessions, err := session_adapter.NewJWTSessionProvider("rest-test-key", session_adapter.NewInMemoryRevocationStore())
	require.NoError(t, err)

	gate := usecase.NewActionGate()
	orch := usecase.NewLoadOrchestrator(catalog, staticCatalog, gate, time.Second, 0)
	registry := usecase.NewViewerRegistry(orch, func() *usecase.FavoriteTracker {
		return usecase.NewFavoriteTracker(favorites, gate, nil, domain.ToggleLockShared)
	}, 0, 100)

	handlers := rest.NewListingHandler(rest.ListingUseCases{
		GetListings:         usecase.NewGetListingsUseCase(registry),
		GetProperties:       usecase.NewGetPropertiesUseCase(registry),
		GetPropertyDetails:  usecase.NewGetPropertyDetailsUseCase(catalog, staticCatalog, registry, gate, time.Second),
		GetAmenities:        usecase.NewGetAmenitiesUseCase(staticCatalog),
		UpdateFilters:       usecase.NewUpdateFiltersUseCase(registry),
		ClearFilters:        usecase.NewClearFiltersUseCase(registry),
		ReloadCatalog:       usecase.NewReloadCatalogUseCase(registry, orch),
		SearchProperties:    usecase.NewSearchPropertiesUseCase(registry, catalog, history, gate, nil, time.Second, 0),
		GetRecentSearches:   usecase.NewGetRecentSearchesUseCase(history, gate),
		GetPopularLocations: usecase.NewGetPopularLocationsUseCase(registry),
		GetFavorites:        usecase.NewGetFavoritesUseCase(registry),
		ToggleFavorite:      usecase.NewToggleFavoriteUseCase(registry, gate),
		Logout:              usecase.NewLogoutUseCase(sessions, registry),
	})

	router := rest.NewRouter(rest.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		handlers, sessions, contextkeys.NoopLogger())

	return &testEnv{router: router, sessions: sessions, catalog: catalog, registry: registry}
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.sessions.IssueToken(domain.SessionUser{ID: userID, Email: userID + "@example.com", Role: "user"}, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

type idOnly struct {
	ID string `json:"id"`
}

type listingBody struct {
	Properties  []idOnly          `json:"properties"`
	TotalLoaded int               `json:"total_loaded"`
	Loaded      bool              `json:"loaded"`
	Filters     rest.CriteriaDTO  `json:"filters"`
	Errors      map[string]string `json:"errors"`
	Favorites   []string          `json:"favorites"`
}

func ids(items []idOnly) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestGetListings_AnonymousViewer(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/listings", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("X-Viewer-ID"))
	assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))

	body := decode[listingBody](t, rr)
	assert.True(t, body.Loaded)
	assert.Len(t, body.Properties, 12)
	assert.Equal(t, 12, body.TotalLoaded)
	assert.Equal(t, "all", body.Filters.Type)
	assert.Equal(t, "all", body.Filters.ListingType)
	assert.Empty(t, body.Favorites)
	assert.NotNil(t, body.Favorites)
	assert.Empty(t, body.Errors)
}

func TestHeaderlessReadsShareOneViewer(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 5; i++ {
		rr := env.do(t, http.MethodGet, "/api/v1/listings/properties", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("X-Viewer-ID"))
	}
	assert.Equal(t, 1, env.registry.Len())

	// изменение без заголовка получает собственный id и не трогает общий список
	rr := env.do(t, http.MethodPatch, "/api/v1/listings/filters", map[string]string{"type": "house"}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	issued := rr.Header().Get("X-Viewer-ID")
	assert.NotEmpty(t, issued)
	assert.Equal(t, 2, env.registry.Len())

	rr = env.do(t, http.MethodGet, "/api/v1/listings", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "all", decode[listingBody](t, rr).Filters.Type)

	rr = env.do(t, http.MethodGet, "/api/v1/listings", nil, map[string]string{"X-Viewer-ID": issued})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, issued, rr.Header().Get("X-Viewer-ID"))
	assert.Equal(t, "house", decode[listingBody](t, rr).Filters.Type)
}

func TestTraceIDIsPropagated(t *testing.T) {
	env := newTestEnv(t)
	traceID := "4b1a1f9e-8f7c-4b55-9c1e-7a1f1a2b3c4d"

	rr := env.do(t, http.MethodGet, "/healthz", nil, map[string]string{"X-Trace-ID": traceID})
	assert.Equal(t, traceID, rr.Header().Get("X-Trace-ID"))
}

func TestFilters_ArePerViewer(t *testing.T) {
	env := newTestEnv(t)
	viewerA := map[string]string{"X-Viewer-ID": "11111111-1111-1111-1111-111111111111"}
	viewerB := map[string]string{"X-Viewer-ID": "22222222-2222-2222-2222-222222222222"}

	rr := env.do(t, http.MethodPatch, "/api/v1/listings/filters",
		map[string]string{"type": "house", "min_price": "100000"}, viewerA)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, viewerA["X-Viewer-ID"], rr.Header().Get("X-Viewer-ID"))

	body := decode[listingBody](t, rr)
	assert.ElementsMatch(t, []string{"1", "6", "10"}, ids(body.Properties))
	assert.Equal(t, "house", body.Filters.Type)
	assert.Equal(t, "100000", body.Filters.MinPrice)

	rr = env.do(t, http.MethodGet, "/api/v1/listings/properties", nil, viewerA)
	require.Equal(t, http.StatusOK, rr.Code)
	props := decode[struct {
		Data  []idOnly `json:"data"`
		Total int      `json:"total"`
	}](t, rr)
	assert.Equal(t, 3, props.Total)

	rr = env.do(t, http.MethodGet, "/api/v1/listings/properties", nil, viewerB)
	require.Equal(t, http.StatusOK, rr.Code)
	other := decode[struct {
		Total int `json:"total"`
	}](t, rr)
	assert.Equal(t, 12, other.Total)

	rr = env.do(t, http.MethodDelete, "/api/v1/listings/filters", nil, viewerA)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[listingBody](t, rr).Properties, 12)
}

func TestFilters_InvalidInput(t *testing.T) {
	env := newTestEnv(t)
	viewer := map[string]string{"X-Viewer-ID": "33333333-3333-3333-3333-333333333333"}

	rr := env.do(t, http.MethodPatch, "/api/v1/listings/filters", `{"min_price": `, viewer)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPatch, "/api/v1/listings/filters", map[string]string{"min_price": "-5"}, viewer)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/listings", nil, viewer)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "", decode[listingBody](t, rr).Filters.MinPrice)
}

func TestToggleFavorite_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/favorites/3/toggle", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	errBody := decode[rest.ErrorResponse](t, rr)
	assert.Equal(t, domain.LoginRedirectURL, errBody.LoginURL)
	assert.Equal(t, string(domain.ToggleNotAuthenticated), errBody.Outcome)

	// негодный токен - это анонимный посетитель
	rr = env.do(t, http.MethodPost, "/api/v1/favorites/3/toggle", nil, bearer("not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestToggleFavorite_AddAndRemove(t *testing.T) {
	env := newTestEnv(t)
	auth := bearer(env.token(t, "u1"))

	rr := env.do(t, http.MethodPost, "/api/v1/favorites/3/toggle", nil, auth)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	toggled := decode[rest.ToggleResponse](t, rr)
	assert.Equal(t, "added", toggled.Outcome)
	assert.True(t, toggled.Favorite)
	assert.Empty(t, rr.Header().Get("X-Viewer-ID"))

	rr = env.do(t, http.MethodGet, "/api/v1/favorites", nil, auth)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"3"}, decode[rest.FavoritesResponse](t, rr).IDs)

	rr = env.do(t, http.MethodGet, "/api/v1/listings", nil, auth)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"3"}, decode[listingBody](t, rr).Favorites)

	rr = env.do(t, http.MethodPost, "/api/v1/favorites/3/toggle", nil, auth)
	require.Equal(t, http.StatusOK, rr.Code)
	toggled = decode[rest.ToggleResponse](t, rr)
	assert.Equal(t, "removed", toggled.Outcome)
	assert.False(t, toggled.Favorite)

	rr = env.do(t, http.MethodGet, "/api/v1/favorites", nil, auth)
	assert.Empty(t, decode[rest.FavoritesResponse](t, rr).IDs)
}

func TestFavorites_SurviveNewViewerState(t *testing.T) {
	env := newTestEnv(t)
	auth := bearer(env.token(t, "u2"))

	rr := env.do(t, http.MethodPost, "/api/v1/favorites/5/toggle", nil, auth)
	require.Equal(t, http.StatusOK, rr.Code)

	// состояние посетителя пересоздается и загружает избранное с бэкенда
	env.registry.Drop("user:u2")
	rr = env.do(t, http.MethodGet, "/api/v1/favorites", nil, auth)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"5"}, decode[rest.FavoritesResponse](t, rr).IDs)
}

func TestPropertyDetails(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/listings/properties/3", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	details := decode[rest.PropertyDetailsResponse](t, rr)
	assert.Equal(t, "3", details.Property.ID)
	assert.Equal(t, "condo", details.Property.Type)
	assert.False(t, details.Favorite)
	assert.Empty(t, details.Warning)
	names := make([]string, len(details.Amenities))
	for i, a := range details.Amenities {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"Elevator", "Gym", "Parking", "Swimming Pool"}, names)

	rr = env.do(t, http.MethodGet, "/api/v1/listings/properties/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	auth := bearer(env.token(t, "u5"))
	rr = env.do(t, http.MethodPost, "/api/v1/favorites/3/toggle", nil, auth)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = env.do(t, http.MethodGet, "/api/v1/listings/properties/3", nil, auth)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[rest.PropertyDetailsResponse](t, rr).Favorite)
}

func TestAmenities(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/amenities", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	amenities := decode[[]rest.AmenityResponse](t, rr)
	require.Len(t, amenities, 7)
	assert.Equal(t, "Air Conditioning", amenities[0].Name)
	assert.NotNil(t, amenities[0].Tags)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	auth := bearer(env.token(t, "u3"))

	rr := env.do(t, http.MethodPost, "/api/v1/listings/search", rest.SearchRequest{Location: "  "}, auth)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/v1/listings/search", "{", auth)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/v1/listings/search",
		rest.SearchRequest{Location: "Seattle", PropertyType: "house"}, auth)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	result := decode[struct {
		Search        rest.SearchRequest `json:"search"`
		Filters       rest.CriteriaDTO   `json:"filters"`
		Data          []idOnly           `json:"data"`
		Warning       string             `json:"warning"`
		SavedSearchID string             `json:"saved_search_id"`
	}](t, rr)
	assert.Equal(t, []string{"1"}, ids(result.Data))
	assert.Equal(t, "house", result.Filters.Type)
	assert.Equal(t, "Seattle", result.Search.Location)
	assert.NotEmpty(t, result.SavedSearchID)
	assert.Empty(t, result.Warning)

	rr = env.do(t, http.MethodGet, "/api/v1/listings/searches?limit=3", nil, auth)
	require.Equal(t, http.StatusOK, rr.Code)
	recent := decode[[]rest.SearchRecordResponse](t, rr)
	require.Len(t, recent, 1)
	assert.Equal(t, result.SavedSearchID, recent[0].ID)
	assert.Equal(t, "Seattle", recent[0].Search.Location)

	rr = env.do(t, http.MethodGet, "/api/v1/listings/searches?limit=abc", nil, auth)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearch_AnonymousIsNotSaved(t *testing.T) {
	env := newTestEnv(t)
	viewer := map[string]string{"X-Viewer-ID": "44444444-4444-4444-4444-444444444444"}

	rr := env.do(t, http.MethodPost, "/api/v1/listings/search", rest.SearchRequest{Location: "chicago"}, viewer)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	result := decode[rest.SearchResponse](t, rr)
	assert.Empty(t, result.SavedSearchID)
	assert.Len(t, result.Data, 3)

	rr = env.do(t, http.MethodGet, "/api/v1/listings/searches", nil, viewer)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestReload_FailureKeepsPreviousProperties(t *testing.T) {
	env := newTestEnv(t)
	viewer := map[string]string{"X-Viewer-ID": "55555555-5555-5555-5555-555555555555"}

	rr := env.do(t, http.MethodGet, "/api/v1/listings", nil, viewer)
	require.Equal(t, http.StatusOK, rr.Code)

	env.catalog.fail.Store(true)
	rr = env.do(t, http.MethodPost, "/api/v1/listings/reload", nil, viewer)
	require.Equal(t, http.StatusBadGateway, rr.Code)

	failed := decode[struct {
		Error   string      `json:"error"`
		Listing listingBody `json:"listing"`
	}](t, rr)
	assert.NotEmpty(t, failed.Error)
	assert.Len(t, failed.Listing.Properties, 12)
	assert.Equal(t, "catalog backend unavailable", failed.Listing.Errors["properties"])

	env.catalog.fail.Store(false)
	rr = env.do(t, http.MethodPost, "/api/v1/listings/reload", nil, viewer)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[listingBody](t, rr).Errors)
}

func TestPopularLocations(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/locations/popular", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	locations := decode[[]rest.LocationResponse](t, rr)
	names := make([]string, len(locations))
	for i, l := range locations {
		names[i] = l.Name
	}
	assert.Equal(t, []string{"Chicago", "Los Angeles", "Miami", "New York", "Seattle"}, names)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	auth := bearer(env.token(t, "u4"))

	rr := env.do(t, http.MethodPost, "/api/v1/session/logout", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/favorites", nil, auth)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, env.registry.Len())

	rr = env.do(t, http.MethodPost, "/api/v1/session/logout", nil, auth)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 0, env.registry.Len())

	// отозванный токен больше не дает доступ
	rr = env.do(t, http.MethodPost, "/api/v1/favorites/1/toggle", nil, auth)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodOptions, "/api/v1/listings/filters", nil, map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": http.MethodPatch,
	})
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}
