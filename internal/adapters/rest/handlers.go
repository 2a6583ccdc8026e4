package rest

import (
	"encoding/json"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const maxRecentSearches = 50

// ListingHandler обслуживает API состояния страницы объявлений.
type ListingHandler struct {
	getListingsUC    usecases_port.GetListingsUseCasePort
	getPropertiesUC  usecases_port.GetPropertiesUseCasePort
	propertyUC       usecases_port.GetPropertyDetailsUseCasePort
	amenitiesUC      usecases_port.GetAmenitiesUseCasePort
	updateFiltersUC  usecases_port.UpdateFiltersUseCasePort
	clearFiltersUC   usecases_port.ClearFiltersUseCasePort
	reloadUC         usecases_port.ReloadCatalogUseCasePort
	searchUC         usecases_port.SearchPropertiesUseCasePort
	recentSearchesUC usecases_port.GetRecentSearchesUseCasePort
	popularUC        usecases_port.GetPopularLocationsUseCasePort
	getFavoritesUC   usecases_port.GetFavoritesUseCasePort
	toggleFavoriteUC usecases_port.ToggleFavoriteUseCasePort
	logoutUC         usecases_port.LogoutUseCasePort
}

// ListingUseCases - набор use case-ов, которые нужны обработчику.
type ListingUseCases struct {
	GetListings         usecases_port.GetListingsUseCasePort
	GetProperties       usecases_port.GetPropertiesUseCasePort
	GetPropertyDetails  usecases_port.GetPropertyDetailsUseCasePort
	GetAmenities        usecases_port.GetAmenitiesUseCasePort
	UpdateFilters       usecases_port.UpdateFiltersUseCasePort
	ClearFilters        usecases_port.ClearFiltersUseCasePort
	ReloadCatalog       usecases_port.ReloadCatalogUseCasePort
	SearchProperties    usecases_port.SearchPropertiesUseCasePort
	GetRecentSearches   usecases_port.GetRecentSearchesUseCasePort
	GetPopularLocations usecases_port.GetPopularLocationsUseCasePort
	GetFavorites        usecases_port.GetFavoritesUseCasePort
	ToggleFavorite      usecases_port.ToggleFavoriteUseCasePort
	Logout              usecases_port.LogoutUseCasePort
}

func NewListingHandler(uc ListingUseCases) *ListingHandler {
	return &ListingHandler{
		getListingsUC:    uc.GetListings,
		getPropertiesUC:  uc.GetProperties,
		propertyUC:       uc.GetPropertyDetails,
		amenitiesUC:      uc.GetAmenities,
		updateFiltersUC:  uc.UpdateFilters,
		clearFiltersUC:   uc.ClearFilters,
		reloadUC:         uc.ReloadCatalog,
		searchUC:         uc.SearchProperties,
		recentSearchesUC: uc.GetRecentSearches,
		popularUC:        uc.GetPopularLocations,
		getFavoritesUC:   uc.GetFavorites,
		toggleFavoriteUC: uc.ToggleFavorite,
		logoutUC:         uc.Logout,
	}
}

// GetListings обрабатывает GET /api/v1/listings
func (h *ListingHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetListings"})

	snapshot, err := h.getListingsUC.Execute(r.Context(), viewerFromRequest(r))
	if err != nil {
		logger.Error("Get listings use case failed", err, nil)
		writeUseCaseError(w, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingResponse(snapshot))
}

// GetProperties обрабатывает GET /api/v1/listings/properties
func (h *ListingHandler) GetProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetProperties"})

	props, err := h.getPropertiesUC.Execute(r.Context(), viewerFromRequest(r))
	if err != nil {
		logger.Error("Get properties use case failed", err, nil)
		writeUseCaseError(w, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, PropertiesResponse{Data: toPropertyResponses(props), Total: len(props)})
}

// GetPropertyDetails обрабатывает GET /api/v1/listings/properties/{propertyID}
func (h *ListingHandler) GetPropertyDetails(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":     "GetPropertyDetails",
		"property_id": propertyID,
	})

	details, err := h.propertyUC.Execute(r.Context(), viewerFromRequest(r), propertyID)
	if err != nil {
		logger.Warn("Get property details use case failed", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, toPropertyDetailsResponse(details))
}

// GetAmenities обрабатывает GET /api/v1/amenities
func (h *ListingHandler) GetAmenities(w http.ResponseWriter, r *http.Request) {
	amenities, err := h.amenitiesUC.Execute(r.Context())
	if err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Get amenities use case failed", err, nil)
		writeUseCaseError(w, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, toAmenityResponses(amenities))
}

// UpdateFilters обрабатывает PATCH /api/v1/listings/filters
func (h *ListingHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateFilters"})

	var reqDTO CriteriaPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode filters patch", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snapshot, err := h.updateFiltersUC.Execute(r.Context(), viewerFromRequest(r), reqDTO.toDomain())
	if err != nil {
		logger.Warn("Update filters use case failed", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingResponse(snapshot))
}

// ClearFilters обрабатывает DELETE /api/v1/listings/filters
func (h *ListingHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.clearFiltersUC.Execute(r.Context(), viewerFromRequest(r))
	if err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Clear filters use case failed", err, nil)
		writeUseCaseError(w, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingResponse(snapshot))
}

// ReloadCatalog обрабатывает POST /api/v1/listings/reload.
// При неудаче состояние тоже возвращается: прежние объекты и текст ошибки.
func (h *ListingHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ReloadCatalog"})

	snapshot, err := h.reloadUC.Execute(r.Context(), viewerFromRequest(r))
	if err != nil {
		logger.Warn("Catalog reload failed", port.Fields{"error": err.Error()})
		RespondWithJSON(w, statusForError(err), ReloadErrorResponse{
			Error:   err.Error(),
			Listing: toListingResponse(snapshot),
		})
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingResponse(snapshot))
}

// Search обрабатывает POST /api/v1/listings/search
func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Search"})

	var reqDTO SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode search request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.searchUC.Execute(r.Context(), viewerFromRequest(r), reqDTO.toDomain())
	if err != nil {
		logger.Warn("Search use case failed", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err, "")
		return
	}

	resp := SearchResponse{
		Search:  toSearchDTO(result.Params),
		Filters: toCriteriaDTO(result.Criteria),
		Data:    toPropertyResponses(result.View),
		Warning: result.Warning,
	}
	if result.Saved != nil {
		resp.SavedSearchID = result.Saved.ID
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// GetRecentSearches обрабатывает GET /api/v1/listings/searches?limit=N
func (h *ListingHandler) GetRecentSearches(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetRecentSearches"})

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteJSONError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, maxRecentSearches)
	}

	records, err := h.recentSearchesUC.Execute(r.Context(), viewerFromRequest(r).Session, limit)
	if err != nil {
		logger.Warn("Get recent searches use case failed", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err, "")
		return
	}

	resp := make([]SearchRecordResponse, len(records))
	for i, rec := range records {
		resp[i] = SearchRecordResponse{ID: rec.ID, Search: toSearchDTO(rec.Params), SearchedAt: rec.SearchedAt}
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// GetPopularLocations обрабатывает GET /api/v1/locations/popular
func (h *ListingHandler) GetPopularLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.popularUC.Execute(r.Context(), viewerFromRequest(r))
	if err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Get popular locations use case failed", err, nil)
		writeUseCaseError(w, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, toLocationResponses(locations))
}

// GetFavorites обрабатывает GET /api/v1/favorites
func (h *ListingHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.getFavoritesUC.Execute(r.Context(), viewerFromRequest(r))
	if err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Get favorites use case failed", err, nil)
		writeUseCaseError(w, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, FavoritesResponse{IDs: ids})
}

// ToggleFavorite обрабатывает POST /api/v1/favorites/{propertyID}/toggle
func (h *ListingHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":     "ToggleFavorite",
		"property_id": propertyID,
	})

	outcome, err := h.toggleFavoriteUC.Execute(r.Context(), viewerFromRequest(r), propertyID)
	if err != nil {
		logger.Warn("Toggle favorite use case failed", port.Fields{"error": err.Error(), "outcome": outcome})
		writeUseCaseError(w, err, outcome)
		return
	}

	RespondWithJSON(w, http.StatusOK, ToggleResponse{
		PropertyID: propertyID,
		Outcome:    string(outcome),
		Favorite:   outcome == domain.ToggleAdded,
	})
}

// Logout обрабатывает POST /api/v1/session/logout
func (h *ListingHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.logoutUC.Execute(r.Context(), viewerFromRequest(r)); err != nil {
		contextkeys.LoggerFromContext(r.Context()).Warn("Logout use case failed", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Healthz обрабатывает GET /healthz
func Healthz(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
