package rest

import (
	"listing-service/internal/core/domain"
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error    string `json:"error"`
	LoginURL string `json:"login_url,omitempty"`
	Outcome  string `json:"outcome,omitempty"`
}

type PropertyResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Location    string          `json:"location"`
	Price       decimal.Decimal `json:"price"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   decimal.Decimal `json:"bathrooms"`
	Area        decimal.Decimal `json:"area"`
	Type        string          `json:"type"`
	ListingType string          `json:"listing_type"`
	Image       string          `json:"image"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
}

// CriteriaDTO - фильтры в том виде, в каком их держит форма.
type CriteriaDTO struct {
	Type        string `json:"type"`
	ListingType string `json:"listing_type"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	Bedrooms    string `json:"bedrooms"`
}

// CriteriaPatchRequest - тело PATCH /filters. Отсутствующее поле не меняется.
type CriteriaPatchRequest struct {
	Type        *string `json:"type"`
	ListingType *string `json:"listing_type"`
	MinPrice    *string `json:"min_price"`
	MaxPrice    *string `json:"max_price"`
	Bedrooms    *string `json:"bedrooms"`
}

type LocationResponse struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type LoadingResponse struct {
	Properties bool `json:"properties"`
	Locations  bool `json:"locations"`
	Favorites  bool `json:"favorites"`
}

type LoadErrorsResponse struct {
	Properties string `json:"properties,omitempty"`
	Favorites  string `json:"favorites,omitempty"`
}

type ListingResponse struct {
	Properties       []PropertyResponse `json:"properties"`
	TotalLoaded      int                `json:"total_loaded"`
	Loaded           bool               `json:"loaded"`
	Filters          CriteriaDTO        `json:"filters"`
	Loading          LoadingResponse    `json:"loading"`
	Errors           LoadErrorsResponse `json:"errors"`
	Favorites        []string           `json:"favorites"`
	PopularLocations []LocationResponse `json:"popular_locations"`
}

type PropertiesResponse struct {
	Data  []PropertyResponse `json:"data"`
	Total int                `json:"total"`
}

type ReloadErrorResponse struct {
	Error   string          `json:"error"`
	Listing ListingResponse `json:"listing"`
}

type SearchRequest struct {
	Location     string `json:"location"`
	PropertyType string `json:"property_type"`
	PriceRange   string `json:"price_range"`
	Bedrooms     string `json:"bedrooms"`
	Bathrooms    string `json:"bathrooms"`
}

type SearchResponse struct {
	Search        SearchRequest      `json:"search"`
	Filters       CriteriaDTO        `json:"filters"`
	Data          []PropertyResponse `json:"data"`
	Warning       string             `json:"warning,omitempty"`
	SavedSearchID string             `json:"saved_search_id,omitempty"`
}

type SearchRecordResponse struct {
	ID         string        `json:"id"`
	Search     SearchRequest `json:"search"`
	SearchedAt time.Time     `json:"searched_at"`
}

type FavoritesResponse struct {
	IDs []string `json:"ids"`
}

type ToggleResponse struct {
	PropertyID string `json:"property_id"`
	Outcome    string `json:"outcome"`
	Favorite   bool   `json:"favorite"`
}

type AmenityResponse struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Icon string   `json:"icon,omitempty"`
	Tags []string `json:"tags"`
}

type PropertyDetailsResponse struct {
	Property  PropertyResponse  `json:"property"`
	Amenities []AmenityResponse `json:"amenities"`
	Favorite  bool              `json:"favorite"`
	Warning   string            `json:"warning,omitempty"`
}

func toAmenityResponses(amenities []domain.Amenity) []AmenityResponse {
	out := make([]AmenityResponse, len(amenities))
	for i, a := range amenities {
		tags := a.Tags
		if tags == nil {
			tags = []string{}
		}
		out[i] = AmenityResponse{ID: a.ID, Name: a.Name, Icon: a.Icon, Tags: tags}
	}
	return out
}

func toPropertyDetailsResponse(d *domain.PropertyDetails) PropertyDetailsResponse {
	return PropertyDetailsResponse{
		Property:  toPropertyResponses([]domain.Property{d.Property})[0],
		Amenities: toAmenityResponses(d.Amenities),
		Favorite:  d.Favorite,
		Warning:   d.Warning,
	}
}

func toPropertyResponses(props []domain.Property) []PropertyResponse {
	out := make([]PropertyResponse, len(props))
	for i, p := range props {
		out[i] = PropertyResponse{
			ID:          p.ID,
			Title:       p.Title,
			Location:    p.Location,
			Price:       p.Price,
			Bedrooms:    p.Bedrooms,
			Bathrooms:   p.Bathrooms,
			Area:        p.Area,
			Type:        string(p.Category),
			ListingType: string(p.ListingKind),
			Image:       p.ImageURL,
		}
		if !p.CreatedAt.IsZero() {
			createdAt := p.CreatedAt
			out[i].CreatedAt = &createdAt
		}
	}
	return out
}

func toCriteriaDTO(c domain.FilterCriteria) CriteriaDTO {
	form := c.Form()
	return CriteriaDTO{
		Type:        form.Category,
		ListingType: form.ListingKind,
		MinPrice:    form.MinPrice,
		MaxPrice:    form.MaxPrice,
		Bedrooms:    form.Bedrooms,
	}
}

func toLocationResponses(locations []domain.PopularLocation) []LocationResponse {
	out := make([]LocationResponse, len(locations))
	for i, l := range locations {
		out[i] = LocationResponse{Name: l.Name, State: l.State, Country: l.Country}
	}
	return out
}

func toListingResponse(s domain.ListingSnapshot) ListingResponse {
	favorites := s.FavoriteIDs
	if favorites == nil {
		favorites = []string{}
	}
	return ListingResponse{
		Properties:  toPropertyResponses(s.View),
		TotalLoaded: s.TotalProperties,
		Loaded:      s.PropertiesLoaded,
		Filters:     toCriteriaDTO(s.Criteria),
		Loading: LoadingResponse{
			Properties: s.Loading.Properties,
			Locations:  s.Loading.Locations,
			Favorites:  s.Loading.Favorites,
		},
		Errors: LoadErrorsResponse{
			Properties: s.Errors.Properties,
			Favorites:  s.Errors.Favorites,
		},
		Favorites:        favorites,
		PopularLocations: toLocationResponses(s.PopularLocations),
	}
}

func toSearchDTO(p domain.SearchParams) SearchRequest {
	return SearchRequest{
		Location:     p.Location,
		PropertyType: p.PropertyType,
		PriceRange:   p.PriceRange,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
	}
}

func (r SearchRequest) toDomain() domain.SearchParams {
	return domain.SearchParams{
		Location:     r.Location,
		PropertyType: r.PropertyType,
		PriceRange:   r.PriceRange,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
	}
}

func (r CriteriaPatchRequest) toDomain() domain.CriteriaPatch {
	return domain.CriteriaPatch{
		Category:    r.Type,
		ListingKind: r.ListingType,
		MinPrice:    r.MinPrice,
		MaxPrice:    r.MaxPrice,
		Bedrooms:    r.Bedrooms,
	}
}
