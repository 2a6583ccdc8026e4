package records_client

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	operatorExactMatch = "ExactMatch"
	operatorContains   = "Contains"
	operatorGTE        = "GreaterThanOrEqualTo"
	operatorLTE        = "LessThanOrEqualTo"

	sortDesc = "DESC"
	sortAsc  = "ASC"
)

type whereCondition struct {
	FieldName string        `json:"fieldName"`
	Operator  string        `json:"operator"`
	Values    []interface{} `json:"values"`
}

type orderBy struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"SortType"`
}

type pagingInfo struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset,omitempty"`
}

type fetchRequest struct {
	Fields     []string         `json:"fields,omitempty"`
	Where      []whereCondition `json:"where,omitempty"`
	OrderBy    []orderBy        `json:"orderBy,omitempty"`
	PagingInfo *pagingInfo      `json:"pagingInfo,omitempty"`
}

type fetchResponse struct {
	Success *bool             `json:"success,omitempty"`
	Message string            `json:"message,omitempty"`
	Data    []json.RawMessage `json:"data"`
}

type getResponse struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

type createRequest struct {
	Records []interface{} `json:"records"`
}

type createResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

type createResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Results []createResult `json:"results"`
}

type deleteRequest struct {
	RecordIds []string `json:"RecordIds"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// recordID - идентификатор записи, который API отдает то числом, то строкой.
type recordID string

func (r *recordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = recordID(n.String())
	return nil
}

// Поля таблиц

var propertyFields = []string{
	"Name", "CreatedOn", "title", "location", "price", "bedrooms",
	"bathrooms", "area", "type", "listing_type", "image",
}

type propertyRecordDTO struct {
	ID          recordID        `json:"Id"`
	Title       string          `json:"title"`
	Location    string          `json:"location"`
	Price       decimal.Decimal `json:"price"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   decimal.Decimal `json:"bathrooms"`
	Area        decimal.Decimal `json:"area"`
	Type        string          `json:"type"`
	ListingType string          `json:"listing_type"`
	Image       string          `json:"image"`
	CreatedOn   *time.Time      `json:"CreatedOn"`
}

var favoriteFields = []string{"Name", "CreatedOn", "property_id", "user_id"}

type favoriteRecordDTO struct {
	ID         recordID   `json:"Id"`
	Name       string     `json:"Name,omitempty"`
	PropertyID recordID   `json:"property_id"`
	UserID     recordID   `json:"user_id"`
	CreatedOn  *time.Time `json:"CreatedOn,omitempty"`
}

type favoriteCreateDTO struct {
	Name       string `json:"Name"`
	PropertyID string `json:"property_id"`
	UserID     string `json:"user_id"`
}

var locationFields = []string{"Name", "state", "country", "is_popular"}

type locationRecordDTO struct {
	ID        recordID `json:"Id"`
	Name      string   `json:"Name"`
	State     string   `json:"state"`
	Country   string   `json:"country"`
	IsPopular bool     `json:"is_popular"`
}

var amenityFields = []string{"Name", "Tags", "icon"}

type amenityRecordDTO struct {
	ID   recordID `json:"Id"`
	Name string   `json:"Name"`
	Tags string   `json:"Tags"`
	Icon string   `json:"icon"`
}

var propertyAmenityFields = []string{"property_id", "amenity_id"}

type propertyAmenityDTO struct {
	PropertyID recordID `json:"property_id"`
	AmenityID  recordID `json:"amenity_id"`
}

var searchHistoryFields = []string{
	"Name", "user_id", "location", "property_type", "price_range",
	"bedrooms", "bathrooms", "search_date",
}

type searchRecordDTO struct {
	ID           recordID   `json:"Id"`
	UserID       recordID   `json:"user_id"`
	Location     string     `json:"location"`
	PropertyType string     `json:"property_type"`
	PriceRange   string     `json:"price_range"`
	Bedrooms     string     `json:"bedrooms"`
	Bathrooms    string     `json:"bathrooms"`
	SearchDate   *time.Time `json:"search_date"`
}

type searchCreateDTO struct {
	Name         string `json:"Name"`
	UserID       string `json:"user_id"`
	Location     string `json:"location"`
	PropertyType string `json:"property_type"`
	PriceRange   string `json:"price_range"`
	Bedrooms     string `json:"bedrooms"`
	Bathrooms    string `json:"bathrooms"`
	SearchDate   string `json:"search_date"`
}
