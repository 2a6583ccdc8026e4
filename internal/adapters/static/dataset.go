package static_adapter

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"listing-service/internal/contracts"
	"listing-service/internal/core/domain"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed data/catalog.json
var embeddedCatalog []byte

const (
	datasetName    = "PropertyCatalogDataset"
	datasetVersion = "1.0.0"
)

type propertyRecord struct {
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
	CreatedOn   *time.Time      `json:"created_on"`
	AmenityIDs  []string        `json:"amenity_ids"`
}

type amenityRecord struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Icon string   `json:"icon"`
	Tags []string `json:"tags"`
}

type locationRecord struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Country   string `json:"country"`
	IsPopular bool   `json:"is_popular"`
}

type datasetFile struct {
	Properties []propertyRecord `json:"properties"`
	Locations  []locationRecord `json:"locations"`
	Amenities  []amenityRecord  `json:"amenities"`
}

// Dataset - демо-каталог в доменных типах.
type Dataset struct {
	Properties []domain.Property
	Popular    []domain.PopularLocation
	// Amenities упорядочены по имени
	Amenities []domain.Amenity
	// PropertyAmenities - id объекта -> id его удобств
	PropertyAmenities map[string][]string
}

// EmbeddedDataset возвращает встроенный в бинарник демо-каталог.
func EmbeddedDataset() (*Dataset, error) {
	return ParseDataset(embeddedCatalog)
}

// ParseDataset проверяет JSON по схеме каталога и переводит его в доменные типы.
// Объекты упорядочены от новых к старым, как их отдает живой бэкенд.
func ParseDataset(raw []byte) (*Dataset, error) {
	if err := contracts.ValidateDataset(datasetName, datasetVersion, raw); err != nil {
		return nil, fmt.Errorf("static dataset is invalid: %w", err)
	}

	var file datasetFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to decode static dataset: %w", err)
	}

	ds := &Dataset{
		Properties:        make([]domain.Property, 0, len(file.Properties)),
		Popular:           []domain.PopularLocation{},
		Amenities:         make([]domain.Amenity, 0, len(file.Amenities)),
		PropertyAmenities: make(map[string][]string, len(file.Properties)),
	}

	amenityIDs := make(map[string]struct{}, len(file.Amenities))
	for _, rec := range file.Amenities {
		if _, dup := amenityIDs[rec.ID]; dup {
			return nil, fmt.Errorf("static dataset: duplicate amenity id %q", rec.ID)
		}
		amenityIDs[rec.ID] = struct{}{}
		tags := rec.Tags
		if tags == nil {
			tags = []string{}
		}
		ds.Amenities = append(ds.Amenities, domain.Amenity{ID: rec.ID, Name: rec.Name, Icon: rec.Icon, Tags: tags})
	}
	sort.SliceStable(ds.Amenities, func(i, j int) bool { return ds.Amenities[i].Name < ds.Amenities[j].Name })

	seen := make(map[string]struct{}, len(file.Properties))
	for _, rec := range file.Properties {
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("static dataset: duplicate property id %q", rec.ID)
		}
		seen[rec.ID] = struct{}{}
		for _, amenityID := range rec.AmenityIDs {
			if _, ok := amenityIDs[amenityID]; !ok {
				return nil, fmt.Errorf("static dataset: property %q references unknown amenity %q", rec.ID, amenityID)
			}
		}
		ds.PropertyAmenities[rec.ID] = rec.AmenityIDs

		p := domain.Property{
			ID:          rec.ID,
			Title:       rec.Title,
			Location:    rec.Location,
			Price:       rec.Price,
			Bedrooms:    rec.Bedrooms,
			Bathrooms:   rec.Bathrooms,
			Area:        rec.Area,
			Category:    domain.Category(rec.Type),
			ListingKind: domain.ListingKind(rec.ListingType),
			ImageURL:    rec.Image,
		}
		if rec.CreatedOn != nil {
			p.CreatedAt = rec.CreatedOn.UTC()
		}
		ds.Properties = append(ds.Properties, p)
	}
	sort.SliceStable(ds.Properties, func(i, j int) bool {
		return ds.Properties[i].CreatedAt.After(ds.Properties[j].CreatedAt)
	})

	for _, loc := range file.Locations {
		if !loc.IsPopular {
			continue
		}
		ds.Popular = append(ds.Popular, domain.PopularLocation{Name: loc.Name, State: loc.State, Country: loc.Country})
	}
	sort.SliceStable(ds.Popular, func(i, j int) bool { return ds.Popular[i].Name < ds.Popular[j].Name })

	return ds, nil
}
