package records_client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"strings"
)

const (
	propertyTable        = "property"
	locationTable        = "location"
	amenityTable         = "amenity"
	propertyAmenityTable = "property_amenity"
)

// CatalogProvider читает объекты и популярные локации из API записей.
type CatalogProvider struct {
	client *Client
}

func NewCatalogProvider(client *Client) *CatalogProvider {
	return &CatalogProvider{client: client}
}

func (p *CatalogProvider) FetchProperties(ctx context.Context, query domain.CatalogQuery) ([]domain.Property, error) {
	logger := clientLogger(ctx, "RecordsCatalogProvider", "FetchProperties")

	req := fetchRequest{
		Fields:  propertyFields,
		Where:   propertyConditions(query),
		OrderBy: []orderBy{{FieldName: "CreatedOn", SortType: sortDesc}},
	}
	if query.Limit > 0 || query.Offset > 0 {
		req.PagingInfo = &pagingInfo{Limit: query.Limit, Offset: query.Offset}
	}

	rows, err := p.client.fetchRecords(ctx, propertyTable, req)
	if err != nil {
		logger.Error("Failed to fetch properties", err, nil)
		return nil, err
	}

	props := make([]domain.Property, 0, len(rows))
	for _, raw := range rows {
		var dto propertyRecordDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			logger.Error("Failed to decode property record", err, nil)
			return nil, fmt.Errorf("failed to decode property record: %w", err)
		}
		props = append(props, dto.toDomain())
	}
	logger.Debug("Properties fetched", port.Fields{"count": len(props)})
	return props, nil
}

func (p *CatalogProvider) FetchProperty(ctx context.Context, id string) (*domain.Property, error) {
	logger := clientLogger(ctx, "RecordsCatalogProvider", "FetchProperty")

	raw, err := p.client.getRecordByID(ctx, propertyTable, id, propertyFields)
	if err != nil {
		if errors.Is(err, errRecordNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrPropertyNotFound, err)
		}
		logger.Error("Failed to fetch property", err, port.Fields{"property_id": id})
		return nil, err
	}

	var dto propertyRecordDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("failed to decode property record: %w", err)
	}
	prop := dto.toDomain()
	if prop.ID == "" {
		prop.ID = id
	}
	return &prop, nil
}

// FetchAmenities возвращает весь справочник удобств по имени.
func (p *CatalogProvider) FetchAmenities(ctx context.Context) ([]domain.Amenity, error) {
	logger := clientLogger(ctx, "RecordsCatalogProvider", "FetchAmenities")

	rows, err := p.client.fetchRecords(ctx, amenityTable, fetchRequest{
		Fields:  amenityFields,
		OrderBy: []orderBy{{FieldName: "Name", SortType: sortAsc}},
	})
	if err != nil {
		logger.Error("Failed to fetch amenities", err, nil)
		return nil, err
	}

	amenities := make([]domain.Amenity, 0, len(rows))
	for _, raw := range rows {
		var dto amenityRecordDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("failed to decode amenity record: %w", err)
		}
		amenities = append(amenities, domain.Amenity{
			ID:   string(dto.ID),
			Name: dto.Name,
			Icon: dto.Icon,
			Tags: domain.ParseTags(dto.Tags),
		})
	}
	return amenities, nil
}

// FetchPropertyAmenities читает связи из property_amenity и отбирает по ним
// удобства справочника.
func (p *CatalogProvider) FetchPropertyAmenities(ctx context.Context, propertyID string) ([]domain.Amenity, error) {
	logger := clientLogger(ctx, "RecordsCatalogProvider", "FetchPropertyAmenities")

	rows, err := p.client.fetchRecords(ctx, propertyAmenityTable, fetchRequest{
		Fields: propertyAmenityFields,
		Where: []whereCondition{
			{FieldName: "property_id", Operator: operatorExactMatch, Values: []interface{}{propertyID}},
		},
	})
	if err != nil {
		logger.Error("Failed to fetch property amenity links", err, port.Fields{"property_id": propertyID})
		return nil, err
	}
	if len(rows) == 0 {
		return []domain.Amenity{}, nil
	}

	linked := make(map[string]struct{}, len(rows))
	for _, raw := range rows {
		var dto propertyAmenityDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("failed to decode property amenity link: %w", err)
		}
		linked[string(dto.AmenityID)] = struct{}{}
	}

	all, err := p.FetchAmenities(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Amenity, 0, len(linked))
	for _, a := range all {
		if _, ok := linked[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// FetchPopular возвращает локации с is_popular, упорядоченные по имени.
func (p *CatalogProvider) FetchPopular(ctx context.Context) ([]domain.PopularLocation, error) {
	logger := clientLogger(ctx, "RecordsCatalogProvider", "FetchPopular")

	rows, err := p.client.fetchRecords(ctx, locationTable, fetchRequest{
		Fields: locationFields,
		Where: []whereCondition{
			{FieldName: "is_popular", Operator: operatorExactMatch, Values: []interface{}{true}},
		},
		OrderBy: []orderBy{{FieldName: "Name", SortType: sortAsc}},
	})
	if err != nil {
		logger.Error("Failed to fetch popular locations", err, nil)
		return nil, err
	}

	locations := make([]domain.PopularLocation, 0, len(rows))
	for _, raw := range rows {
		var dto locationRecordDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("failed to decode location record: %w", err)
		}
		locations = append(locations, domain.PopularLocation{Name: dto.Name, State: dto.State, Country: dto.Country})
	}
	return locations, nil
}

// propertyConditions переводит критерии в условия where API записей.
func propertyConditions(query domain.CatalogQuery) []whereCondition {
	var where []whereCondition
	if loc := strings.TrimSpace(query.Location); loc != "" {
		where = append(where, whereCondition{FieldName: "location", Operator: operatorContains, Values: []interface{}{loc}})
	}
	if query.Criteria == nil {
		return where
	}
	c := *query.Criteria

	if c.Category != "" && c.Category != domain.CategoryAll {
		where = append(where, whereCondition{FieldName: "type", Operator: operatorExactMatch, Values: []interface{}{string(c.Category)}})
	}
	if c.ListingKind != "" && c.ListingKind != domain.ListingKindAll {
		where = append(where, whereCondition{FieldName: "listing_type", Operator: operatorExactMatch, Values: []interface{}{string(c.ListingKind)}})
	}
	if c.MinPrice != nil {
		where = append(where, whereCondition{FieldName: "price", Operator: operatorGTE, Values: []interface{}{json.Number(c.MinPrice.String())}})
	}
	if c.MaxPrice != nil {
		where = append(where, whereCondition{FieldName: "price", Operator: operatorLTE, Values: []interface{}{json.Number(c.MaxPrice.String())}})
	}
	if !c.Bedrooms.IsAny() {
		n, atLeast := c.Bedrooms.Count()
		operator := operatorExactMatch
		if atLeast {
			operator = operatorGTE
		}
		where = append(where, whereCondition{FieldName: "bedrooms", Operator: operator, Values: []interface{}{n}})
	}
	return where
}

func (dto propertyRecordDTO) toDomain() domain.Property {
	p := domain.Property{
		ID:          string(dto.ID),
		Title:       dto.Title,
		Location:    dto.Location,
		Price:       dto.Price,
		Bedrooms:    dto.Bedrooms,
		Bathrooms:   dto.Bathrooms,
		Area:        dto.Area,
		Category:    domain.Category(dto.Type),
		ListingKind: domain.ListingKind(dto.ListingType),
		ImageURL:    dto.Image,
	}
	if dto.CreatedOn != nil {
		p.CreatedAt = dto.CreatedOn.UTC()
	}
	return p
}
