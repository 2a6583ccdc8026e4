package static_adapter

import (
	"context"
	"fmt"
	"listing-service/internal/core/domain"
	"strings"

	"golang.org/x/text/cases"
)

// CatalogProvider отдает объекты из демо-каталога в памяти.
type CatalogProvider struct {
	properties []domain.Property
	popular    []domain.PopularLocation
	amenities  []domain.Amenity
	links      map[string][]string
}

func NewCatalogProvider(ds *Dataset) *CatalogProvider {
	return &CatalogProvider{
		properties: ds.Properties,
		popular:    ds.Popular,
		amenities:  ds.Amenities,
		links:      ds.PropertyAmenities,
	}
}

// FetchProperties фильтрует по локации (подстрока без учета регистра) и критериям,
// затем применяет Offset/Limit.
func (c *CatalogProvider) FetchProperties(ctx context.Context, query domain.CatalogQuery) ([]domain.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Caser хранит состояние, поэтому свой на каждый вызов
	folder := cases.Fold()
	location := folder.String(strings.TrimSpace(query.Location))

	matched := make([]domain.Property, 0, len(c.properties))
	for _, p := range c.properties {
		if location != "" && !strings.Contains(folder.String(p.Location), location) {
			continue
		}
		if query.Criteria != nil && !domain.Matches(p, *query.Criteria) {
			continue
		}
		matched = append(matched, p)
	}

	if query.Offset > 0 {
		if query.Offset >= len(matched) {
			return []domain.Property{}, nil
		}
		matched = matched[query.Offset:]
	}
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

// FetchPopular возвращает локации, отмеченные в каталоге как популярные.
func (c *CatalogProvider) FetchPopular(ctx context.Context) ([]domain.PopularLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.PopularLocation{}, c.popular...), nil
}

func (c *CatalogProvider) FetchProperty(ctx context.Context, id string) (*domain.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, p := range c.properties {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: id %s", domain.ErrPropertyNotFound, id)
}

// FetchAmenities возвращает все удобства каталога по имени.
func (c *CatalogProvider) FetchAmenities(ctx context.Context) ([]domain.Amenity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.Amenity{}, c.amenities...), nil
}

// FetchPropertyAmenities возвращает удобства объекта в порядке справочника.
func (c *CatalogProvider) FetchPropertyAmenities(ctx context.Context, propertyID string) ([]domain.Amenity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	linked := make(map[string]struct{}, len(c.links[propertyID]))
	for _, id := range c.links[propertyID] {
		linked[id] = struct{}{}
	}
	out := make([]domain.Amenity, 0, len(linked))
	for _, a := range c.amenities {
		if _, ok := linked[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}
