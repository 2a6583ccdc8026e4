package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CatalogRepository читает каталог объектов и популярные локации из PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) (*CatalogRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &CatalogRepository{pool: pool}, nil
}

func (r *CatalogRepository) FetchProperties(ctx context.Context, query domain.CatalogQuery) ([]domain.Property, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresCatalogRepository",
		"method":    "FetchProperties",
	})

	sql, args := buildCatalogSQL(query)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		repoLogger.Error("Failed to query properties", err, port.Fields{"query": sql})
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	props := make([]domain.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			repoLogger.Error("Failed to scan property row", err, nil)
			return nil, err
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during properties iteration", err, nil)
		return nil, fmt.Errorf("error during properties iteration: %w", err)
	}

	repoLogger.Debug("Properties fetched", port.Fields{"count": len(props)})
	return props, nil
}

const propertyColumns = `p.id, p.title, p.location, p.price::text, p.bedrooms, p.bathrooms::text,
		p.area::text, p.type, p.listing_type, p.image, p.created_on`

func (r *CatalogRepository) FetchProperty(ctx context.Context, id string) (*domain.Property, error) {
	propertyID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id %q is not a uuid", domain.ErrPropertyNotFound, id)
	}

	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id = $1`
	p, err := scanProperty(r.pool.QueryRow(ctx, query, propertyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %s", domain.ErrPropertyNotFound, id)
		}
		contextkeys.LoggerFromContext(ctx).Error("Failed to fetch property", err, port.Fields{"property_id": id})
		return nil, err
	}
	return &p, nil
}

// FetchAmenities возвращает справочник удобств по имени.
func (r *CatalogRepository) FetchAmenities(ctx context.Context) ([]domain.Amenity, error) {
	return r.queryAmenities(ctx, `SELECT a.id, a.name, a.icon, a.tags FROM amenities a ORDER BY a.name ASC`)
}

func (r *CatalogRepository) FetchPropertyAmenities(ctx context.Context, propertyID string) ([]domain.Amenity, error) {
	id, err := uuid.Parse(propertyID)
	if err != nil {
		return []domain.Amenity{}, nil
	}
	return r.queryAmenities(ctx, `SELECT a.id, a.name, a.icon, a.tags
		FROM amenities a
		JOIN property_amenities pa ON pa.amenity_id = a.id
		WHERE pa.property_id = $1
		ORDER BY a.name ASC`, id)
}

func (r *CatalogRepository) queryAmenities(ctx context.Context, query string, args ...interface{}) ([]domain.Amenity, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to query amenities", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query amenities: %w", err)
	}
	defer rows.Close()

	amenities := make([]domain.Amenity, 0)
	for rows.Next() {
		var (
			id uuid.UUID
			a  domain.Amenity
		)
		if err := rows.Scan(&id, &a.Name, &a.Icon, &a.Tags); err != nil {
			return nil, fmt.Errorf("failed to scan amenity: %w", err)
		}
		a.ID = id.String()
		if a.Tags == nil {
			a.Tags = []string{}
		}
		amenities = append(amenities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during amenities iteration: %w", err)
	}
	return amenities, nil
}

// buildCatalogSQL собирает SELECT с фильтрами, сортировкой от новых и пагинацией.
func buildCatalogSQL(query domain.CatalogQuery) (string, []interface{}) {
	qb := applyCatalogQuery(query)

	var b strings.Builder
	b.WriteString(`SELECT ` + propertyColumns + `
		FROM properties p`)

	// WHERE строится до LIMIT/OFFSET, чтобы номера параметров шли по порядку
	whereClause, _ := qb.build()
	if whereClause != "" {
		b.WriteString(" ")
		b.WriteString(whereClause)
	}
	b.WriteString(" ORDER BY p.created_on DESC, p.id")
	if query.Limit > 0 {
		b.WriteString(" LIMIT " + qb.nextArg(query.Limit))
	}
	if query.Offset > 0 {
		b.WriteString(" OFFSET " + qb.nextArg(query.Offset))
	}
	_, args := qb.build()
	return b.String(), args
}

func scanProperty(row pgx.Row) (domain.Property, error) {
	var (
		id                     uuid.UUID
		p                      domain.Property
		price, bathrooms, area string
		category, kind         string
		createdOn              time.Time
	)
	if err := row.Scan(&id, &p.Title, &p.Location, &price, &p.Bedrooms, &bathrooms,
		&area, &category, &kind, &p.ImageURL, &createdOn); err != nil {
		return domain.Property{}, fmt.Errorf("failed to scan property: %w", err)
	}

	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return domain.Property{}, fmt.Errorf("invalid price %q: %w", price, err)
	}
	if p.Bathrooms, err = decimal.NewFromString(bathrooms); err != nil {
		return domain.Property{}, fmt.Errorf("invalid bathrooms %q: %w", bathrooms, err)
	}
	if p.Area, err = decimal.NewFromString(area); err != nil {
		return domain.Property{}, fmt.Errorf("invalid area %q: %w", area, err)
	}
	p.ID = id.String()
	p.Category = domain.Category(category)
	p.ListingKind = domain.ListingKind(kind)
	p.CreatedAt = createdOn.UTC()
	return p, nil
}

// FetchPopular возвращает популярные локации по имени.
func (r *CatalogRepository) FetchPopular(ctx context.Context) ([]domain.PopularLocation, error) {
	query := `SELECT name, state, country FROM locations WHERE is_popular = true ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to query popular locations", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query popular locations: %w", err)
	}
	defer rows.Close()

	locations := make([]domain.PopularLocation, 0)
	for rows.Next() {
		var l domain.PopularLocation
		if err := rows.Scan(&l.Name, &l.State, &l.Country); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during locations iteration: %w", err)
	}
	return locations, nil
}
