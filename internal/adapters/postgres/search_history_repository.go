package postgres_adapter

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SearchHistoryRepository - история поиска в таблице search_history.
type SearchHistoryRepository struct {
	pool *pgxpool.Pool
}

func NewSearchHistoryRepository(pool *pgxpool.Pool) (*SearchHistoryRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &SearchHistoryRepository{pool: pool}, nil
}

func (r *SearchHistoryRepository) Save(ctx context.Context, userID string, params domain.SearchParams) (*domain.SearchRecord, error) {
	params = params.Normalize()
	record := &domain.SearchRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		Params:     params,
		SearchedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO search_history (id, user_id, location, property_type, price_range, bedrooms, bathrooms, searched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query, record.ID, userID, params.Location, params.PropertyType,
		params.PriceRange, params.Bedrooms, params.Bathrooms, record.SearchedAt)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to save search", err, port.Fields{
			"component": "PostgresSearchHistoryRepository",
			"user_id":   userID,
		})
		return nil, fmt.Errorf("failed to save search: %w", err)
	}
	return record, nil
}

func (r *SearchHistoryRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.SearchRecord, error) {
	query := `
		SELECT id, user_id, location, property_type, price_range, bedrooms, bathrooms, searched_at
		FROM search_history WHERE user_id = $1 ORDER BY searched_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to query search history", err, port.Fields{
			"component": "PostgresSearchHistoryRepository",
			"user_id":   userID,
		})
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	records := make([]domain.SearchRecord, 0)
	for rows.Next() {
		var (
			id  uuid.UUID
			rec domain.SearchRecord
		)
		if err := rows.Scan(&id, &rec.UserID, &rec.Params.Location, &rec.Params.PropertyType,
			&rec.Params.PriceRange, &rec.Params.Bedrooms, &rec.Params.Bathrooms, &rec.SearchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search record: %w", err)
		}
		rec.ID = id.String()
		rec.SearchedAt = rec.SearchedAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during search history iteration: %w", err)
	}
	return records, nil
}
