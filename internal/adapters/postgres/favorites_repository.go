package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

var errUnknownProperty = errors.New("property does not exist")

// FavoritesRepository - избранное в таблице user_favorites.
type FavoritesRepository struct {
	pool *pgxpool.Pool
}

func NewFavoritesRepository(pool *pgxpool.Pool) (*FavoritesRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &FavoritesRepository{pool: pool}, nil
}

func (r *FavoritesRepository) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresFavoritesRepository",
		"method":    "List",
		"user_id":   userID,
	})

	query := `SELECT id, user_id, property_id, created_at FROM user_favorites WHERE user_id = $1 ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		repoLogger.Error("Failed to query favorites", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]domain.Favorite, 0)
	for rows.Next() {
		var (
			id, propertyID uuid.UUID
			fav            domain.Favorite
		)
		if err := rows.Scan(&id, &fav.UserID, &propertyID, &fav.CreatedAt); err != nil {
			repoLogger.Error("Failed to scan favorite row", err, nil)
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		fav.ID = id.String()
		fav.PropertyID = propertyID.String()
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during favorites iteration: %w", err)
	}
	return favorites, nil
}

// Create добавляет запись. Повторное добавление возвращает существующую запись.
func (r *FavoritesRepository) Create(ctx context.Context, userID, propertyID string) (*domain.Favorite, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresFavoritesRepository",
		"method":      "Create",
		"user_id":     userID,
		"property_id": propertyID,
	})

	query := `
		INSERT INTO user_favorites (id, user_id, property_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, property_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, created_at`

	fav := domain.Favorite{UserID: userID, PropertyID: propertyID}
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query, uuid.New(), userID, propertyID).Scan(&id, &fav.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == pgForeignKeyViolation || pgErr.Code == pgInvalidTextRepr) {
			repoLogger.Warn("Attempted to favorite an unknown property", nil)
			return nil, fmt.Errorf("%w: %s", errUnknownProperty, propertyID)
		}
		repoLogger.Error("Failed to add favorite", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	fav.ID = id.String()
	return &fav, nil
}

func (r *FavoritesRepository) Delete(ctx context.Context, favoriteID string) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresFavoritesRepository",
		"method":      "Delete",
		"favorite_id": favoriteID,
	})

	id, err := uuid.Parse(favoriteID)
	if err != nil {
		return fmt.Errorf("invalid favorite id %q: %w", favoriteID, err)
	}

	query := `DELETE FROM user_favorites WHERE id = $1`
	cmdTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		repoLogger.Error("Failed to remove favorite", err, port.Fields{"query": query})
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Attempted to remove a favorite that did not exist", nil)
		return fmt.Errorf("favorite %s not found", favoriteID)
	}
	return nil
}
