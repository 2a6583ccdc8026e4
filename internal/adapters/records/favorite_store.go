package records_client

import (
	"context"
	"encoding/json"
	"fmt"
	"listing-service/internal/core/domain"
)

const favoriteTable = "user_favorite"

// FavoriteStore хранит избранное в таблице user_favorite.
type FavoriteStore struct {
	client *Client
}

func NewFavoriteStore(client *Client) *FavoriteStore {
	return &FavoriteStore{client: client}
}

func (s *FavoriteStore) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	logger := clientLogger(ctx, "RecordsFavoriteStore", "List")

	rows, err := s.client.fetchRecords(ctx, favoriteTable, fetchRequest{
		Fields: favoriteFields,
		Where: []whereCondition{
			{FieldName: "user_id", Operator: operatorExactMatch, Values: []interface{}{userID}},
		},
	})
	if err != nil {
		logger.Error("Failed to fetch favorites", err, nil)
		return nil, err
	}

	favorites := make([]domain.Favorite, 0, len(rows))
	for _, raw := range rows {
		var dto favoriteRecordDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("failed to decode favorite record: %w", err)
		}
		favorites = append(favorites, dto.toDomain())
	}
	return favorites, nil
}

func (s *FavoriteStore) Create(ctx context.Context, userID, propertyID string) (*domain.Favorite, error) {
	logger := clientLogger(ctx, "RecordsFavoriteStore", "Create")

	data, err := s.client.createRecord(ctx, favoriteTable, favoriteCreateDTO{
		Name:       fmt.Sprintf("Favorite-%s-%s", userID, propertyID),
		PropertyID: propertyID,
		UserID:     userID,
	})
	if err != nil {
		logger.Error("Failed to create favorite", err, nil)
		return nil, err
	}

	var dto favoriteRecordDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("failed to decode created favorite: %w", err)
	}
	if dto.ID == "" {
		return nil, fmt.Errorf("created favorite has no record id")
	}
	fav := dto.toDomain()
	// API может не вернуть ссылки в ответе на создание
	if fav.UserID == "" {
		fav.UserID = userID
	}
	if fav.PropertyID == "" {
		fav.PropertyID = propertyID
	}
	return &fav, nil
}

func (s *FavoriteStore) Delete(ctx context.Context, favoriteID string) error {
	if err := s.client.deleteRecord(ctx, favoriteTable, favoriteID); err != nil {
		clientLogger(ctx, "RecordsFavoriteStore", "Delete").Error("Failed to delete favorite", err, nil)
		return err
	}
	return nil
}

func (dto favoriteRecordDTO) toDomain() domain.Favorite {
	fav := domain.Favorite{
		ID:         string(dto.ID),
		UserID:     string(dto.UserID),
		PropertyID: string(dto.PropertyID),
	}
	if dto.CreatedOn != nil {
		fav.CreatedAt = dto.CreatedOn.UTC()
	}
	return fav
}
