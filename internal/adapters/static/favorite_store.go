package static_adapter

import (
	"context"
	"fmt"
	"listing-service/internal/core/domain"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FavoriteStore хранит избранное в памяти процесса.
type FavoriteStore struct {
	mu     sync.RWMutex
	byUser map[string][]domain.Favorite
}

func NewFavoriteStore() *FavoriteStore {
	return &FavoriteStore{byUser: make(map[string][]domain.Favorite)}
}

func (s *FavoriteStore) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Favorite{}, s.byUser[userID]...), nil
}

// Create добавляет запись. Повторное добавление того же объекта возвращает существующую запись.
func (s *FavoriteStore) Create(ctx context.Context, userID, propertyID string) (*domain.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, fav := range s.byUser[userID] {
		if fav.PropertyID == propertyID {
			existing := fav
			return &existing, nil
		}
	}

	fav := domain.Favorite{
		ID:         uuid.NewString(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now().UTC(),
	}
	s.byUser[userID] = append(s.byUser[userID], fav)
	return &fav, nil
}

func (s *FavoriteStore) Delete(ctx context.Context, favoriteID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, favorites := range s.byUser {
		for i, fav := range favorites {
			if fav.ID == favoriteID {
				s.byUser[userID] = append(favorites[:i:i], favorites[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("favorite %s not found", favoriteID)
}
