package usecase_test

import (
	"context"
	"listing-service/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockCatalogProvider struct {
	mock.Mock
}

func (m *MockCatalogProvider) FetchProperties(ctx context.Context, query domain.CatalogQuery) ([]domain.Property, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *MockCatalogProvider) FetchProperty(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

type MockAmenityProvider struct {
	mock.Mock
}

func (m *MockAmenityProvider) FetchAmenities(ctx context.Context) ([]domain.Amenity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Amenity), args.Error(1)
}

func (m *MockAmenityProvider) FetchPropertyAmenities(ctx context.Context, propertyID string) ([]domain.Amenity, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Amenity), args.Error(1)
}

type MockFavoriteStore struct {
	mock.Mock
}

func (m *MockFavoriteStore) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Favorite), args.Error(1)
}

func (m *MockFavoriteStore) Create(ctx context.Context, userID, propertyID string) (*domain.Favorite, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Favorite), args.Error(1)
}

func (m *MockFavoriteStore) Delete(ctx context.Context, favoriteID string) error {
	args := m.Called(ctx, favoriteID)
	return args.Error(0)
}

type MockLocationProvider struct {
	mock.Mock
}

func (m *MockLocationProvider) FetchPopular(ctx context.Context) ([]domain.PopularLocation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PopularLocation), args.Error(1)
}

type MockSearchHistoryStore struct {
	mock.Mock
}

func (m *MockSearchHistoryStore) Save(ctx context.Context, userID string, params domain.SearchParams) (*domain.SearchRecord, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchRecord), args.Error(1)
}

func (m *MockSearchHistoryStore) ListRecent(ctx context.Context, userID string, limit int) ([]domain.SearchRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchRecord), args.Error(1)
}

type MockActivityPublisher struct {
	mock.Mock
}

func (m *MockActivityPublisher) Publish(ctx context.Context, event domain.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) Current(ctx context.Context) domain.Session {
	args := m.Called(ctx)
	return args.Get(0).(domain.Session)
}

func (m *MockSessionProvider) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func userSession(id string) domain.Session {
	return domain.Session{
		Authenticated: true,
		User:          &domain.SessionUser{ID: id, Email: id + "@example.com", Role: "user"},
	}
}

func property(id string, category domain.Category, kind domain.ListingKind, price int64, bedrooms int) domain.Property {
	return domain.Property{
		ID:          id,
		Title:       "Property " + id,
		Location:    "Seattle, WA",
		Price:       decimal.NewFromInt(price),
		Bedrooms:    bedrooms,
		Bathrooms:   decimal.NewFromInt(1),
		Area:        decimal.NewFromInt(1000),
		Category:    category,
		ListingKind: kind,
	}
}
