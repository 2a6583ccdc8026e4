package redis_adapter

import (
	"context"
	"errors"
	"fmt"
	"listing-service/internal/core/domain"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeRedis - хранилище ключей в памяти с интерфейсом команд go-redis.
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *goredis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Exists(ctx context.Context, keys ...string) *goredis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) FetchProperties(ctx context.Context, query domain.CatalogQuery) ([]domain.Property, error) {
	args := m.Called(ctx, query)
	props, _ := args.Get(0).([]domain.Property)
	return props, args.Error(1)
}

func (m *MockCatalog) FetchProperty(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Property)
	return p, args.Error(1)
}

func (m *MockCatalog) FetchPopular(ctx context.Context) ([]domain.PopularLocation, error) {
	args := m.Called(ctx)
	locs, _ := args.Get(0).([]domain.PopularLocation)
	return locs, args.Error(1)
}

func newCached(client cacheClient, inner *MockCatalog) *CatalogProvider {
	return &CatalogProvider{client: client, catalog: inner, locations: inner, ttl: time.Minute}
}

func sampleProperty() domain.Property {
	return domain.Property{
		ID:          "1",
		Title:       "Modern Family Home",
		Location:    "Seattle, WA",
		Price:       decimal.RequireFromString("850000"),
		Bedrooms:    4,
		Bathrooms:   decimal.RequireFromString("2.5"),
		Area:        decimal.RequireFromString("2400"),
		Category:    domain.CategoryHouse,
		ListingKind: domain.ListingKindSale,
		CreatedAt:   time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC),
	}
}

func TestCatalogCacheKey(t *testing.T) {
	base := domain.CatalogQuery{Location: "Seattle", Limit: 20}
	same := domain.CatalogQuery{Location: "  seattle ", Limit: 20}
	assert.Equal(t, catalogCacheKey(base), catalogCacheKey(same))
	assert.Contains(t, catalogCacheKey(base), catalogKeyPrefix+":")

	other := domain.CatalogQuery{Location: "Seattle", Limit: 20, Offset: 20}
	assert.NotEqual(t, catalogCacheKey(base), catalogCacheKey(other))

	criteria := domain.DefaultCriteria()
	criteria.Category = domain.CategoryHouse
	filtered := domain.CatalogQuery{Location: "Seattle", Limit: 20, Criteria: &criteria}
	assert.NotEqual(t, catalogCacheKey(base), catalogCacheKey(filtered))

	assert.Equal(t,
		generateQueryCacheKey("p", map[string]string{"a": "1", "b": "2"}),
		generateQueryCacheKey("p", map[string]string{"b": "2", "a": "1"}))
}

func TestCatalogProvider_MissThenHit(t *testing.T) {
	client := newFakeRedis()
	inner := new(MockCatalog)
	provider := newCached(client, inner)
	ctx := context.Background()
	query := domain.CatalogQuery{Limit: 20}

	inner.On("FetchProperties", mock.Anything, query).Return([]domain.Property{sampleProperty()}, nil).Once()

	first, err := provider.FetchProperties(ctx, query)
	require.NoError(t, err)
	second, err := provider.FetchProperties(ctx, query)
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].Price.Equal(second[0].Price))
	assert.True(t, first[0].Bathrooms.Equal(second[0].Bathrooms))
	assert.Equal(t, domain.CategoryHouse, second[0].Category)
	assert.True(t, first[0].CreatedAt.Equal(second[0].CreatedAt))
	assert.Equal(t, time.Minute, client.ttls[catalogCacheKey(query)])
	inner.AssertExpectations(t)
}

func TestCatalogProvider_FetchPropertyCachesFoundOnly(t *testing.T) {
	client := newFakeRedis()
	inner := new(MockCatalog)
	provider := newCached(client, inner)
	ctx := context.Background()

	p := sampleProperty()
	inner.On("FetchProperty", mock.Anything, "1").Return(&p, nil).Once()
	inner.On("FetchProperty", mock.Anything, "2").Return(nil, domain.ErrPropertyNotFound).Twice()

	for i := 0; i < 2; i++ {
		got, err := provider.FetchProperty(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Modern Family Home", got.Title)
		assert.True(t, got.Price.Equal(p.Price))
	}
	assert.Equal(t, time.Minute, client.ttls[propertyKeyPrefix+"1"])

	for i := 0; i < 2; i++ {
		_, err := provider.FetchProperty(ctx, "2")
		assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
	}
	inner.AssertExpectations(t)
}

func TestCatalogProvider_RedisDownFallsThrough(t *testing.T) {
	client := newFakeRedis()
	client.err = errors.New("connection refused")
	inner := new(MockCatalog)
	provider := newCached(client, inner)
	query := domain.CatalogQuery{Limit: 20}

	inner.On("FetchProperties", mock.Anything, query).Return([]domain.Property{sampleProperty()}, nil).Twice()

	for i := 0; i < 2; i++ {
		props, err := provider.FetchProperties(context.Background(), query)
		require.NoError(t, err)
		assert.Len(t, props, 1)
	}
	inner.AssertExpectations(t)
}

func TestCatalogProvider_ErrorsAreNotCached(t *testing.T) {
	client := newFakeRedis()
	inner := new(MockCatalog)
	provider := newCached(client, inner)
	query := domain.CatalogQuery{Limit: 20}

	inner.On("FetchProperties", mock.Anything, query).Return(nil, errors.New("boom")).Once()

	_, err := provider.FetchProperties(context.Background(), query)
	assert.Error(t, err)
	assert.Empty(t, client.data)
}

func TestCatalogProvider_FetchPopular(t *testing.T) {
	client := newFakeRedis()
	inner := new(MockCatalog)
	provider := newCached(client, inner)
	ctx := context.Background()

	inner.On("FetchPopular", mock.Anything).Return([]domain.PopularLocation{}, nil).Once()
	locs, err := provider.FetchPopular(ctx)
	require.NoError(t, err)
	assert.Empty(t, locs)
	assert.Empty(t, client.data, "empty list is not cached")

	seattle := []domain.PopularLocation{{Name: "Seattle", State: "WA", Country: "USA"}}
	inner.On("FetchPopular", mock.Anything).Return(seattle, nil).Once()
	locs, err = provider.FetchPopular(ctx)
	require.NoError(t, err)
	assert.Equal(t, seattle, locs)

	locs, err = provider.FetchPopular(ctx)
	require.NoError(t, err)
	assert.Equal(t, seattle, locs)
	inner.AssertExpectations(t)
}

func TestTokenRevocationStore(t *testing.T) {
	client := newFakeRedis()
	store := &TokenRevocationStore{client: client}
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))
	assert.Equal(t, time.Hour, client.ttls[revocationKeyPrefix+"jti-1"])

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	client.err = errors.New("connection refused")
	_, err = store.IsRevoked(ctx, "jti-1")
	assert.Error(t, err)
	assert.Error(t, store.Revoke(ctx, "jti-2", time.Hour))
}
