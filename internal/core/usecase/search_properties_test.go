package usecase_test

import (
	"context"
	"errors"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/usecase"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type searchFixture struct {
	*registryFixture
	history   *MockSearchHistoryStore
	publisher *MockActivityPublisher
	uc        *usecase.SearchPropertiesUseCase
}

func newSearchFixture() *searchFixture {
	f := &searchFixture{
		registryFixture: newRegistryFixture(0),
		history:         new(MockSearchHistoryStore),
		publisher:       new(MockActivityPublisher),
	}
	f.uc = usecase.NewSearchPropertiesUseCase(f.registry, f.catalog, f.history, f.gate, f.publisher, 0, 0)
	f.locations.On("FetchPopular", mock.Anything).Return(seattle, nil)
	f.store.On("List", mock.Anything, mock.Anything).Return([]domain.Favorite{}, nil)
	// начальная загрузка каталога
	f.catalog.On("FetchProperties", mock.Anything, mock.MatchedBy(func(q domain.CatalogQuery) bool {
		return q.Location == ""
	})).Return(sampleProperties(), nil)
	return f
}

func (f *searchFixture) expectSearch(location string, result []domain.Property, err error) {
	f.catalog.On("FetchProperties", mock.Anything, mock.MatchedBy(func(q domain.CatalogQuery) bool {
		return q.Location == location && q.Criteria != nil
	})).Return(result, err)
}

func TestSearchProperties_EmptyLocationRejectedBeforeBackend(t *testing.T) {
	f := newSearchFixture()
	viewer := domain.Viewer{Key: "u1", Session: userSession("u1")}

	_, err := f.uc.Execute(context.Background(), viewer, domain.SearchParams{Location: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	f.history.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	f.catalog.AssertNotCalled(t, "FetchProperties", mock.Anything, mock.Anything)
}

func TestSearchProperties_AuthenticatedSavesHistoryAndAppliesCriteria(t *testing.T) {
	f := newSearchFixture()
	viewer := domain.Viewer{Key: "u1", Session: userSession("u1")}
	params := domain.SearchParams{Location: " Seattle ", PropertyType: "house", Bedrooms: "3"}

	f.history.On("Save", mock.Anything, "u1", mock.MatchedBy(func(p domain.SearchParams) bool {
		return p.Location == "Seattle" && p.PropertyType == "house"
	})).Return(&domain.SearchRecord{ID: "s1", UserID: "u1"}, nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.ActivityEvent) bool {
		return e.Type == domain.ActivitySearchSaved && e.Search != nil && e.Search.Location == "Seattle"
	})).Return(nil).Once()
	f.expectSearch("Seattle", sampleProperties(), nil)

	result, err := f.uc.Execute(context.Background(), viewer, params)
	require.NoError(t, err)
	assert.Empty(t, result.Warning)
	require.NotNil(t, result.Saved)
	assert.Equal(t, "s1", result.Saved.ID)
	assert.Equal(t, []string{"A", "C"}, ids(result.View))
	assert.Equal(t, domain.CategoryHouse, result.Criteria.Category)

	ctrl, err := f.registry.Acquire(context.Background(), viewer)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryHouse, ctrl.Criteria().Category)
	f.history.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestSearchProperties_HistoryFailureBecomesWarning(t *testing.T) {
	f := newSearchFixture()
	viewer := domain.Viewer{Key: "u1", Session: userSession("u1")}

	f.history.On("Save", mock.Anything, "u1", mock.Anything).Return(nil, errors.New("insert failed"))
	f.expectSearch("Miami", sampleProperties()[:1], nil)

	result, err := f.uc.Execute(context.Background(), viewer, domain.SearchParams{Location: "Miami"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Warning)
	assert.Nil(t, result.Saved)
	assert.Equal(t, []string{"A"}, ids(result.View))
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSearchProperties_AnonymousDoesNotSaveHistory(t *testing.T) {
	f := newSearchFixture()
	viewer := domain.Viewer{Key: "anon", Session: domain.AnonymousSession()}
	f.expectSearch("Chicago", sampleProperties(), nil)

	result, err := f.uc.Execute(context.Background(), viewer, domain.SearchParams{Location: "Chicago"})
	require.NoError(t, err)
	assert.Len(t, result.View, 3)
	assert.Empty(t, result.Warning)
	f.history.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchProperties_CatalogFailure(t *testing.T) {
	f := newSearchFixture()
	viewer := domain.Viewer{Key: "anon", Session: domain.AnonymousSession()}
	f.expectSearch("Chicago", nil, errors.New("down"))

	_, err := f.uc.Execute(context.Background(), viewer, domain.SearchParams{Location: "Chicago"})
	assert.ErrorIs(t, err, domain.ErrTransport)

	ctrl, err := f.registry.Acquire(context.Background(), viewer)
	require.NoError(t, err)
	assert.True(t, ctrl.Criteria().IsDefault())
	assert.Len(t, ctrl.View(), 3)
}

func TestGetRecentSearches(t *testing.T) {
	history := new(MockSearchHistoryStore)
	uc := usecase.NewGetRecentSearchesUseCase(history, usecase.NewActionGate())

	_, err := uc.Execute(context.Background(), domain.AnonymousSession(), 0)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	records := []domain.SearchRecord{{ID: "s2"}, {ID: "s1"}}
	history.On("ListRecent", mock.Anything, "u1", usecase.DefaultRecentSearchesLimit).Return(records, nil)
	got, err := uc.Execute(context.Background(), userSession("u1"), 0)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}
