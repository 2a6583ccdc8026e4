package domain_test

import (
	"testing"

	"listing-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchParams_ValidateRequiresLocation(t *testing.T) {
	for _, location := range []string{"", "   ", "\t"} {
		err := domain.SearchParams{Location: location}.Validate()
		assert.ErrorIs(t, err, domain.ErrValidation, "location %q", location)
	}

	assert.NoError(t, domain.SearchParams{Location: " Chicago "}.Validate())
}

func TestSearchParams_ValidateRejectsUnknownValues(t *testing.T) {
	tests := []domain.SearchParams{
		{Location: "Miami", PropertyType: "castle"},
		{Location: "Miami", PriceRange: "cheap"},
		{Location: "Miami", PriceRange: "100-abc"},
		{Location: "Miami", Bedrooms: "lots"},
		{Location: "Miami", Bathrooms: "-1"},
	}
	for _, p := range tests {
		assert.ErrorIs(t, p.Validate(), domain.ErrValidation, "%+v", p)
	}
}

func TestSearchParams_Normalize(t *testing.T) {
	p := domain.SearchParams{Location: "  Seattle "}.Normalize()

	assert.Equal(t, domain.SearchParams{
		Location:     "Seattle",
		PropertyType: "any",
		PriceRange:   "any",
		Bedrooms:     "any",
		Bathrooms:    "any",
	}, p)
}

func TestSearchParams_ToCriteria(t *testing.T) {
	tests := []struct {
		name   string
		params domain.SearchParams
		want   domain.CriteriaForm
	}{
		{
			name:   "any",
			params: domain.SearchParams{Location: "Miami"},
			want:   domain.CriteriaForm{Category: "all", ListingKind: "all", Bedrooms: "any"},
		},
		{
			name:   "bounded range and min bedrooms",
			params: domain.SearchParams{Location: "Miami", PropertyType: "condo", PriceRange: "100000-300000", Bedrooms: "2"},
			want:   domain.CriteriaForm{Category: "condo", ListingKind: "all", MinPrice: "100000", MaxPrice: "300000", Bedrooms: "2+"},
		},
		{
			name:   "open range and studio",
			params: domain.SearchParams{Location: "Miami", PriceRange: "1000000+", Bedrooms: "0"},
			want:   domain.CriteriaForm{Category: "all", ListingKind: "all", MinPrice: "1000000", Bedrooms: "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.params.ToCriteria()
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Form())
		})
	}
}
