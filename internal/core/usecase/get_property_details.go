package usecase

import (
	"context"
	"errors"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"strings"
	"time"
)

const amenitiesWarning = "Amenities could not be loaded"

type GetPropertyDetailsUseCase struct {
	catalog   port.CatalogProviderPort
	amenities port.AmenityProviderPort
	registry  *ViewerRegistry
	gate      *ActionGate
	timeout   time.Duration
}

func NewGetPropertyDetailsUseCase(
	catalog port.CatalogProviderPort,
	amenities port.AmenityProviderPort,
	registry *ViewerRegistry,
	gate *ActionGate,
	timeout time.Duration,
) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{
		catalog:   catalog,
		amenities: amenities,
		registry:  registry,
		gate:      gate,
		timeout:   timeout,
	}
}

// Execute загружает объект и его удобства. Ошибка удобств не мешает ответу,
// а отметка избранного ставится только вошедшему пользователю.
func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, viewer domain.Viewer, propertyID string) (*domain.PropertyDetails, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "GetPropertyDetails",
		"viewer_key":  viewer.Key,
		"property_id": propertyID,
	})
	ctx = contextkeys.ContextWithLogger(ctx, ucLogger)

	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return nil, fmt.Errorf("%w: property id is required", domain.ErrValidation)
	}

	fetchCtx, cancel := ctx, context.CancelFunc(func() {})
	if uc.timeout > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, uc.timeout)
	}
	defer cancel()

	property, err := uc.catalog.FetchProperty(fetchCtx, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			ucLogger.Info("Property not found", nil)
			return nil, err
		}
		ucLogger.Error("Failed to fetch property", err, nil)
		return nil, fmt.Errorf("%w: failed to fetch property: %w", domain.ErrTransport, err)
	}

	details := &domain.PropertyDetails{Property: *property, Amenities: []domain.Amenity{}}

	if uc.amenities != nil {
		amenities, err := uc.amenities.FetchPropertyAmenities(fetchCtx, propertyID)
		if err != nil {
			ucLogger.Warn("Failed to fetch property amenities", port.Fields{"error": err.Error()})
			details.Warning = amenitiesWarning
		} else if amenities != nil {
			details.Amenities = amenities
		}
	}

	if uc.gate.Authorize(viewer.Session).Allowed {
		ctrl, err := uc.registry.Acquire(ctx, viewer)
		if err != nil {
			ucLogger.Warn("Failed to acquire viewer state, favorite mark skipped", port.Fields{"error": err.Error()})
		} else {
			details.Favorite = ctrl.Favorites().Contains(propertyID)
		}
	}

	return details, nil
}

type GetAmenitiesUseCase struct {
	amenities port.AmenityProviderPort
}

func NewGetAmenitiesUseCase(amenities port.AmenityProviderPort) *GetAmenitiesUseCase {
	return &GetAmenitiesUseCase{amenities: amenities}
}

func (uc *GetAmenitiesUseCase) Execute(ctx context.Context) ([]domain.Amenity, error) {
	amenities, err := uc.amenities.FetchAmenities(ctx)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to fetch amenities", err, port.Fields{"use_case": "GetAmenities"})
		return nil, fmt.Errorf("%w: failed to fetch amenities: %w", domain.ErrTransport, err)
	}
	if amenities == nil {
		amenities = []domain.Amenity{}
	}
	return amenities, nil
}
