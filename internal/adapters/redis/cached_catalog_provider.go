package redis_adapter

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"sort"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	catalogKeyPrefix  = "catalog:properties"
	propertyKeyPrefix = "catalog:property:"
	popularKey        = "catalog:locations:popular"
)

// cacheClient - подмножество команд Redis, нужное кэшу каталога.
type cacheClient interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

type cachedProperty struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Location    string          `json:"location"`
	Price       decimal.Decimal `json:"price"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   decimal.Decimal `json:"bathrooms"`
	Area        decimal.Decimal `json:"area"`
	Category    string          `json:"type"`
	ListingKind string          `json:"listing_type"`
	ImageURL    string          `json:"image"`
	CreatedAt   time.Time       `json:"created_at"`
}

type cachedLocation struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// CatalogProvider - обертка над поставщиком каталога и локаций, кэширующая ответы в Redis.
// Ошибки Redis не мешают запросу: он уходит напрямую в обернутый поставщик.
type CatalogProvider struct {
	client    cacheClient
	catalog   port.CatalogProviderPort
	locations port.LocationProviderPort
	ttl       time.Duration
}

func NewCatalogProvider(client *goredis.Client, catalog port.CatalogProviderPort, locations port.LocationProviderPort, ttl time.Duration) *CatalogProvider {
	return &CatalogProvider{client: client, catalog: catalog, locations: locations, ttl: ttl}
}

func (c *CatalogProvider) FetchProperties(ctx context.Context, query domain.CatalogQuery) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CachedCatalogProvider",
		"method":    "FetchProperties",
	})
	key := catalogCacheKey(query)

	var cached []cachedProperty
	hit, err := c.getCached(ctx, key, &cached)
	if err != nil {
		logger.Warn("Catalog cache read failed", port.Fields{"key": key, "error": err.Error()})
	}
	if hit {
		logger.Debug("Catalog cache hit", port.Fields{"key": key})
		return fromCachedProperties(cached), nil
	}

	props, err := c.catalog.FetchProperties(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := c.setCached(ctx, key, toCachedProperties(props)); err != nil {
		logger.Warn("Catalog cache write failed", port.Fields{"key": key, "error": err.Error()})
	}
	return props, nil
}

// FetchProperty кэширует найденный объект. Отсутствие объекта не кэшируется.
func (c *CatalogProvider) FetchProperty(ctx context.Context, id string) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CachedCatalogProvider",
		"method":    "FetchProperty",
	})
	key := propertyKeyPrefix + id

	var cached cachedProperty
	hit, err := c.getCached(ctx, key, &cached)
	if err != nil {
		logger.Warn("Property cache read failed", port.Fields{"key": key, "error": err.Error()})
	}
	if hit {
		p := fromCachedProperties([]cachedProperty{cached})[0]
		return &p, nil
	}

	p, err := c.catalog.FetchProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.setCached(ctx, key, toCachedProperties([]domain.Property{*p})[0]); err != nil {
		logger.Warn("Property cache write failed", port.Fields{"key": key, "error": err.Error()})
	}
	return p, nil
}

func (c *CatalogProvider) FetchPopular(ctx context.Context) ([]domain.PopularLocation, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CachedCatalogProvider",
		"method":    "FetchPopular",
	})

	var cached []cachedLocation
	hit, err := c.getCached(ctx, popularKey, &cached)
	if err != nil {
		logger.Warn("Locations cache read failed", port.Fields{"error": err.Error()})
	}
	if hit {
		out := make([]domain.PopularLocation, 0, len(cached))
		for _, l := range cached {
			out = append(out, domain.PopularLocation{Name: l.Name, State: l.State, Country: l.Country})
		}
		return out, nil
	}

	locations, err := c.locations.FetchPopular(ctx)
	if err != nil {
		return nil, err
	}
	// пустой список не кэшируем, чтобы не закрепить встроенную подстановку
	if len(locations) > 0 {
		toCache := make([]cachedLocation, 0, len(locations))
		for _, l := range locations {
			toCache = append(toCache, cachedLocation{Name: l.Name, State: l.State, Country: l.Country})
		}
		if err := c.setCached(ctx, popularKey, toCache); err != nil {
			logger.Warn("Locations cache write failed", port.Fields{"error": err.Error()})
		}
	}
	return locations, nil
}

func (c *CatalogProvider) getCached(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *CatalogProvider) setCached(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// catalogCacheKey строит ключ по всем параметрам запроса.
func catalogCacheKey(query domain.CatalogQuery) string {
	params := map[string]string{
		"location": strings.ToLower(strings.TrimSpace(query.Location)),
		"limit":    strconv.Itoa(query.Limit),
		"offset":   strconv.Itoa(query.Offset),
	}
	if query.Criteria != nil {
		form := query.Criteria.Form()
		params["type"] = form.Category
		params["listing_type"] = form.ListingKind
		params["min_price"] = form.MinPrice
		params["max_price"] = form.MaxPrice
		params["bedrooms"] = form.Bedrooms
	}
	return generateQueryCacheKey(catalogKeyPrefix, params)
}

func generateQueryCacheKey(prefix string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(params[k])
	}

	hash := md5.Sum([]byte(builder.String()))
	return prefix + ":" + hex.EncodeToString(hash[:])
}

func toCachedProperties(props []domain.Property) []cachedProperty {
	out := make([]cachedProperty, 0, len(props))
	for _, p := range props {
		out = append(out, cachedProperty{
			ID:          p.ID,
			Title:       p.Title,
			Location:    p.Location,
			Price:       p.Price,
			Bedrooms:    p.Bedrooms,
			Bathrooms:   p.Bathrooms,
			Area:        p.Area,
			Category:    string(p.Category),
			ListingKind: string(p.ListingKind),
			ImageURL:    p.ImageURL,
			CreatedAt:   p.CreatedAt,
		})
	}
	return out
}

func fromCachedProperties(cached []cachedProperty) []domain.Property {
	out := make([]domain.Property, 0, len(cached))
	for _, p := range cached {
		out = append(out, domain.Property{
			ID:          p.ID,
			Title:       p.Title,
			Location:    p.Location,
			Price:       p.Price,
			Bedrooms:    p.Bedrooms,
			Bathrooms:   p.Bathrooms,
			Area:        p.Area,
			Category:    domain.Category(p.Category),
			ListingKind: domain.ListingKind(p.ListingKind),
			ImageURL:    p.ImageURL,
			CreatedAt:   p.CreatedAt,
		})
	}
	return out
}
