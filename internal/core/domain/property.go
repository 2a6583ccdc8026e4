package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category - тип объекта недвижимости.
type Category string

const (
	CategoryAll       Category = "all"
	CategoryHouse     Category = "house"
	CategoryApartment Category = "apartment"
	CategoryCondo     Category = "condo"
	CategoryTownhouse Category = "townhouse"
	CategoryLand      Category = "land"
)

// Categories - все допустимые значения категории (без селектора "all").
var Categories = []Category{CategoryHouse, CategoryApartment, CategoryCondo, CategoryTownhouse, CategoryLand}

// IsValid проверяет, что категория входит в перечисление.
func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// ListingKind - тип сделки.
type ListingKind string

const (
	ListingKindAll  ListingKind = "all"
	ListingKindSale ListingKind = "sale"
	ListingKindRent ListingKind = "rent"
)

func (k ListingKind) IsValid() bool {
	return k == ListingKindSale || k == ListingKindRent
}

// Property - карточка объекта из каталога.
// После загрузки не изменяется, при повторной загрузке набор заменяется целиком.
type Property struct {
	ID          string
	Title       string
	Location    string
	Price       decimal.Decimal
	Bedrooms    int // 0 - студия
	Bathrooms   decimal.Decimal
	Area        decimal.Decimal
	Category    Category
	ListingKind ListingKind
	ImageURL    string
	CreatedAt   time.Time
}

// CatalogQuery - параметры запроса к поставщику каталога.
type CatalogQuery struct {
	Criteria *FilterCriteria // nil - без фильтров
	Location string          // пустая строка - любая локация
	Limit    int             // 0 - без ограничения
	Offset   int
}
