package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	BedroomsAnyValue         = "any"
	BedroomsThreeOrMoreValue = "3+"
)

type bedroomKind int

const (
	bedroomsAny bedroomKind = iota
	bedroomsExact
	bedroomsAtLeast
)

// BedroomSelector - селектор по количеству спален: "any", точное число или "n+".
type BedroomSelector struct {
	kind  bedroomKind
	count int
}

func AnyBedrooms() BedroomSelector { return BedroomSelector{kind: bedroomsAny} }

func ExactBedrooms(n int) BedroomSelector { return BedroomSelector{kind: bedroomsExact, count: n} }

func AtLeastBedrooms(n int) BedroomSelector { return BedroomSelector{kind: bedroomsAtLeast, count: n} }

// ThreeOrMoreBedrooms - селектор "3+" из формы фильтров.
func ThreeOrMoreBedrooms() BedroomSelector { return AtLeastBedrooms(3) }

// ParseBedroomSelector разбирает значение из формы: "any", "0", "2", "3+".
func ParseBedroomSelector(value string) (BedroomSelector, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == BedroomsAnyValue {
		return AnyBedrooms(), nil
	}

	atLeast := strings.HasSuffix(value, "+")
	n, err := strconv.Atoi(strings.TrimSuffix(value, "+"))
	if err != nil || n < 0 {
		return BedroomSelector{}, fmt.Errorf("%w: invalid bedrooms selector %q", ErrValidation, value)
	}
	if atLeast {
		return AtLeastBedrooms(n), nil
	}
	return ExactBedrooms(n), nil
}

func (s BedroomSelector) IsAny() bool { return s.kind == bedroomsAny }

// Count возвращает число спален и признак "n и больше". Для "any" смысла не имеет.
func (s BedroomSelector) Count() (n int, atLeast bool) {
	return s.count, s.kind == bedroomsAtLeast
}

// Matches проверяет количество спален объекта.
func (s BedroomSelector) Matches(bedrooms int) bool {
	switch s.kind {
	case bedroomsExact:
		return bedrooms == s.count
	case bedroomsAtLeast:
		return bedrooms >= s.count
	default:
		return true
	}
}

func (s BedroomSelector) String() string {
	switch s.kind {
	case bedroomsExact:
		return strconv.Itoa(s.count)
	case bedroomsAtLeast:
		return strconv.Itoa(s.count) + "+"
	default:
		return BedroomsAnyValue
	}
}

// FilterCriteria - текущие значения фильтров пользователя.
// Нулевые значения всех полей (см. DefaultCriteria) пропускают любой объект.
type FilterCriteria struct {
	Category    Category
	ListingKind ListingKind
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Bedrooms    BedroomSelector
}

// DefaultCriteria возвращает фильтр-тождество.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Category:    CategoryAll,
		ListingKind: ListingKindAll,
		Bedrooms:    AnyBedrooms(),
	}
}

// CriteriaForm - строковое представление фильтров, как их присылает форма.
type CriteriaForm struct {
	Category    string
	ListingKind string
	MinPrice    string
	MaxPrice    string
	Bedrooms    string
}

// CriteriaPatch - изменение отдельных полей фильтра. nil - поле не меняется.
type CriteriaPatch struct {
	Category    *string
	ListingKind *string
	MinPrice    *string
	MaxPrice    *string
	Bedrooms    *string
}

// ParseCriteria собирает FilterCriteria из формы.
// Пустые строки означают значение по умолчанию.
func ParseCriteria(form CriteriaForm) (FilterCriteria, error) {
	c := DefaultCriteria()

	category, err := parseCategorySelector(form.Category)
	if err != nil {
		return FilterCriteria{}, err
	}
	c.Category = category

	kind, err := parseListingKindSelector(form.ListingKind)
	if err != nil {
		return FilterCriteria{}, err
	}
	c.ListingKind = kind

	if c.MinPrice, err = parsePriceBound("min_price", form.MinPrice); err != nil {
		return FilterCriteria{}, err
	}
	if c.MaxPrice, err = parsePriceBound("max_price", form.MaxPrice); err != nil {
		return FilterCriteria{}, err
	}

	if c.Bedrooms, err = ParseBedroomSelector(form.Bedrooms); err != nil {
		return FilterCriteria{}, err
	}
	return c, nil
}

// Form возвращает строковое представление фильтров.
func (c FilterCriteria) Form() CriteriaForm {
	form := CriteriaForm{
		Category:    string(c.Category),
		ListingKind: string(c.ListingKind),
		Bedrooms:    c.Bedrooms.String(),
	}
	if form.Category == "" {
		form.Category = string(CategoryAll)
	}
	if form.ListingKind == "" {
		form.ListingKind = string(ListingKindAll)
	}
	if c.MinPrice != nil {
		form.MinPrice = c.MinPrice.String()
	}
	if c.MaxPrice != nil {
		form.MaxPrice = c.MaxPrice.String()
	}
	return form
}

// Apply меняет только переданные поля и возвращает новые фильтры.
func (c FilterCriteria) Apply(patch CriteriaPatch) (FilterCriteria, error) {
	form := c.Form()
	if patch.Category != nil {
		form.Category = *patch.Category
	}
	if patch.ListingKind != nil {
		form.ListingKind = *patch.ListingKind
	}
	if patch.MinPrice != nil {
		form.MinPrice = *patch.MinPrice
	}
	if patch.MaxPrice != nil {
		form.MaxPrice = *patch.MaxPrice
	}
	if patch.Bedrooms != nil {
		form.Bedrooms = *patch.Bedrooms
	}
	return ParseCriteria(form)
}

// IsDefault - true, если ни один фильтр не активен.
func (c FilterCriteria) IsDefault() bool {
	return !c.categoryActive() && !c.listingKindActive() &&
		c.MinPrice == nil && c.MaxPrice == nil && c.Bedrooms.IsAny()
}

func (c FilterCriteria) categoryActive() bool {
	return c.Category != "" && c.Category != CategoryAll
}

func (c FilterCriteria) listingKindActive() bool {
	return c.ListingKind != "" && c.ListingKind != ListingKindAll
}

func parseCategorySelector(value string) (Category, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == string(CategoryAll) {
		return CategoryAll, nil
	}
	category := Category(value)
	if !category.IsValid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrValidation, value)
	}
	return category, nil
}

func parseListingKindSelector(value string) (ListingKind, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == string(ListingKindAll) {
		return ListingKindAll, nil
	}
	kind := ListingKind(value)
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: unknown listing kind %q", ErrValidation, value)
	}
	return kind, nil
}

func parsePriceBound(name, value string) (*decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number, got %q", ErrValidation, name, value)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %s must not be negative", ErrValidation, name)
	}
	return &d, nil
}
