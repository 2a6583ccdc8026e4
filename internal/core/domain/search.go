package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

const anyValue = "any"

// SearchParams - поля формы поиска.
type SearchParams struct {
	Location     string `validate:"required,max=200"`
	PropertyType string `validate:"omitempty,oneof=any house apartment condo townhouse land"`
	PriceRange   string `validate:"omitempty,max=64"`
	Bedrooms     string `validate:"omitempty,max=8"`
	Bathrooms    string `validate:"omitempty,max=8"`
}

// Normalize обрезает пробелы и подставляет "any" в пустые необязательные поля.
func (p SearchParams) Normalize() SearchParams {
	p.Location = strings.TrimSpace(p.Location)
	p.PropertyType = orAny(p.PropertyType)
	p.PriceRange = orAny(p.PriceRange)
	p.Bedrooms = orAny(p.Bedrooms)
	p.Bathrooms = orAny(p.Bathrooms)
	return p
}

// Validate проверяет форму. Пустая локация - ошибка валидации,
// до бэкенда такой запрос не доходит.
func (p SearchParams) Validate() error {
	p = p.Normalize()
	if err := validate.Struct(p); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			fe := vErrs[0]
			return fmt.Errorf("%w: field %s failed on %q", ErrValidation, strings.ToLower(fe.Field()), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := p.ToCriteria(); err != nil {
		return err
	}
	if _, err := parseAtLeast("bathrooms", p.Bathrooms); err != nil {
		return err
	}
	return nil
}

// ToCriteria переводит форму поиска в фильтры.
// Ванные комнаты в фильтры не входят и сохраняются только в истории.
func (p SearchParams) ToCriteria() (FilterCriteria, error) {
	c := DefaultCriteria()

	if pt := orAny(p.PropertyType); pt != anyValue {
		category := Category(pt)
		if !category.IsValid() {
			return FilterCriteria{}, fmt.Errorf("%w: unknown property type %q", ErrValidation, pt)
		}
		c.Category = category
	}

	minPrice, maxPrice, err := parsePriceRange(orAny(p.PriceRange))
	if err != nil {
		return FilterCriteria{}, err
	}
	c.MinPrice, c.MaxPrice = minPrice, maxPrice

	// В форме поиска "2" означает "2 и больше", "0" - студия.
	bedrooms := orAny(p.Bedrooms)
	switch {
	case bedrooms == anyValue:
		c.Bedrooms = AnyBedrooms()
	case bedrooms == "0":
		c.Bedrooms = ExactBedrooms(0)
	default:
		n, err := parseAtLeast("bedrooms", bedrooms)
		if err != nil {
			return FilterCriteria{}, err
		}
		c.Bedrooms = AtLeastBedrooms(n)
	}
	return c, nil
}

// SearchRecord - запись истории поиска.
type SearchRecord struct {
	ID         string
	UserID     string
	Params     SearchParams
	SearchedAt time.Time
}

// SearchResult - итог выполнения поиска.
type SearchResult struct {
	Params   SearchParams
	Criteria FilterCriteria
	View     []Property
	// Warning заполняется, если историю поиска сохранить не удалось.
	Warning string
	Saved   *SearchRecord
}

func orAny(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return anyValue
	}
	return v
}

// parsePriceRange понимает "any", "100000-300000" и "1000000+".
func parsePriceRange(value string) (*decimal.Decimal, *decimal.Decimal, error) {
	if value == anyValue {
		return nil, nil, nil
	}
	if strings.HasSuffix(value, "+") {
		lo, err := parsePriceBound("price_range", strings.TrimSuffix(value, "+"))
		if err != nil || lo == nil {
			return nil, nil, fmt.Errorf("%w: invalid price range %q", ErrValidation, value)
		}
		return lo, nil, nil
	}
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("%w: invalid price range %q", ErrValidation, value)
	}
	lo, err := parsePriceBound("price_range", parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid price range %q", ErrValidation, value)
	}
	hi, err := parsePriceBound("price_range", parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid price range %q", ErrValidation, value)
	}
	return lo, hi, nil
}

func parseAtLeast(name, value string) (int, error) {
	if value == anyValue || value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(value, "+"))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s value %q", ErrValidation, name, value)
	}
	return n, nil
}
