package postgres_adapter

import (
	"fmt"
	"listing-service/internal/core/domain"
	"strings"

	"github.com/shopspring/decimal"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argID      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argID: 1,
		args:  make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

// addDecimalRange - цены передаются строкой и приводятся к numeric на стороне БД.
func (qb *queryBuilder) addDecimalRange(fieldName string, lo, hi *decimal.Decimal) {
	if lo != nil {
		qb.addCondition("%s >= $%d::numeric", fieldName, lo.String())
	}
	if hi != nil {
		qb.addCondition("%s <= $%d::numeric", fieldName, hi.String())
	}
}

// nextArg резервирует номер параметра (для LIMIT/OFFSET).
func (qb *queryBuilder) nextArg(arg interface{}) string {
	placeholder := fmt.Sprintf("$%d", qb.argID)
	qb.args = append(qb.args, arg)
	qb.argID++
	return placeholder
}

func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// applyCatalogQuery разбирает запрос каталога в WHERE и аргументы.
func applyCatalogQuery(query domain.CatalogQuery) *queryBuilder {
	qb := newQueryBuilder()

	if loc := strings.TrimSpace(query.Location); loc != "" {
		qb.addCondition("%s ILIKE $%d", "p.location", "%"+escapeLike(loc)+"%")
	}
	if query.Criteria == nil {
		return qb
	}
	c := *query.Criteria

	if c.Category != "" && c.Category != domain.CategoryAll {
		qb.addCondition("%s = $%d", "p.type", string(c.Category))
	}
	if c.ListingKind != "" && c.ListingKind != domain.ListingKindAll {
		qb.addCondition("%s = $%d", "p.listing_type", string(c.ListingKind))
	}
	qb.addDecimalRange("p.price", c.MinPrice, c.MaxPrice)

	if !c.Bedrooms.IsAny() {
		n, atLeast := c.Bedrooms.Count()
		if atLeast {
			qb.addCondition("%s >= $%d", "p.bedrooms", n)
		} else {
			qb.addCondition("%s = $%d", "p.bedrooms", n)
		}
	}
	return qb
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
