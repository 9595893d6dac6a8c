package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Option mutates a gorm statement before execution.
type Option interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

// QueryOption is the option type accepted by generic repositories.
type QueryOption = Option

type limit struct {
	n int
}

func (o limit) Apply(stmt *gorm.DB) *gorm.DB {
	if o.n <= 0 {
		return stmt
	}
	return stmt.Limit(o.n)
}

// WithLimit caps the number of returned rows.
func WithLimit(n int) Option {
	return limit{n: n}
}

type sortBy struct {
	clause string
}

func (o sortBy) Apply(stmt *gorm.DB) *gorm.DB {
	if o.clause == "" {
		return stmt
	}
	return stmt.Order(o.clause)
}

// WithSortBy applies an ORDER BY clause.
func WithSortBy(clause string) Option {
	return sortBy{clause: clause}
}

// WithQuerySortBy validates user-supplied sort parameters against an
// allow-list and returns the ORDER BY clause, defaulting to created_at desc.
func WithQuerySortBy(field, order string, allowed map[string]bool) string {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" || !allowed[field] {
		field = "created_at"
	}

	order = strings.ToLower(strings.TrimSpace(order))
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	return fmt.Sprintf("%s %s", field, order)
}
