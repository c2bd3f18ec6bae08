package common

import "strconv"

// Pagination bounds shared by every list endpoint.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPage         = 1_000_000
	MaxPageSize     = 200
	MinPage         = 1
	MinPageSize     = 1
)

// ClampInt pins v into [min, max].
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ParseClampedInt parses a query value into [min, max]. An absent value
// falls back to def, a malformed one to min. Fractional input truncates
// toward zero before clamping.
func ParseClampedInt(raw string, def, min, max int) int {
	if raw == "" {
		return ClampInt(def, min, max)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// "12.7" and similar still carry a usable integer part
		if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
			return ClampInt(int(f), min, max)
		}
		return min
	}
	return ClampInt(v, min, max)
}

// PageQuery is the normalized paging input a service passes to a repository.
type PageQuery struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
}

// Offset returns the zero-based row offset for SQL queries.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// CalculateTotalPages never reports fewer than one page, even for an
// empty result set.
func CalculateTotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := totalItems / pageSize
	if totalItems%pageSize > 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}

// PagedResult is the envelope every list endpoint returns.
type PagedResult[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// NewPagedResult builds a PagedResult, normalizing a nil items slice to
// an empty one so the JSON field is always an array.
func NewPagedResult[T any](items []T, page, pageSize, totalItems int) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	return PagedResult[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: CalculateTotalPages(totalItems, pageSize),
	}
}
