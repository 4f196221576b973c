// Package listing implements the paginated query contract shared by every
// resource service: page/pageSize bounds, substring search over whitelisted
// fields, ordering, and a count+fetch pair executed inside one transaction so
// the pagination block matches the returned page.
package listing

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
)

const (
	// DefaultPage is used when a request omits the page parameter.
	DefaultPage = 1
	// DefaultPageSize is used when a request omits the pageSize parameter.
	DefaultPageSize = 10
	// MaxPageSize bounds the pageSize parameter.
	MaxPageSize = 100
)

// Params describes one paginated list request.
type Params struct {
	Page     int
	PageSize int
	// Search maps an exposed field name to a substring to match.
	Search map[string]string
	// OrderBy is an exposed field name; empty means the resource default.
	OrderBy  string
	OrderDir string // "asc" or "desc"; empty means asc
}

// Pagination is the metadata block returned alongside every page of data.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Find runs a paginated query for T. fields maps the exposed search/order
// names to their database columns; defaultOrder is the column ordered by when
// the request names none. Parameter validation happens before any query, and
// the count plus the page read share one transaction.
func Find[T any](db *gorm.DB, params Params, fields map[string]string, defaultOrder string, preloads ...string) ([]T, Pagination, error) {
	if params.Page < 1 {
		return nil, Pagination{}, apperrors.Validation("page must be at least 1")
	}
	if params.PageSize < 1 || params.PageSize > MaxPageSize {
		return nil, Pagination{}, apperrors.Validation("pageSize must be between 1 and %d", MaxPageSize)
	}

	orderColumn := defaultOrder
	if params.OrderBy != "" {
		column, ok := fields[params.OrderBy]
		if !ok {
			return nil, Pagination{}, apperrors.Validation("cannot order by unknown field '%s'", params.OrderBy)
		}
		orderColumn = column
	}
	direction := "asc"
	switch params.OrderDir {
	case "", "asc":
	case "desc":
		direction = "desc"
	default:
		return nil, Pagination{}, apperrors.Validation("orderDir must be 'asc' or 'desc'")
	}

	type filter struct {
		column string
		value  string
	}
	filters := make([]filter, 0, len(params.Search))
	for field, value := range params.Search {
		column, ok := fields[field]
		if !ok {
			return nil, Pagination{}, apperrors.Validation("cannot search by unknown field '%s'", field)
		}
		filters = append(filters, filter{column: column, value: value})
	}

	var (
		rows  []T
		total int64
	)
	applyFilters := func(query *gorm.DB) *gorm.DB {
		for _, f := range filters {
			query = query.Where(fmt.Sprintf("%s LIKE ?", f.column), "%"+f.value+"%")
		}
		return query
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := applyFilters(tx.Model(new(T))).Count(&total).Error; err != nil {
			return fmt.Errorf("failed to count rows: %w", err)
		}
		query := applyFilters(tx.Model(new(T)))
		for _, preload := range preloads {
			query = query.Preload(preload)
		}
		offset := (params.Page - 1) * params.PageSize
		if err := query.
			Order(fmt.Sprintf("%s %s", orderColumn, direction)).
			Offset(offset).
			Limit(params.PageSize).
			Find(&rows).Error; err != nil {
			return fmt.Errorf("failed to fetch page: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, Pagination{}, err
	}

	return rows, Pagination{
		Page:       params.Page,
		PageSize:   params.PageSize,
		Total:      total,
		TotalPages: TotalPages(total, params.PageSize),
	}, nil
}

// TotalPages computes ceil(total / pageSize).
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
