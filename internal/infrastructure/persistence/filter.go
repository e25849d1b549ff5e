package persistence

import (
	"strings"

	"github.com/pathshala/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// sortableColumns is the allow-list for ORDER BY; anything else falls
// back to created_at so filter input can never inject SQL.
var sortableColumns = map[string]bool{
	"created_at":       true,
	"updated_at":       true,
	"admission_date":   true,
	"admission_number": true,
	"initiated_at":     true,
	"name":             true,
	"status":           true,
	"total_fees":       true,
	"amount":           true,
}

// applyFilter applies ordering and pagination to a list query
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if !sortableColumns[orderBy] {
		orderBy = "created_at"
	}
	orderDir := "ASC"
	if strings.EqualFold(filter.OrderDir, "desc") || filter.OrderDir == "" {
		orderDir = "DESC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}
