package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

var allowedSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"username":   true,
	"start_date": true,
	"end_date":   true,
	"score":      true,
	"order":      true,
}

// applyPaginationAndSort applies limit/offset and a whitelisted sort column.
func applyPaginationAndSort(query *gorm.DB, limit, offset int, sortBy, sortOrder string) *gorm.DB {
	if sortBy != "" && allowedSortColumns[sortBy] {
		order := "asc"
		if sortOrder == "desc" {
			order = "desc"
		}
		query = query.Order(fmt.Sprintf("%q %s", sortBy, order))
	} else {
		query = query.Order("created_at desc")
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
