// Package memory provides map-backed repository implementations.
// It is selected with database.driver = "memory" and is intended for
// local development and tests where no relational store is available.
package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
)

// containsFold reports whether s contains substr, case-insensitively
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// toString renders a filter value the way the SQL driver would bind it
func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case interface{ String() string }:
		return v.String()
	default:
		return ""
	}
}

// sortByCreated orders items by creation time. The memory driver only
// honors created_at ordering; other OrderBy columns fall back to it.
func sortByCreated[T any](items []T, createdAt func(T) time.Time, filter shared.Filter) {
	asc := strings.EqualFold(filter.OrderDir, "asc") && filter.OrderBy != ""
	sort.SliceStable(items, func(i, j int) bool {
		if asc {
			return createdAt(items[i]).Before(createdAt(items[j]))
		}
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}

// paginate slices items according to the filter's page settings
func paginate[T any](items []T, filter shared.Filter) []T {
	if filter.Page <= 0 || filter.PageSize <= 0 {
		return items
	}
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + filter.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
