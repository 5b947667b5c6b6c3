// file: internal/database/sort.go
// version: 1.1.0
// guid: 3c7d1e5f-9a2b-4c8d-0e1f-6a5b4c3d2e1f

package database

import (
	"sort"
	"strings"

	"github.com/obodeflix/obodeflix/internal/models"
)

// Per-entity whitelists of sortable columns. Anything outside the whitelist
// falls back to id so a hand-crafted orderColumn can never break a query.
var (
	SeriesOrderColumns  = []string{"id", "mainName", "createdAt", "updatedAt"}
	SeasonOrderColumns  = []string{"id", "name", "position", "createdAt", "updatedAt"}
	EpisodeOrderColumns = []string{"id", "name", "position", "duration", "createdAt", "updatedAt"}
	TagOrderColumns     = []string{"id", "name", "createdAt", "updatedAt"}
	CommentOrderColumns = []string{"id", "createdAt", "updatedAt"}
	UserOrderColumns    = []string{"id", "name", "email", "createdAt"}
)

// ValidOrderColumn reports whether column is in the whitelist.
func ValidOrderColumn(whitelist []string, column string) bool {
	for _, c := range whitelist {
		if c == column {
			return true
		}
	}
	return false
}

func orderColumnOrID(whitelist []string, column string) string {
	if ValidOrderColumn(whitelist, column) {
		return column
	}
	return "id"
}

// stableSort sorts with a tie-break on the less function result being equal,
// inverting for descending order. All list sorts are stable so equal keys keep
// insertion (id) order.
func stableSort[T any](items []T, desc bool, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

func lessString(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

func sortSeries(items []models.Series, column string, orderBy models.OrderBy) {
	desc := orderBy == models.OrderDesc
	switch orderColumnOrID(SeriesOrderColumns, column) {
	case "mainName":
		stableSort(items, desc, func(a, b models.Series) bool { return lessString(a.MainName, b.MainName) })
	case "createdAt":
		stableSort(items, desc, func(a, b models.Series) bool { return a.CreatedAt.Before(b.CreatedAt) })
	case "updatedAt":
		stableSort(items, desc, func(a, b models.Series) bool { return a.UpdatedAt.Before(b.UpdatedAt) })
	default:
		stableSort(items, desc, func(a, b models.Series) bool { return a.ID < b.ID })
	}
}

func sortSeasons(items []models.Season, column string, orderBy models.OrderBy) {
	desc := orderBy == models.OrderDesc
	switch orderColumnOrID(SeasonOrderColumns, column) {
	case "name":
		stableSort(items, desc, func(a, b models.Season) bool { return lessString(a.Name, b.Name) })
	case "position":
		stableSort(items, desc, func(a, b models.Season) bool { return a.Position < b.Position })
	case "createdAt":
		stableSort(items, desc, func(a, b models.Season) bool { return a.CreatedAt.Before(b.CreatedAt) })
	case "updatedAt":
		stableSort(items, desc, func(a, b models.Season) bool { return a.UpdatedAt.Before(b.UpdatedAt) })
	default:
		stableSort(items, desc, func(a, b models.Season) bool { return a.ID < b.ID })
	}
}

func sortEpisodes(items []models.Episode, column string, orderBy models.OrderBy) {
	desc := orderBy == models.OrderDesc
	switch orderColumnOrID(EpisodeOrderColumns, column) {
	case "name":
		stableSort(items, desc, func(a, b models.Episode) bool { return lessString(a.Name, b.Name) })
	case "position":
		stableSort(items, desc, func(a, b models.Episode) bool { return a.Position < b.Position })
	case "duration":
		stableSort(items, desc, func(a, b models.Episode) bool { return a.Duration < b.Duration })
	case "createdAt":
		stableSort(items, desc, func(a, b models.Episode) bool { return a.CreatedAt.Before(b.CreatedAt) })
	case "updatedAt":
		stableSort(items, desc, func(a, b models.Episode) bool { return a.UpdatedAt.Before(b.UpdatedAt) })
	default:
		stableSort(items, desc, func(a, b models.Episode) bool { return a.ID < b.ID })
	}
}

func sortTags(items []models.Tag, column string, orderBy models.OrderBy) {
	desc := orderBy == models.OrderDesc
	switch orderColumnOrID(TagOrderColumns, column) {
	case "name":
		stableSort(items, desc, func(a, b models.Tag) bool { return lessString(a.Name, b.Name) })
	case "createdAt":
		stableSort(items, desc, func(a, b models.Tag) bool { return a.CreatedAt.Before(b.CreatedAt) })
	case "updatedAt":
		stableSort(items, desc, func(a, b models.Tag) bool { return a.UpdatedAt.Before(b.UpdatedAt) })
	default:
		stableSort(items, desc, func(a, b models.Tag) bool { return a.ID < b.ID })
	}
}

func sortComments(items []models.Comment, column string, orderBy models.OrderBy) {
	desc := orderBy == models.OrderDesc
	switch orderColumnOrID(CommentOrderColumns, column) {
	case "createdAt":
		stableSort(items, desc, func(a, b models.Comment) bool { return a.CreatedAt.Before(b.CreatedAt) })
	case "updatedAt":
		stableSort(items, desc, func(a, b models.Comment) bool { return a.UpdatedAt.Before(b.UpdatedAt) })
	default:
		stableSort(items, desc, func(a, b models.Comment) bool { return a.ID < b.ID })
	}
}

func sortUsers(items []models.User, column string, orderBy models.OrderBy) {
	desc := orderBy == models.OrderDesc
	switch orderColumnOrID(UserOrderColumns, column) {
	case "name":
		stableSort(items, desc, func(a, b models.User) bool { return lessString(a.Name, b.Name) })
	case "email":
		stableSort(items, desc, func(a, b models.User) bool { return lessString(a.Email, b.Email) })
	case "createdAt":
		stableSort(items, desc, func(a, b models.User) bool { return a.CreatedAt.Before(b.CreatedAt) })
	default:
		stableSort(items, desc, func(a, b models.User) bool { return a.ID < b.ID })
	}
}
