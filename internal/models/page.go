// file: internal/models/page.go
// version: 1.1.0
// guid: 8c2f1a3b-5d6e-4f7a-8b9c-0d1e2f3a4b5c

package models

// Quantities is the fixed set of accepted page sizes
var Quantities = []int{5, 10, 15, 20, 25, 50}

// DefaultQuantity is the page size used when none is supplied
const DefaultQuantity = 20

// ValidQuantity reports whether q is an accepted page size
func ValidQuantity(q int) bool {
	for _, allowed := range Quantities {
		if q == allowed {
			return true
		}
	}
	return false
}

// Page wraps one page of any list entity. Invariants:
// len(Data) <= QuantityPerPage and LastPage >= 1 even for empty lists.
// CurrentPage echoes the requested page; requesting past the end yields an
// empty Data slice which the browse controller reconciles back to page 1.
type Page[T any] struct {
	QuantityPerPage int   `json:"quantityPerPage"`
	TotalQuantity   int   `json:"totalQuantity"`
	CurrentPage     int   `json:"currentPage"`
	LastPage        int   `json:"lastPage"`
	Data            []T   `json:"data"`
}

// NewPage assembles a Page from a full result window. data must already be
// the slice for the requested page.
func NewPage[T any](data []T, total, page, quantity int) Page[T] {
	if quantity < 1 {
		quantity = DefaultQuantity
	}
	if page < 1 {
		page = 1
	}
	last := (total + quantity - 1) / quantity
	if last < 1 {
		last = 1
	}
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		QuantityPerPage: quantity,
		TotalQuantity:   total,
		CurrentPage:     page,
		LastPage:        last,
		Data:            data,
	}
}

// Slice cuts the window for a 1-indexed page out of a full result set.
func Slice[T any](all []T, page, quantity int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * quantity
	if start >= len(all) {
		return []T{}
	}
	end := start + quantity
	if end > len(all) {
		end = len(all)
	}
	out := make([]T, end-start)
	copy(out, all[start:end])
	return out
}

// OrderBy is the sort direction accepted by list endpoints
type OrderBy string

const (
	OrderAsc  OrderBy = "asc"
	OrderDesc OrderBy = "desc"
)

// ValidOrderBy reports whether o is asc or desc
func ValidOrderBy(o OrderBy) bool {
	return o == OrderAsc || o == OrderDesc
}

// ListQuery carries the shared list-endpoint parameters plus the
// entity-specific filters. A zero filter pointer means "not filtered".
type ListQuery struct {
	Page        int
	Quantity    int
	OrderColumn string
	OrderBy     OrderBy
	Search      string

	SeriesID  *int64
	SeasonID  *int64
	EpisodeID *int64
	UserID    *int64
}

// Normalize fills defaults and clamps the query into valid ranges.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if !ValidQuantity(q.Quantity) {
		q.Quantity = DefaultQuantity
	}
	if q.OrderBy != OrderDesc {
		q.OrderBy = OrderAsc
	}
	if q.OrderColumn == "" {
		q.OrderColumn = "id"
	}
}
