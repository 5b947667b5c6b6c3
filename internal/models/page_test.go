// file: internal/models/page_test.go
// version: 1.0.0
// guid: 9b4e2d7a-6c1f-4e3b-8a5d-0c9e8f7a6b5c

package models

import "testing"

func TestNewPageInvariants(t *testing.T) {
	data := []int{1, 2, 3}
	page := NewPage(data, 13, 2, 5)

	if page.QuantityPerPage != 5 {
		t.Errorf("expected quantityPerPage 5, got %d", page.QuantityPerPage)
	}
	if len(page.Data) > page.QuantityPerPage {
		t.Errorf("data length %d exceeds quantityPerPage %d", len(page.Data), page.QuantityPerPage)
	}
	if page.LastPage != 3 {
		t.Errorf("expected lastPage 3 for 13 items at 5 per page, got %d", page.LastPage)
	}
	if page.CurrentPage < 1 || page.CurrentPage > page.LastPage {
		t.Errorf("currentPage %d out of [1, %d]", page.CurrentPage, page.LastPage)
	}
}

func TestNewPageEmptyList(t *testing.T) {
	page := NewPage([]string(nil), 0, 1, 10)
	if page.LastPage != 1 {
		t.Errorf("empty list should have lastPage 1, got %d", page.LastPage)
	}
	if page.Data == nil {
		t.Error("data should be an empty slice, not nil")
	}
}

func TestSlice(t *testing.T) {
	all := []int{1, 2, 3, 4, 5, 6, 7}

	if got := Slice(all, 2, 5); len(got) != 2 || got[0] != 6 {
		t.Errorf("page 2 of 7 at quantity 5 should be [6 7], got %v", got)
	}
	if got := Slice(all, 3, 5); len(got) != 0 {
		t.Errorf("page past the end should be empty, got %v", got)
	}
	if got := Slice(all, 0, 5); len(got) != 5 {
		t.Errorf("page below 1 clamps to page 1, got %v", got)
	}
}

func TestListQueryNormalize(t *testing.T) {
	q := ListQuery{Page: 0, Quantity: 7, OrderBy: "sideways"}
	q.Normalize()

	if q.Page != 1 {
		t.Errorf("page should default to 1, got %d", q.Page)
	}
	if q.Quantity != DefaultQuantity {
		t.Errorf("invalid quantity should fall back to %d, got %d", DefaultQuantity, q.Quantity)
	}
	if q.OrderBy != OrderAsc {
		t.Errorf("invalid orderBy should fall back to asc, got %q", q.OrderBy)
	}
	if q.OrderColumn != "id" {
		t.Errorf("empty orderColumn should default to id, got %q", q.OrderColumn)
	}
}

func TestValidQuantity(t *testing.T) {
	for _, q := range Quantities {
		if !ValidQuantity(q) {
			t.Errorf("%d should be a valid quantity", q)
		}
	}
	if ValidQuantity(7) {
		t.Error("7 is not in the quantity set")
	}
}
