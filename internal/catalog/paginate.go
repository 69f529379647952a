package catalog

import (
	"github.com/hatbazar/hatbazar/internal/domain"
)

// Page is one window of a filtered and sorted result set, with the counts
// derived before slicing.
type Page struct {
	Items       []domain.Product `json:"products"`
	Total       int              `json:"total"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

// Window slices the sorted sequence into the requested page. A page beyond
// the available range yields empty items while Total still reflects the full
// filtered count. The query is assumed validated (limit > 0, page >= 1).
func Window(products []domain.Product, q Query) Page {
	total := len(products)
	totalPages := (total + q.Limit - 1) / q.Limit

	start := (q.Page - 1) * q.Limit
	if start >= total {
		return Page{
			Items:       []domain.Product{},
			Total:       total,
			TotalPages:  totalPages,
			CurrentPage: q.Page,
		}
	}

	end := start + q.Limit
	if end > total {
		end = total
	}

	return Page{
		Items:       products[start:end],
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: q.Page,
	}
}
