package catalog

import (
	"sort"

	"github.com/hatbazar/hatbazar/internal/domain"
)

// Sort orders products in place according to the query's sort key and
// direction. The sort is stable: items comparing equal on the primary key
// keep their relative input order, so adapters should hand the pipeline a
// deterministically ordered candidate set (they order by id).
func Sort(products []domain.Product, q Query) {
	less := comparator(q)
	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}

func comparator(q Query) func(a, b domain.Product) bool {
	switch q.SortBy {
	case SortPrice:
		// Prices are already normalized minor units; never compare
		// formatted strings.
		if q.SortOrder == OrderDesc {
			return func(a, b domain.Product) bool { return a.PriceCents > b.PriceCents }
		}
		return func(a, b domain.Product) bool { return a.PriceCents < b.PriceCents }

	case SortRating:
		if q.SortOrder == OrderAsc {
			return func(a, b domain.Product) bool { return a.Rating.Average < b.Rating.Average }
		}
		return func(a, b domain.Product) bool { return a.Rating.Average > b.Rating.Average }

	case SortNewest:
		if q.SortOrder == OrderAsc {
			return func(a, b domain.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
		}
		return func(a, b domain.Product) bool { return a.CreatedAt.After(b.CreatedAt) }

	default:
		// Composite default several call sites rely on: featured first,
		// then rating descending.
		return func(a, b domain.Product) bool {
			if a.IsFeatured != b.IsFeatured {
				return a.IsFeatured
			}
			return a.Rating.Average > b.Rating.Average
		}
	}
}
