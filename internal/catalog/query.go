// Package catalog implements the shared product query pipeline: one query
// contract, filter, sort, and pagination implementation consumed by every
// listing entry point (public API, admin, seller dashboard, electronics demo)
// instead of each re-deriving its own.
package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/hatbazar/hatbazar/internal/domain"
)

// SortKey enumerates the recognized sort fields.
type SortKey string

const (
	SortFeatured SortKey = "featured" // default: featured-first, rating desc tie-break
	SortPrice    SortKey = "price"
	SortRating   SortKey = "rating"
	SortNewest   SortKey = "newest"
)

// SortOrder is an explicit sort direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

const (
	// DefaultLimit is the page size applied when the client supplies none.
	DefaultLimit = 12

	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// Query is the parsed listing request every entry point accepts identically.
// Nil pointer fields mean the filter is absent (no constraint, not
// "match empty").
type Query struct {
	Page          int
	Limit         int
	Category      string
	Condition     string
	MinPriceCents *int64
	MaxPriceCents *int64
	Search        string
	Featured      *bool
	SortBy        SortKey
	SortOrder     SortOrder
}

// ParseQuery builds a Query from raw request parameters, applying defaults
// and validating numerics. Unknown parameters are ignored; malformed values
// fail with EINVALID naming the offending field rather than being coerced.
func ParseQuery(values url.Values) (Query, error) {
	const op = "catalog.parse_query"

	q := Query{
		Page:   1,
		Limit:  DefaultLimit,
		SortBy: SortFeatured,
	}

	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Query{}, domain.InvalidField(op, "page", "must be an integer >= 1")
		}
		q.Page = n
	}

	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Query{}, domain.InvalidField(op, "limit", "must be an integer > 0")
		}
		if n > MaxLimit {
			n = MaxLimit
		}
		q.Limit = n
	}

	q.Category = strings.TrimSpace(values.Get("category"))

	if raw := strings.TrimSpace(values.Get("condition")); raw != "" {
		if !domain.ValidCondition(raw) {
			return Query{}, domain.InvalidField(op, "condition", "must be one of: new, like-new, good, fair, poor")
		}
		q.Condition = raw
	}

	minCents, err := parsePriceParam(values, "minPrice")
	if err != nil {
		return Query{}, err
	}
	q.MinPriceCents = minCents

	maxCents, err := parsePriceParam(values, "maxPrice")
	if err != nil {
		return Query{}, err
	}
	q.MaxPriceCents = maxCents

	q.Search = strings.TrimSpace(values.Get("search"))

	if raw := values.Get("featured"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Query{}, domain.InvalidField(op, "featured", "must be a boolean")
		}
		q.Featured = &b
	}

	if raw := values.Get("sortBy"); raw != "" {
		switch SortKey(raw) {
		case SortFeatured, SortPrice, SortRating, SortNewest:
			q.SortBy = SortKey(raw)
		default:
			return Query{}, domain.InvalidField(op, "sortBy", "must be one of: featured, price, rating, newest")
		}
	}

	if raw := values.Get("sortOrder"); raw != "" {
		switch SortOrder(raw) {
		case OrderAsc, OrderDesc:
			q.SortOrder = SortOrder(raw)
		default:
			return Query{}, domain.InvalidField(op, "sortOrder", "must be asc or desc")
		}
	}

	return q, nil
}

// parsePriceParam reads an inclusive price bound given in major currency
// units (decimals allowed) and converts it to minor units.
func parsePriceParam(values url.Values, field string) (*int64, error) {
	raw := values.Get(field)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil, domain.InvalidField("catalog.parse_query", field, "must be a number >= 0")
	}
	cents := int64(math.Round(f * 100))
	return &cents, nil
}
