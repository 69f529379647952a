package domain

import (
	"time"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// Condition is the closed enum of accepted product conditions.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like-new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

// ValidCondition reports whether s is a member of the condition enum.
func ValidCondition(s string) bool {
	switch Condition(s) {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Scope controls which records a catalog query may see.
type Scope string

const (
	// ScopePublic restricts results to published products.
	ScopePublic Scope = "public"

	// ScopeAdmin sees all records regardless of publication flag.
	ScopeAdmin Scope = "admin"
)

// Rating aggregates review scores for a product.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Product is the canonical, storage-agnostic product shape.
// Store adapters project their native records into this type; prices are
// integer minor units (poisha), never formatted strings.
type Product struct {
	ID                 string            `json:"id"`
	SellerID           string            `json:"sellerId,omitempty"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	PriceCents         int64             `json:"price"`
	OriginalPriceCents int64             `json:"originalPrice,omitempty"`
	Category           string            `json:"category"`
	Condition          Condition         `json:"condition,omitempty"`
	Brand              string            `json:"brand,omitempty"`
	Model              string            `json:"model,omitempty"`
	Images             []string          `json:"images"`
	Features           []string          `json:"features"`
	Specifications     map[string]string `json:"specifications"`
	Stock              int               `json:"stock"`
	IsFeatured         bool              `json:"isFeatured"`
	IsPublished        bool              `json:"isPublished"`
	Rating             Rating            `json:"rating"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// Visible reports whether the product may appear under the given scope.
func (p Product) Visible(scope Scope) bool {
	if scope == ScopeAdmin {
		return true
	}
	return p.IsPublished
}

// =============================================================================
// PARAMETER TYPES
// =============================================================================

// CreateProductParams contains parameters for creating a product.
type CreateProductParams struct {
	Name               string
	Description        string
	PriceCents         int64
	OriginalPriceCents int64
	Category           string
	Condition          Condition
	Brand              string
	Model              string
	Images             []string
	Features           []string
	Specifications     map[string]string
	Stock              int
	IsFeatured         bool
	IsPublished        bool
}

// UpdateProductParams contains parameters for updating a product.
// Pointer fields indicate optional updates (nil = no change).
type UpdateProductParams struct {
	Name               *string
	Description        *string
	PriceCents         *int64
	OriginalPriceCents *int64
	Category           *string
	Condition          *Condition
	Brand              *string
	Model              *string
	Images             []string
	Features           []string
	Specifications     map[string]string
	Stock              *int
	IsFeatured         *bool
	IsPublished        *bool
}

// FilterOptions contains the distinct values available for catalog facets.
type FilterOptions struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	Conditions []string `json:"conditions"`
}

// =============================================================================
// DOMAIN ERRORS
// =============================================================================

var (
	ErrProductNotFound   = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrInsufficientStock = &Error{Code: ECONFLICT, Message: "Insufficient stock"}
	ErrInvalidCondition  = &Error{Code: EINVALID, Field: "condition", Message: "Invalid product condition"}
)
