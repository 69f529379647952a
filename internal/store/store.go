// Package store defines the read/write interfaces the catalog pipeline and
// services depend on, abstracting over which engine holds the data (MongoDB
// document store, SQLite demo store, in-memory seed).
package store

import (
	"context"

	"github.com/hatbazar/hatbazar/internal/domain"
)

// ListParams selects the candidate set a catalog query starts from.
// Filtering, sorting and pagination happen downstream in the pipeline.
type ListParams struct {
	// Scope controls visibility: public sees published records only,
	// admin sees everything.
	Scope domain.Scope

	// SellerID, when set, restricts candidates to one seller's products.
	// Combined with ScopeAdmin this is the seller-dashboard view (own
	// products, any status).
	SellerID string
}

// Catalog is the uniform read/write interface over heterogeneous product
// storage. Implementations return candidates in a deterministic id order so
// the pipeline's stable sort yields reproducible pages, and wrap engine
// failures as EUNAVAILABLE; they never filter beyond the visibility scope.
type Catalog interface {
	// List returns the unordered candidate set for the given scope.
	List(ctx context.Context, params ListParams) ([]domain.Product, error)

	// Get retrieves one product regardless of publication flag.
	// Returns ENOTFOUND when the id has no matching record.
	Get(ctx context.Context, id string) (*domain.Product, error)

	// Create inserts a new product and returns it with store-assigned
	// id and timestamps.
	Create(ctx context.Context, sellerID string, params domain.CreateProductParams) (*domain.Product, error)

	// Update applies the non-nil fields of params to an existing product.
	Update(ctx context.Context, id string, params domain.UpdateProductParams) (*domain.Product, error)

	// Delete removes a product. Returns ENOTFOUND when absent.
	Delete(ctx context.Context, id string) error

	// DecrementStock atomically subtracts qty from a product's stock using
	// the engine's native conditional update; it fails with ECONFLICT
	// (insufficient stock) rather than ever driving stock negative.
	DecrementStock(ctx context.Context, id string, qty int) error

	// RestoreStock adds qty back after a failed multi-item order.
	RestoreStock(ctx context.Context, id string, qty int) error
}

// Orders persists placed orders.
type Orders interface {
	Create(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// UpdateStatus persists a status change; transition legality is
	// enforced by the service layer.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, paymentRef string) error
}
