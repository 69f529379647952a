// Package service implements the business operations between HTTP handlers
// and storage: listing through the query pipeline with caching, product
// mutation with ownership checks, and order placement with atomic stock
// movements.
package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hatbazar/hatbazar/internal/cache"
	"github.com/hatbazar/hatbazar/internal/catalog"
	"github.com/hatbazar/hatbazar/internal/domain"
	"github.com/hatbazar/hatbazar/internal/events"
	"github.com/hatbazar/hatbazar/internal/store"
)

// ProductService runs catalog queries and product mutations against one
// backing store. The same service type backs both the marketplace catalog
// (MongoDB) and the electronics demo catalog (SQLite); they differ only in
// the injected store and catalog name.
type ProductService struct {
	store       store.Catalog
	cache       *cache.Listing
	bus         *events.Bus
	catalogName string
	logger      zerolog.Logger
}

// NewProductService creates a product service. cache and bus may be nil.
func NewProductService(s store.Catalog, c *cache.Listing, b *events.Bus, catalogName string, logger zerolog.Logger) *ProductService {
	return &ProductService{
		store:       s,
		cache:       c,
		bus:         b,
		catalogName: catalogName,
		logger:      logger,
	}
}

// List executes the query pipeline over the public candidate set. Pages are
// served from the listing cache when present; only the public view is
// cached, so scoped views never leak across callers.
func (s *ProductService) List(ctx context.Context, q catalog.Query) (*catalog.Page, error) {
	key := cache.Key(s.catalogName, q)
	if page, ok := s.cache.Get(ctx, key); ok {
		return page, nil
	}

	candidates, err := s.store.List(ctx, store.ListParams{Scope: domain.ScopePublic})
	if err != nil {
		return nil, err
	}

	page := catalog.Run(candidates, q)
	s.cache.Set(ctx, key, &page)
	return &page, nil
}

// ListAll executes the query pipeline with admin visibility. Requires the
// admin role; results are never cached.
func (s *ProductService) ListAll(ctx context.Context, q catalog.Query) (*catalog.Page, error) {
	const op = "product.list_all"

	user, err := domain.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, domain.Forbidden(op, "admin role required")
	}

	candidates, err := s.store.List(ctx, store.ListParams{Scope: domain.ScopeAdmin})
	if err != nil {
		return nil, err
	}

	page := catalog.Run(candidates, q)
	return &page, nil
}

// ListOwn executes the query pipeline over the caller's own products,
// including unpublished ones. This is the seller dashboard view.
func (s *ProductService) ListOwn(ctx context.Context, q catalog.Query) (*catalog.Page, error) {
	const op = "product.list_own"

	user, err := domain.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleSeller && user.Role != domain.RoleAdmin {
		return nil, domain.Forbidden(op, "seller role required")
	}

	candidates, err := s.store.List(ctx, store.ListParams{
		Scope:    domain.ScopeAdmin,
		SellerID: user.ID,
	})
	if err != nil {
		return nil, err
	}

	page := catalog.Run(candidates, q)
	return &page, nil
}

// Facets returns the distinct filter values present in the public catalog.
func (s *ProductService) Facets(ctx context.Context) (domain.FilterOptions, error) {
	candidates, err := s.store.List(ctx, store.ListParams{Scope: domain.ScopePublic})
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return catalog.Facets(candidates), nil
}

// Get returns one product. Unpublished products are visible only to admins
// and the owning seller; everyone else sees not-found, not forbidden, so the
// existence of a draft is not disclosed.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.IsPublished {
		user := domain.UserFromContext(ctx)
		if !user.CanMutateProduct(p.SellerID) {
			return nil, domain.ErrProductNotFound
		}
	}
	return p, nil
}

// Create inserts a product owned by the calling seller. Admins may also
// create; the product is attributed to them.
func (s *ProductService) Create(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	const op = "product.create"

	user, err := domain.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleSeller && user.Role != domain.RoleAdmin {
		return nil, domain.Forbidden(op, "seller role required")
	}

	if err := validateCreate(op, params); err != nil {
		return nil, err
	}

	p, err := s.store.Create(ctx, user.ID, params)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, p.ID, "create")
	return p, nil
}

// Update applies a partial update. Only the owning seller or an admin may
// mutate; everyone else gets EFORBIDDEN.
func (s *ProductService) Update(ctx context.Context, id string, params domain.UpdateProductParams) (*domain.Product, error) {
	const op = "product.update"

	user, err := domain.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.CanMutateProduct(existing.SellerID) {
		return nil, domain.Forbidden(op, "only the owning seller may modify this product")
	}

	if err := validateUpdate(op, params); err != nil {
		return nil, err
	}

	p, err := s.store.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, id, "update")
	return p, nil
}

// Delete removes a product, subject to the same ownership rule as Update.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	const op = "product.delete"

	user, err := domain.RequireUser(ctx)
	if err != nil {
		return err
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !user.CanMutateProduct(existing.SellerID) {
		return domain.Forbidden(op, "only the owning seller may delete this product")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.afterWrite(ctx, id, "delete")
	return nil
}

// afterWrite drops the local listing cache and announces the change so other
// instances drop theirs.
func (s *ProductService) afterWrite(ctx context.Context, productID, action string) {
	s.cache.Invalidate(ctx, s.catalogName)
	s.bus.PublishCatalogChanged(s.catalogName, productID, action)
	s.logger.Info().
		Str("catalog", s.catalogName).
		Str("product_id", productID).
		Str("action", action).
		Msg("catalog changed")
}

func validateCreate(op string, params domain.CreateProductParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return domain.InvalidField(op, "name", "is required")
	}
	if params.PriceCents <= 0 {
		return domain.InvalidField(op, "price", "must be greater than zero")
	}
	if strings.TrimSpace(params.Category) == "" {
		return domain.InvalidField(op, "category", "is required")
	}
	if params.Condition != "" && !domain.ValidCondition(string(params.Condition)) {
		return domain.ErrInvalidCondition
	}
	if params.Stock < 0 {
		return domain.InvalidField(op, "stock", "must not be negative")
	}
	if params.OriginalPriceCents < 0 {
		return domain.InvalidField(op, "originalPrice", "must not be negative")
	}
	return nil
}

func validateUpdate(op string, params domain.UpdateProductParams) error {
	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return domain.InvalidField(op, "name", "must not be empty")
	}
	if params.PriceCents != nil && *params.PriceCents <= 0 {
		return domain.InvalidField(op, "price", "must be greater than zero")
	}
	if params.Category != nil && strings.TrimSpace(*params.Category) == "" {
		return domain.InvalidField(op, "category", "must not be empty")
	}
	if params.Condition != nil && !domain.ValidCondition(string(*params.Condition)) {
		return domain.ErrInvalidCondition
	}
	if params.Stock != nil && *params.Stock < 0 {
		return domain.InvalidField(op, "stock", "must not be negative")
	}
	return nil
}
