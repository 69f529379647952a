// Package memory provides in-memory implementations of the store interfaces.
// They back the static demo catalog and serve as the test double for services
// and handlers.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hatbazar/hatbazar/internal/domain"
	"github.com/hatbazar/hatbazar/internal/store"
)

// CatalogStore is a mutex-guarded in-memory product store.
type CatalogStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	now      func() time.Time
}

var _ store.Catalog = (*CatalogStore)(nil)

// NewCatalogStore creates an empty in-memory catalog, optionally seeded.
func NewCatalogStore(seed ...domain.Product) *CatalogStore {
	s := &CatalogStore{
		products: make(map[string]domain.Product, len(seed)),
		now:      time.Now,
	}
	for _, p := range seed {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		s.products[p.ID] = p
	}
	return s
}

// List returns candidates for the scope in ascending id order, so downstream
// stable sorting produces reproducible pages.
func (s *CatalogStore) List(_ context.Context, params store.ListParams) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if !p.Visible(params.Scope) {
			continue
		}
		if params.SellerID != "" && p.SellerID != params.SellerID {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *CatalogStore) Get(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (s *CatalogStore) Create(_ context.Context, sellerID string, params domain.CreateProductParams) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := domain.Product{
		ID:                 uuid.NewString(),
		SellerID:           sellerID,
		Name:               params.Name,
		Description:        params.Description,
		PriceCents:         params.PriceCents,
		OriginalPriceCents: params.OriginalPriceCents,
		Category:           params.Category,
		Condition:          params.Condition,
		Brand:              params.Brand,
		Model:              params.Model,
		Images:             params.Images,
		Features:           params.Features,
		Specifications:     params.Specifications,
		Stock:              params.Stock,
		IsFeatured:         params.IsFeatured,
		IsPublished:        params.IsPublished,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	s.products[p.ID] = p
	return &p, nil
}

func (s *CatalogStore) Update(_ context.Context, id string, params domain.UpdateProductParams) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	if params.PriceCents != nil {
		p.PriceCents = *params.PriceCents
	}
	if params.OriginalPriceCents != nil {
		p.OriginalPriceCents = *params.OriginalPriceCents
	}
	if params.Category != nil {
		p.Category = *params.Category
	}
	if params.Condition != nil {
		p.Condition = *params.Condition
	}
	if params.Brand != nil {
		p.Brand = *params.Brand
	}
	if params.Model != nil {
		p.Model = *params.Model
	}
	if params.Images != nil {
		p.Images = params.Images
	}
	if params.Features != nil {
		p.Features = params.Features
	}
	if params.Specifications != nil {
		p.Specifications = params.Specifications
	}
	if params.Stock != nil {
		p.Stock = *params.Stock
	}
	if params.IsFeatured != nil {
		p.IsFeatured = *params.IsFeatured
	}
	if params.IsPublished != nil {
		p.IsPublished = *params.IsPublished
	}
	p.UpdatedAt = s.now()

	s.products[id] = p
	return &p, nil
}

func (s *CatalogStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// DecrementStock checks and subtracts under one lock, mirroring the
// conditional atomic update the persistent stores perform natively.
func (s *CatalogStore) DecrementStock(_ context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Stock < qty {
		return domain.ErrInsufficientStock
	}
	p.Stock -= qty
	p.UpdatedAt = s.now()
	s.products[id] = p
	return nil
}

func (s *CatalogStore) RestoreStock(_ context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Stock += qty
	p.UpdatedAt = s.now()
	s.products[id] = p
	return nil
}

// OrderStore is a mutex-guarded in-memory order store.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

var _ store.Orders = (*OrderStore)(nil)

// NewOrderStore creates an empty in-memory order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]domain.Order)}
}

func (s *OrderStore) Create(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	s.orders[order.ID] = *order
	return nil
}

func (s *OrderStore) Get(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

func (s *OrderStore) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *OrderStore) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, paymentRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	if paymentRef != "" {
		o.PaymentRef = paymentRef
	}
	o.UpdatedAt = time.Now()
	s.orders[id] = o
	return nil
}
