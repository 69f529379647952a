package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hatbazar/hatbazar/internal/domain"
	"github.com/hatbazar/hatbazar/internal/events"
	"github.com/hatbazar/hatbazar/internal/store"
)

// OrderService places orders against the marketplace catalog and walks them
// through the status lifecycle.
type OrderService struct {
	orders   store.Orders
	products store.Catalog
	payments PaymentProvider
	bus      *events.Bus
	logger   zerolog.Logger
}

// NewOrderService creates an order service. bus may be nil.
func NewOrderService(orders store.Orders, products store.Catalog, payments PaymentProvider, b *events.Bus, logger zerolog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		payments: payments,
		bus:      b,
		logger:   logger,
	}
}

// Place creates a pending order for the calling user. Stock for every line
// is decremented atomically per product; if any line fails, stock already
// taken is restored and the order is not persisted. Prices are snapshotted
// at order time so later catalog edits never change a placed order's total.
func (s *OrderService) Place(ctx context.Context, items []domain.PlaceOrderItem) (*domain.Order, error) {
	const op = "order.place"

	user, err := domain.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, domain.InvalidField(op, "quantity", "must be at least 1")
		}
	}

	order := &domain.Order{
		UserID: user.ID,
		Status: domain.OrderStatusPending,
	}

	var taken []domain.PlaceOrderItem
	for _, item := range items {
		p, err := s.products.Get(ctx, item.ProductID)
		if err != nil {
			s.releaseStock(ctx, taken)
			return nil, err
		}
		if !p.IsPublished {
			s.releaseStock(ctx, taken)
			return nil, domain.ErrProductNotFound
		}

		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.releaseStock(ctx, taken)
			return nil, err
		}
		taken = append(taken, item)

		order.Items = append(order.Items, domain.OrderItem{
			ProductID:  p.ID,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Quantity:   item.Quantity,
		})
		order.TotalCents += p.PriceCents * int64(item.Quantity)
	}

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := s.orders.Create(ctx, order); err != nil {
		s.releaseStock(ctx, taken)
		return nil, err
	}

	s.bus.PublishOrderStatus(order.ID, order.UserID, string(order.Status))
	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Int64("total", order.TotalCents).
		Int("items", len(order.Items)).
		Msg("order placed")
	return order, nil
}

// Pay charges a pending order through the payment provider and records the
// outcome. A declined charge moves the order to failed and releases its
// stock.
func (s *OrderService) Pay(ctx context.Context, orderID string) (*domain.Order, error) {
	const op = "order.pay"

	user, err := domain.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != user.ID && !user.IsAdmin() {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusPending {
		return nil, domain.Conflict(op, "order is not awaiting payment")
	}

	ref, err := s.payments.Charge(ctx, order.ID, order.TotalCents)
	if err != nil {
		if uerr := s.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusFailed, ""); uerr != nil {
			s.logger.Error().Err(uerr).Str("order_id", order.ID).Msg("failed to record payment failure")
		}
		s.restoreOrderStock(ctx, order)
		s.bus.PublishOrderStatus(order.ID, order.UserID, string(domain.OrderStatusFailed))
		return nil, domain.WrapError(err, domain.ECONFLICT, op, "payment declined")
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusPaid, ref); err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusPaid
	order.PaymentRef = ref
	s.bus.PublishOrderStatus(order.ID, order.UserID, string(order.Status))
	s.logger.Info().Str("order_id", order.ID).Str("payment_ref", ref).Msg("order paid")
	return order, nil
}

// Get returns one order. Customers see only their own; admins see all.
func (s *OrderService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	user, err := domain.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != user.ID && !user.IsAdmin() {
		// Not-found rather than forbidden, so order ids are not probeable.
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListMine returns the calling user's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context) ([]domain.Order, error) {
	user, err := domain.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.orders.ListByUser(ctx, user.ID)
}

// UpdateStatus moves an order to the next lifecycle state. Admin only;
// illegal transitions fail with ECONFLICT. Cancelling releases the order's
// stock back to the catalog.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	const op = "order.update_status"

	user, err := domain.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, domain.Forbidden(op, "admin role required")
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(next) {
		return nil, domain.Conflict(op, "cannot move order from "+string(order.Status)+" to "+string(next))
	}

	if err := s.orders.UpdateStatus(ctx, orderID, next, ""); err != nil {
		return nil, err
	}

	if next == domain.OrderStatusCancelled {
		s.restoreOrderStock(ctx, order)
	}

	order.Status = next
	s.bus.PublishOrderStatus(order.ID, order.UserID, string(next))
	s.logger.Info().Str("order_id", order.ID).Str("status", string(next)).Msg("order status updated")
	return order, nil
}

// releaseStock undoes decrements taken for an order that will not be
// persisted. Failures are logged; there is nothing further to unwind.
func (s *OrderService) releaseStock(ctx context.Context, taken []domain.PlaceOrderItem) {
	for _, item := range taken {
		if err := s.products.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error().Err(err).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("failed to restore stock")
		}
	}
}

func (s *OrderService) restoreOrderStock(ctx context.Context, order *domain.Order) {
	items := make([]domain.PlaceOrderItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = domain.PlaceOrderItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	s.releaseStock(ctx, items)
}
