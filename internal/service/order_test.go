package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatbazar/hatbazar/internal/domain"
	"github.com/hatbazar/hatbazar/internal/memory"
	"github.com/hatbazar/hatbazar/internal/service"
)

type decliningProvider struct{}

func (decliningProvider) Charge(context.Context, string, int64) (string, error) {
	return "", errors.New("card declined")
}

func newOrderService(provider service.PaymentProvider, seed ...domain.Product) (*service.OrderService, *memory.CatalogStore, *memory.OrderStore) {
	products := memory.NewCatalogStore(seed...)
	orders := memory.NewOrderStore()
	if provider == nil {
		provider = service.DemoPaymentProvider{}
	}
	return service.NewOrderService(orders, products, provider, nil, zerolog.Nop()), products, orders
}

func stockOf(t *testing.T, st *memory.CatalogStore, id string) int {
	t.Helper()
	p, err := st.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestPlaceOrderSnapshotsPricesAndDecrementsStock(t *testing.T) {
	svc, products, _ := newOrderService(nil,
		domain.Product{ID: "p1", Name: "iPhone 13", PriceCents: 9500000, Stock: 5, IsPublished: true},
		domain.Product{ID: "p2", Name: "Case", PriceCents: 50000, Stock: 10, IsPublished: true},
	)
	ctx := asUser(domain.RoleCustomer, "u1")

	order, err := svc.Place(ctx, []domain.PlaceOrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, int64(2*9500000+50000), order.TotalCents)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "iPhone 13", order.Items[0].Name)
	assert.Equal(t, int64(9500000), order.Items[0].PriceCents)

	assert.Equal(t, 3, stockOf(t, products, "p1"))
	assert.Equal(t, 9, stockOf(t, products, "p2"))
}

func TestPlaceOrderRollsBackOnPartialFailure(t *testing.T) {
	svc, products, orders := newOrderService(nil,
		domain.Product{ID: "p1", Name: "A", PriceCents: 100, Stock: 5, IsPublished: true},
		domain.Product{ID: "p2", Name: "B", PriceCents: 100, Stock: 1, IsPublished: true},
	)
	ctx := asUser(domain.RoleCustomer, "u1")

	_, err := svc.Place(ctx, []domain.PlaceOrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	})
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	// First line's decrement must be undone.
	assert.Equal(t, 5, stockOf(t, products, "p1"))
	assert.Equal(t, 1, stockOf(t, products, "p2"))

	mine, err := orders.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, mine, "failed order must not be persisted")
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, _, _ := newOrderService(nil,
		domain.Product{ID: "p1", PriceCents: 100, Stock: 5, IsPublished: true},
		domain.Product{ID: "draft", PriceCents: 100, Stock: 5, IsPublished: false},
	)
	ctx := asUser(domain.RoleCustomer, "u1")

	_, err := svc.Place(ctx, nil)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.Place(ctx, []domain.PlaceOrderItem{{ProductID: "p1", Quantity: 0}})
	assert.Equal(t, "quantity", domain.ErrorField(err))

	_, err = svc.Place(ctx, []domain.PlaceOrderItem{{ProductID: "missing", Quantity: 1}})
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	_, err = svc.Place(ctx, []domain.PlaceOrderItem{{ProductID: "draft", Quantity: 1}})
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err), "unpublished products are not orderable")

	_, err = svc.Place(context.Background(), []domain.PlaceOrderItem{{ProductID: "p1", Quantity: 1}})
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestPaySuccess(t *testing.T) {
	svc, _, orders := newOrderService(nil,
		domain.Product{ID: "p1", Name: "A", PriceCents: 100, Stock: 5, IsPublished: true},
	)
	ctx := asUser(domain.RoleCustomer, "u1")

	placed, err := svc.Place(ctx, []domain.PlaceOrderItem{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)

	paid, err := svc.Pay(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, paid.Status)
	assert.NotEmpty(t, paid.PaymentRef)

	stored, err := orders.Get(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, stored.Status)

	// A paid order cannot be paid again.
	_, err = svc.Pay(ctx, placed.ID)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestPayDeclineFailsOrderAndRestoresStock(t *testing.T) {
	svc, products, orders := newOrderService(decliningProvider{},
		domain.Product{ID: "p1", Name: "A", PriceCents: 100, Stock: 5, IsPublished: true},
	)
	ctx := asUser(domain.RoleCustomer, "u1")

	placed, err := svc.Place(ctx, []domain.PlaceOrderItem{{ProductID: "p1", Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, stockOf(t, products, "p1"))

	_, err = svc.Pay(ctx, placed.ID)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	stored, err := orders.Get(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusFailed, stored.Status)
	assert.Equal(t, 5, stockOf(t, products, "p1"), "declined payment releases stock")
}

func TestGetHidesOtherUsersOrders(t *testing.T) {
	svc, _, _ := newOrderService(nil,
		domain.Product{ID: "p1", PriceCents: 100, Stock: 5, IsPublished: true},
	)

	placed, err := svc.Place(asUser(domain.RoleCustomer, "u1"), []domain.PlaceOrderItem{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.Get(asUser(domain.RoleCustomer, "u2"), placed.ID)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err), "foreign orders read as not found")

	got, err := svc.Get(asUser(domain.RoleAdmin, "a1"), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, products, _ := newOrderService(nil,
		domain.Product{ID: "p1", PriceCents: 100, Stock: 5, IsPublished: true},
	)
	customer := asUser(domain.RoleCustomer, "u1")
	admin := asUser(domain.RoleAdmin, "a1")

	placed, err := svc.Place(customer, []domain.PlaceOrderItem{{ProductID: "p1", Quantity: 2}})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(customer, placed.ID, domain.OrderStatusShipped)
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))

	// pending -> shipped skips payment and is rejected.
	_, err = svc.UpdateStatus(admin, placed.ID, domain.OrderStatusShipped)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	_, err = svc.Pay(customer, placed.ID)
	require.NoError(t, err)

	shipped, err := svc.UpdateStatus(admin, placed.ID, domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, shipped.Status)

	delivered, err := svc.UpdateStatus(admin, placed.ID, domain.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, delivered.Status)

	// Cancellation path releases stock.
	second, err := svc.Place(customer, []domain.PlaceOrderItem{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)
	before := stockOf(t, products, "p1")

	_, err = svc.UpdateStatus(admin, second.ID, domain.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, before+1, stockOf(t, products, "p1"))
}

func TestListMine(t *testing.T) {
	svc, _, _ := newOrderService(nil,
		domain.Product{ID: "p1", PriceCents: 100, Stock: 10, IsPublished: true},
	)
	u1 := asUser(domain.RoleCustomer, "u1")
	u2 := asUser(domain.RoleCustomer, "u2")

	_, err := svc.Place(u1, []domain.PlaceOrderItem{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.Place(u2, []domain.PlaceOrderItem{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)

	mine, err := svc.ListMine(u1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "u1", mine[0].UserID)
}
