package service

import (
	"context"

	"github.com/google/uuid"
)

// PaymentProvider charges a placed order and returns a provider reference.
// The real gateway integration plugs in behind this interface; the shipped
// provider approves everything, which is enough for checkout flow testing.
type PaymentProvider interface {
	Charge(ctx context.Context, orderID string, amountCents int64) (ref string, err error)
}

// DemoPaymentProvider approves every charge with a synthetic reference.
type DemoPaymentProvider struct{}

func (DemoPaymentProvider) Charge(_ context.Context, _ string, _ int64) (string, error) {
	return "DEMO-" + uuid.NewString(), nil
}
