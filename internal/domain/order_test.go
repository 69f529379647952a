package domain

import (
	"testing"
)

func TestOrderStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusFailed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusPaid, OrderStatusShipped, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusFailed, OrderStatusPaid, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "paid", "failed", "shipped", "delivered", "cancelled"} {
		if !ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = false, want true", s)
		}
	}
	if ValidOrderStatus("refunded") {
		t.Error(`ValidOrderStatus("refunded") = true, want false`)
	}
}

func TestValidCondition(t *testing.T) {
	for _, s := range []string{"new", "like-new", "good", "fair", "poor"} {
		if !ValidCondition(s) {
			t.Errorf("ValidCondition(%q) = false, want true", s)
		}
	}
	if ValidCondition("mint") {
		t.Error(`ValidCondition("mint") = true, want false`)
	}
}
