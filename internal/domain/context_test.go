package domain

import (
	"context"
	"testing"
)

func TestUserContextRoundTrip(t *testing.T) {
	user := &User{ID: "s-42", Email: "seller@example.com", Role: RoleSeller}

	ctx := NewContextWithUser(context.Background(), user)

	got := UserFromContext(ctx)
	if got == nil {
		t.Fatal("expected user in context")
	}
	if got.ID != "s-42" || got.Role != RoleSeller {
		t.Errorf("got %+v", got)
	}
}

func TestUserFromContext_Missing(t *testing.T) {
	if got := UserFromContext(context.Background()); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestRequireUser(t *testing.T) {
	_, err := RequireUser(context.Background())
	if ErrorCode(err) != EUNAUTHORIZED {
		t.Errorf("expected EUNAUTHORIZED, got %v", err)
	}

	ctx := NewContextWithUser(context.Background(), &User{ID: "u1", Role: RoleCustomer})
	user, err := RequireUser(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("got %+v", user)
	}
}

func TestCanMutateProduct(t *testing.T) {
	tests := []struct {
		name     string
		user     *User
		sellerID string
		want     bool
	}{
		{"nil user", nil, "s1", false},
		{"owning seller", &User{ID: "s1", Role: RoleSeller}, "s1", true},
		{"other seller", &User{ID: "s2", Role: RoleSeller}, "s1", false},
		{"admin", &User{ID: "a1", Role: RoleAdmin}, "s1", true},
		{"customer", &User{ID: "c1", Role: RoleCustomer}, "c1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.CanMutateProduct(tt.sellerID); got != tt.want {
				t.Errorf("CanMutateProduct() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := NewContextWithRequestID(context.Background(), "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
