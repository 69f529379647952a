// Package domain provides core business types and context helpers for hatbazar.
//
// Context helpers centralize request-scoped data access, making ownership
// bugs harder to write and providing consistent patterns throughout the codebase.
package domain

import (
	"context"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// userContextKey stores the authenticated caller in context.
	userContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Role identifies what a caller is allowed to do.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// User represents the authenticated caller stored in context.
// This is a minimal struct for context storage; token issuance lives
// elsewhere, only verified claims land here.
type User struct {
	ID    string
	Email string
	Role  Role
}

// IsAdmin reports whether the caller carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CanMutateProduct reports whether the caller may modify a product owned by
// sellerID. Only the owning seller or an admin may mutate or delete.
func (u *User) CanMutateProduct(sellerID string) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role == RoleSeller && u.ID == sellerID
}

// --- User Context Helpers ---

// NewContextWithUser returns a new context with the user attached.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the user from context.
// Returns nil if no user is present.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// RequireUser retrieves the user from context or fails with EUNAUTHORIZED.
// Use this in service layers backing authenticated routes.
func RequireUser(ctx context.Context) (*User, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return nil, Unauthorized("context.require_user", "authentication required")
	}
	return user, nil
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if not present.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
