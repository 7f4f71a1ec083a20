package domain

import (
	"context"
	"errors"
)

// Role represents a caller's access level.
type Role string

const (
	// RoleAdmin has full access to all operations
	RoleAdmin Role = "admin"

	// RoleBanker can operate on any customer account
	RoleBanker Role = "banker"

	// RoleCustomer can only operate on accounts they own
	RoleCustomer Role = "customer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleBanker:   true,
	RoleCustomer: true,
}

// IsValid checks if the role is a valid role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanOperateAnyAccount checks whether the role may act on accounts it does
// not own.
func (r Role) CanOperateAnyAccount() bool {
	return r == RoleAdmin || r == RoleBanker
}

// Caller is the opaque identity supplied by the excluded session layer.
// The core never inspects how it was authenticated.
type Caller struct {
	ID    string
	Email string
	Role  Role
}

// Authentication errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

type callerContextKey struct{}

// ContextWithCaller attaches a caller identity to the context.
func ContextWithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, callerContextKey{}, c)
}

// CallerFromContext extracts the caller identity, if present.
func CallerFromContext(ctx context.Context) (*Caller, bool) {
	c, ok := ctx.Value(callerContextKey{}).(*Caller)
	return c, ok
}
