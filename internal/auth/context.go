package auth

import (
	"context"

	"github.com/google/uuid"
)

// UserContext holds the authenticated principal. Every agent and lead query
// is scoped to UserID.
type UserContext struct {
	UserID uuid.UUID
	Name   string
	Email  string
}

type contextKey string

const (
	userContextKey   contextKey = "userContext"
	principalSlotKey contextKey = "principalSlot"
)

type principalSlot struct {
	user *UserContext
}

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	if slot, ok := ctx.Value(principalSlotKey).(*principalSlot); ok {
		slot.user = user
	}
	return context.WithValue(ctx, userContextKey, user)
}

// WithPrincipalSlot lets outer middleware see the principal that an inner
// handler authenticates. The returned func reports it once next has run.
func WithPrincipalSlot(ctx context.Context) (context.Context, func() *UserContext) {
	slot := &principalSlot{}
	return context.WithValue(ctx, principalSlotKey, slot), func() *UserContext {
		return slot.user
	}
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// OwnerID returns the principal id from ctx, or false when unauthenticated
func OwnerID(ctx context.Context) (uuid.UUID, bool) {
	user, ok := FromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return user.UserID, true
}
