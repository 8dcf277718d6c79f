// Package authctx carries the authenticated caller through a request context.
package authctx

import (
	"context"

	"github.com/isabella232/azure-intelligent-edge-patterns/internal/domain"
)

type contextKey struct{}

type CurrentUser struct {
	Subject string
	Role    domain.UserRole
}

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func FromContext(ctx context.Context) *CurrentUser {
	val, ok := ctx.Value(contextKey{}).(CurrentUser)
	if !ok {
		return nil
	}
	return &val
}
