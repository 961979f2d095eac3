package middleware

import (
	"context"

	"github.com/luisaguirre/cartquotes-backend/pkg/auth"
	"github.com/luisaguirre/cartquotes-backend/pkg/enums"
)

type contextKey string

const (
	ctxEmail        contextKey = "actor_email"
	ctxRole         contextKey = "actor_role"
	ctxOrganization contextKey = "organization"
	ctxCostCenter   contextKey = "cost_center"
)

// WithIdentity seeds the request context with the resolved actor identity.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxEmail, identity.Email)
	ctx = context.WithValue(ctx, ctxRole, string(identity.Role))
	if identity.Organization != nil {
		ctx = context.WithValue(ctx, ctxOrganization, *identity.Organization)
	}
	if identity.CostCenter != nil {
		ctx = context.WithValue(ctx, ctxCostCenter, *identity.CostCenter)
	}
	return ctx
}

// IdentityFromContext rebuilds the actor identity seeded by the auth
// middleware. A zero identity means the request was not authenticated.
func IdentityFromContext(ctx context.Context) auth.Identity {
	if ctx == nil {
		return auth.Identity{}
	}
	identity := auth.Identity{}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		identity.Email = v
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		identity.Role = enums.ActorRole(v)
	}
	if v, ok := ctx.Value(ctxOrganization).(string); ok {
		org := v
		identity.Organization = &org
	}
	if v, ok := ctx.Value(ctxCostCenter).(string); ok {
		cc := v
		identity.CostCenter = &cc
	}
	return identity
}

// RoleFromContext returns the actor role string seeded by the auth middleware.
func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}
