package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/luisaguirre/cartquotes-backend/pkg/enums"
)

// Identity captures the acting shopper or sales rep resolved from a token.
type Identity struct {
	Email        string
	Role         enums.ActorRole
	Organization *string
	CostCenter   *string
}

// AccessTokenClaims represents the typed JWT issued by the storefront's
// identity service.
type AccessTokenClaims struct {
	Email        string          `json:"email"`
	Role         enums.ActorRole `json:"role"`
	Organization *string         `json:"organization,omitempty"`
	CostCenter   *string         `json:"cost_center,omitempty"`
	jwt.RegisteredClaims
}

// Identity maps the claims onto the identity consumed by the lifecycle engine.
func (c *AccessTokenClaims) Identity() Identity {
	if c == nil {
		return Identity{}
	}
	return Identity{
		Email:        c.Email,
		Role:         c.Role,
		Organization: c.Organization,
		CostCenter:   c.CostCenter,
	}
}
