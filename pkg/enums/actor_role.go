package enums

import "fmt"

// ActorRole identifies who is acting on a quote.
type ActorRole string

const (
	ActorRoleCustomer ActorRole = "customer"
	ActorRoleSalesRep ActorRole = "sales_rep"
	ActorRoleAdmin    ActorRole = "admin"
)

var validActorRoles = []ActorRole{
	ActorRoleCustomer,
	ActorRoleSalesRep,
	ActorRoleAdmin,
}

// String implements fmt.Stringer.
func (a ActorRole) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActorRole.
func (a ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// CanEditQuote reports whether the role may edit prices or decline quotes.
func (a ActorRole) CanEditQuote() bool {
	return a == ActorRoleSalesRep || a == ActorRoleAdmin
}

// ParseActorRole converts raw input into an ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
