// internal/models/team.go
package models

// Role is one of the fixed server-defined team roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleAccountant Role = "accountant"
	RoleSupport    Role = "support"
)

// KnownRoles is the fixed set accepted by the team endpoints.
var KnownRoles = []Role{RoleAdmin, RoleManager, RoleAccountant, RoleSupport}

// ValidRole reports whether r is one of the server-defined roles.
func ValidRole(r Role) bool {
	for _, known := range KnownRoles {
		if r == known {
			return true
		}
	}
	return false
}

// TeamMember is a person with a role and optionally linked provider businesses.
type TeamMember struct {
	ID          int64        `json:"id"`
	Person      Person       `json:"user"`
	Role        Role         `json:"role"`
	Status      EntityStatus `json:"status"`
	ProviderIDs []int64      `json:"providers,omitempty"`
}
