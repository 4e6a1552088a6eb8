package constants

// User roles. Role comparison is exact-match: there is no hierarchy,
// admin is the only elevated role.
const (
	RoleDeveloper = "developer"
	RoleAdmin     = "admin"
)

// DefaultRole is assigned on registration.
const DefaultRole = RoleDeveloper

// ValidRoles lists every role accepted by registration and role updates.
var ValidRoles = []string{RoleDeveloper, RoleAdmin}

// IsValidRole reports whether role is a known role value.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
