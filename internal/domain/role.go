package domain

// Role names, ordered from least to most privileged.
const (
	RoleStudent    = "student"
	RoleParent     = "parent"
	RoleStaff      = "staff"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// User types group roles for token claims and table partitioning.
const (
	UserTypeFamily = "family"
	UserTypeStaff  = "staff"
)

// roleLevels is the fixed five-level privilege ladder.
var roleLevels = map[string]int{
	RoleStudent:    1,
	RoleParent:     2,
	RoleStaff:      3,
	RoleAdmin:      4,
	RoleSuperAdmin: 5,
}

// ValidRole reports whether name is a known role.
func ValidRole(name string) bool {
	_, ok := roleLevels[name]
	return ok
}

// RoleAtLeast reports whether role meets or exceeds the required role's level.
// Unknown roles never satisfy any requirement.
func RoleAtLeast(role, required string) bool {
	have, ok := roleLevels[role]
	if !ok {
		return false
	}
	want, ok := roleLevels[required]
	if !ok {
		return false
	}
	return have >= want
}

// UserTypeFor maps a role to its user type claim.
func UserTypeFor(role string) string {
	if RoleAtLeast(role, RoleStaff) {
		return UserTypeStaff
	}
	return UserTypeFamily
}
