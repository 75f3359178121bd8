package auth

import "fmt"

// Role is the closed set of account roles. Comparison is exact everywhere:
// super_admin is an ordinary value, never a wildcard, so every gate that should
// admit it must list it explicitly.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleAdmin        Role = "admin"
	RoleAccountant   Role = "accountant"
	RoleEmployee     Role = "employee"
	RoleCustomer     Role = "customer"
	RoleSupportStaff Role = "support_staff"
)

var allRoles = map[Role]struct{}{
	RoleSuperAdmin:   {},
	RoleAdmin:        {},
	RoleAccountant:   {},
	RoleEmployee:     {},
	RoleCustomer:     {},
	RoleSupportStaff: {},
}

func (r Role) Valid() bool {
	_, ok := allRoles[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
