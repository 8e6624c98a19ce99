package model

// Role is the closed set of account roles. Using a named type instead of a
// free string keeps the permission table exhaustive: anything that is not one
// of the constants below fails ParseRole at the boundary and never reaches
// the lookup.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStudent Role = "STUDENT"
)

// ParseRole maps a wire-level role string onto the closed Role set. The
// boolean reports whether the input named a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleStudent:
		return RoleStudent, true
	}
	return "", false
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}
