package domain

import "fmt"

// Role is one of the two fixed participant kinds of a session.
type Role string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
)

// Other returns the counterpart role.
func (r Role) Other() Role {
	if r == RoleProfessional {
		return RoleClient
	}
	return RoleProfessional
}

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleProfessional
}

// ParseRole accepts only the exact wire labels.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrMalformedEvent, s)
	}
	return r, nil
}
