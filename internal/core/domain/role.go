package domain

import "fmt"

// Role is the authorization level attached to a user. The numeric values
// match the role_id column of the legacy schema and the role_id field on
// the wire; everything past the boundary matches on the enum.
type Role int

const (
	RoleAdmin   Role = 1
	RoleDefault Role = 2
	RoleUser    Role = 3
)

// ProtectedAdminID designates the single admin account that standard
// delete operations must never remove.
const ProtectedAdminID int64 = 1

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleDefault:
		return "default"
	case RoleUser:
		return "user"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDefault, RoleUser:
		return true
	}
	return false
}

// RoleFromID converts a wire-level role_id into a Role.
func RoleFromID(id int) (Role, error) {
	r := Role(id)
	if !r.Valid() {
		return 0, fmt.Errorf("unknown role id %d", id)
	}
	return r, nil
}
