// Package session holds the signed-in user of the SmartBite client.
//
// A Provider verifies any existing backend session once at start-up, then
// exposes Login, Register and Logout. Backend failures never reach the
// caller: they are logged and turned into a false result or a cleared state.
package session

import "smartbite/servesoft"

// Role is the client-side role category.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

var backendRoles = map[string]Role{
	"customer": RoleCustomer,
	"manager":  RoleOwner,
	"driver":   RoleAgent,
	"admin":    RoleAdmin,
}

// MapRole translates a backend role into a client role. Unknown values map
// to RoleCustomer.
func MapRole(backend string) Role {
	if r, ok := backendRoles[backend]; ok {
		return r
	}
	return RoleCustomer
}

// Session is the authenticated identity. Phone and Town are empty when the
// backend did not send them.
type Session struct {
	ID    string
	Name  string
	Email string
	Role  Role
	Phone string
	Town  string
}

func fromUser(u servesoft.User) *Session {
	return &Session{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  MapRole(u.Role),
		Phone: u.Phone,
		Town:  u.Town,
	}
}
