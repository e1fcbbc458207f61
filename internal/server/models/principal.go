package models

// Principal is the authenticated identity derived from a verified session
// token.
type Principal struct {
	ID    int64
	Email string
	Role  Role
}

// RoleOf returns the role of p, or RoleGuest when p is nil.
func RoleOf(p *Principal) Role {
	if p == nil {
		return RoleGuest
	}
	return p.Role
}
