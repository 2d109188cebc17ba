package auth

import "github.com/dmitrijs2005/gophblog/internal/server/models"

// Principal is the authenticated identity attached to a request.
// Role comes from the token, so it may lag a role change until re-login.
type Principal struct {
	ID       string
	Username string
	Role     models.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}
