package domain

// Identity is the authenticated principal extracted from a verified
// token. It is consumed by the services; issuing tokens is the auth
// server's job, not ours.
type Identity struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

const RoleAdmin = "admin"

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
