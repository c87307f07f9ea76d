package domain

import "errors"

// ErrAlreadyExists signals a write that collides with an existing record.
var ErrAlreadyExists = errors.New("record already exists")

// Role names carried in user records and JWT claims.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a credential record resolved by the authentication provider.
// The password hash is never serialized.
type User struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Roles        []string `json:"roles"`
}

// Credentials is the payload accepted by the login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
