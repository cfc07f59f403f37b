package models

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// ValidRole reports whether r is one of the roles accepted when creating
// or updating an account.
func ValidRole(r UserRole) bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the persisted account record. The JSON tags describe the layout
// inside the encrypted user file; PasswordHash and Salt never leave the
// process. API responses use PublicUser instead.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"password_hash"`
	Salt         []byte    `json:"salt"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the client-visible projection of a User.
type PublicUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
