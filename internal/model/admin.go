package model

import "time"

// Role is the closed set of privilege levels an admin can hold. There is no
// hierarchy beyond this binary distinction: super-admins manage other admin
// accounts, regular admins manage portal content.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Valid reports whether r is one of the two known roles. Request decoding
// must reject anything else before it reaches the store.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Admin represents a portal administrator. Passwords are stored as bcrypt
// hashes and never serialized.
type Admin struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // bcrypt hash, never expose
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IsSuper reports whether this admin may manage other admin accounts.
func (a *Admin) IsSuper() bool {
	return a.Role == RoleSuperAdmin
}
