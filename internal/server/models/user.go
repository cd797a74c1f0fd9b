package models

import "time"

// Role is the closed set of capabilities an identity can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Outranks reports whether r grants at least the capabilities of required.
// Admin outranks user; unknown roles outrank nothing.
func (r Role) Outranks(required Role) bool {
	if r == required {
		return r.Valid()
	}
	return r == RoleAdmin && required == RoleUser
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
