package models

import (
	"time"
)

// Roles assignable to a user account. Role is resolved once at
// authentication time and carried in the token claims; request handling
// never re-derives it.
const (
	RoleAdministrator = "administrator"
	RoleProfessor     = "professor"
	RoleStudent       = "student"
)

type User struct {
	ID           string
	Username     string
	PasswordHash string
	FullName     string
	Role         string // "administrator", "professor", "student"
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole reports whether r is one of the known account roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdministrator, RoleProfessor, RoleStudent:
		return true
	}
	return false
}
