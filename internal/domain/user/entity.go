package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"   // Full access, including admin mail actions
	RoleManager Role = "manager" // Manages sellers and sales, can resend commissions
	RoleViewer  Role = "viewer"  // Read only
)

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole checks if user was granted role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleNames returns the roles as plain strings, for tokens and responses
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = string(r)
	}
	return names
}

// NormalizeEmail trims and lowercases an address before lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
