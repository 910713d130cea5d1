package model

import "time"

// Roles assignable to a user account.
const (
	RoleUser  = "user"
	RoleDJ    = "dj"
	RoleAdmin = "admin"
)

// User represents a user in the system.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Not exposed in API responses
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
