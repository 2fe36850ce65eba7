package models

import "time"

// User represents a login account for the gym back office.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // never serialized
	Email        *string   `json:"email,omitempty" db:"email"`
	FullName     *string   `json:"full_name,omitempty" db:"full_name"`
	RoleID       *int64    `json:"role_id,omitempty" db:"role_id"`
	PhotoURL     *string   `json:"photo_url,omitempty" db:"photo_url"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	Role         *Role     `json:"role,omitempty"` // joined role details
}

// Role represents a user role (Admin, Manager, Staff, Trainer, ...).
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name" db:"name"`
}

// Credentials is the login request payload.
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegistrationPayload is the user registration request payload.
type RegistrationPayload struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
	RoleName *string `json:"role_name,omitempty"` // e.g. "Admin", "Staff"
}
