// Package types provides type definitions for structured data used throughout the mock-interview system.
package types

import (
	"time"

	"github.com/google/uuid"
)

// CreateUserRequest represents the request to create a new user with password authentication.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User represents a user profile for API responses (avoids import cycle with db package).
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ImageURL    string    `json:"image_url,omitempty"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdatePasswordRequest represents a password update request.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UpdateProfileRequest changes the display fields of the current user.
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// Validate checks the CreateUserRequest field rules.
func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// Validate checks the LoginRequest field rules.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// Validate checks the UpdatePasswordRequest field rules.
func (r *UpdatePasswordRequest) Validate() error {
	return validate.Struct(r)
}

// Validate checks the UpdateProfileRequest field rules.
func (r *UpdateProfileRequest) Validate() error {
	return validate.Struct(r)
}
