package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleOperator   Role = "operator"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleOperator, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           string     `json:"id" bun:"id,pk"`
	Email        string     `json:"email" bun:"email"`
	Phone        string     `json:"phone" bun:"phone"`
	PasswordHash string     `json:"-" bun:"password_hash"`
	FullName     string     `json:"full_name" bun:"full_name"`
	Role         Role       `json:"role" bun:"role"`
	CafeIDs      StringList `json:"cafe_ids" bun:"cafe_ids"`
	IsActive     bool       `json:"is_active" bun:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty" bun:"last_login"`
	CreatedAt    time.Time  `json:"created_at" bun:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bun:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     Role   `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthResponse struct {
	User   *User     `json:"user"`
	Tokens TokenPair `json:"tokens"`
}
