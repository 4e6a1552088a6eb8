package dto

import (
	"time"

	"github.com/devhub-platform/portal/internal/model"
)

// UserResponse is the outward user representation. The password hash is
// never part of it.
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName,omitempty"`
	LastName   string    `json:"lastName,omitempty"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"isActive"`
	Department string    `json:"department,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	LastLogin  time.Time `json:"lastLogin"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewUserResponse maps a user model to its outward representation
func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role,
		IsActive:   user.IsActive,
		Department: user.Department,
		Avatar:     user.Avatar,
		LastLogin:  user.LastLogin,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// UserFilter holds admin listing filters
type UserFilter struct {
	Role     string
	IsActive *bool
	Search   string
}

// UpdateUserRoleRequest changes a user's role (admin only)
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=developer admin"`
}

// UpdateUserStatusRequest activates or deactivates an account (admin only)
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
