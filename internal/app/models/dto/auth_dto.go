package dto

import (
	"time"

	"github.com/yigit/examportal/internal/app/models"
)

// LoginRequest represents login credentials; username may also be the account email
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminUserResponse is the public view of an admin account
type AdminUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	UserType string `json:"userType"`
}

// LoginResponse is returned alongside the session cookie
type LoginResponse struct {
	User      AdminUserResponse `json:"user"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// CreateAdminUserRequest is used by the operator CLI and seed
type CreateAdminUserRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=6"`
	UserType string `json:"type" binding:"required,usertype"`
}

// NewAdminUserResponse maps an admin account to its public view
func NewAdminUserResponse(u *models.AdminUser) AdminUserResponse {
	return AdminUserResponse{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		UserType: string(u.UserType),
	}
}
