package models

import "time"

// AdminUser defines an admin console account based on the 'admin_users' table
type AdminUser struct {
	ID           string     `json:"id" db:"id"`
	FullName     string     `json:"fullName" db:"full_name"`
	Username     string     `json:"username" db:"username"`
	Email        *string    `json:"email,omitempty" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // never serialized
	UserType     UserType   `json:"userType" db:"user_type"`
	Status       UserStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the account may authenticate
func (u *AdminUser) IsActive() bool {
	return u.Status == UserStatusActive
}
