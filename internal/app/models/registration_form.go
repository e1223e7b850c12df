package models

import "time"

// RegistrationForm is one open/closed registration campaign
type RegistrationForm struct {
	ID          string     `json:"id" db:"id"`
	FormName    string     `json:"formName" db:"form_name"`
	Description *string    `json:"description,omitempty" db:"description"`
	FormType    FormType   `json:"formType" db:"form_type"`
	IsOpen      bool       `json:"isOpen" db:"is_open"`
	StartDate   *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"endDate,omitempty" db:"end_date"`
	CreatedBy   *string    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Populated by list queries
	TotalSubmissions int `json:"totalSubmissions"`
}

// RegistrationFormFilter narrows form listings
type RegistrationFormFilter struct {
	IsOpen *bool
}
