package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/examportal/internal/app/models"
)

// CreateRegistrationFormRequest creates a new campaign; type accepts the enum or UI label
type CreateRegistrationFormRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Type        string  `json:"type" binding:"required,formtype" example:"Special Exam"`
	StartDate   string  `json:"startDate" example:"2026-03-01"`
	EndDate     string  `json:"endDate" example:"2026-03-15"`
}

// UpdateRegistrationFormRequest patches a form; nil fields are left untouched
type UpdateRegistrationFormRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	IsOpen      *bool   `json:"isOpen"`
}

// RegistrationFormResponse is the admin/public view of a form
type RegistrationFormResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      *string `json:"description,omitempty"`
	Type             string  `json:"type"`
	Status           string  `json:"status"`
	IsOpen           bool    `json:"isOpen"`
	Link             string  `json:"link"`
	CreatedDate      string  `json:"createdDate"`
	CreatedBy        string  `json:"createdBy"`
	TotalSubmissions int     `json:"totalSubmissions"`
	StartDate        string  `json:"startDate"`
	EndDate          *string `json:"endDate"`
}

// FormStatusResponse is the public open/closed status of a form
type FormStatusResponse struct {
	Status string `json:"status" example:"OPEN"`
	Name   string `json:"name,omitempty"`
}

const dateLayout = "2006-01-02"

// FormStatus renders the open flag as OPEN or CLOSED
func FormStatus(isOpen bool) string {
	if isOpen {
		return "OPEN"
	}
	return "CLOSED"
}

// NewRegistrationFormResponse maps a form and builds its share link
func NewRegistrationFormResponse(f *models.RegistrationForm, baseURL string) RegistrationFormResponse {
	resp := RegistrationFormResponse{
		ID:               f.ID,
		Name:             f.FormName,
		Description:      f.Description,
		Type:             string(f.FormType),
		Status:           FormStatus(f.IsOpen),
		IsOpen:           f.IsOpen,
		Link:             ShareLink(baseURL, f.ID),
		CreatedDate:      f.CreatedAt.Format(dateLayout),
		CreatedBy:        "Admin User",
		TotalSubmissions: f.TotalSubmissions,
	}
	if f.CreatedBy != nil && *f.CreatedBy != "" {
		resp.CreatedBy = *f.CreatedBy
	}
	if f.StartDate != nil {
		resp.StartDate = f.StartDate.Format(dateLayout)
	}
	if f.EndDate != nil {
		end := f.EndDate.Format(dateLayout)
		resp.EndDate = &end
	}
	return resp
}

// ShareLink is the public registration page for a form
func ShareLink(baseURL, formID string) string {
	return fmt.Sprintf("%s/register/%s", strings.TrimRight(baseURL, "/"), formID)
}

// ParseDate parses an optional YYYY-MM-DD or RFC3339 date; empty input yields nil
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	return &t, nil
}
