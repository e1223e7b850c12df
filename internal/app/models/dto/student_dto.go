package dto

import "github.com/yigit/examportal/internal/app/models"

// UpsertStudentRequest creates or updates a student profile by studentId
type UpsertStudentRequest struct {
	StudentID  string `json:"studentId" binding:"required"`
	FullName   string `json:"fullName" binding:"required"`
	Department string `json:"department" binding:"required"`
	ClassID    string `json:"classId" binding:"required"`
	Semester   string `json:"semester" binding:"required"`
	Shift      string `json:"shift" binding:"required,shift"`
}

// StudentProfileResponse is a student with their registrations, newest first
type StudentProfileResponse struct {
	*models.Student
	Registrations []*models.Registration `json:"registrations"`
}
