package models

import "time"

// Registration is one persisted special exam registration row.
// A SPECIFIC submission produces one row per selected course.
type Registration struct {
	ID                 string         `json:"id" db:"id"`
	SubmissionID       string         `json:"submissionId" db:"submission_id"`
	RegistrationFormID string         `json:"registrationFormId" db:"registration_form_id"`
	StudentID          string         `json:"studentId" db:"student_id"`
	ExamScope          ExamScope      `json:"examScope" db:"exam_scope"`
	CourseName         *string        `json:"courseName" db:"course_name"`
	ExamType           *ExamType      `json:"examType" db:"exam_type"`
	Reason             string         `json:"reason" db:"reason"`
	DocumentURL        *string        `json:"documentUrl" db:"document_url"`
	ApprovalStatus     ApprovalStatus `json:"approvalStatus" db:"approval_status"`
	RejectionReason    *string        `json:"rejectionReason" db:"rejection_reason"`
	ApprovedBy         *string        `json:"approvedBy" db:"approved_by"`
	ApprovedAt         *time.Time     `json:"approvedAt" db:"approved_at"`
	RejectedBy         *string        `json:"rejectedBy" db:"rejected_by"`
	RejectedAt         *time.Time     `json:"rejectedAt" db:"rejected_at"`
	CreatedAt          time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time      `json:"updatedAt" db:"updated_at"`
}

// RegistrationSubmission records one (student, form) submission event.
// The storage layer keeps the pair unique.
type RegistrationSubmission struct {
	ID                 string    `json:"id" db:"id"`
	RegistrationFormID string    `json:"registrationFormId" db:"registration_form_id"`
	StudentID          string    `json:"studentId" db:"student_id"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}

// RegistrationDetail is a registration joined with its form, student and class
type RegistrationDetail struct {
	Registration
	Form         *RegistrationForm `json:"form,omitempty"`
	Student      *Student          `json:"student,omitempty"`
	ClassTitle   *string           `json:"classTitle,omitempty"`
	ClassDepName *string           `json:"classDepartment,omitempty"`
}

// RegistrationFilter narrows registration listings; empty fields match everything
type RegistrationFilter struct {
	Status    ApprovalStatus
	FormID    string
	StudentID string
}

// RegistrationStats counts rows per approval status
type RegistrationStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Decision is the audit data written by approve/reject
type Decision struct {
	Status          ApprovalStatus
	Actor           string
	RejectionReason *string
	At              time.Time
}
