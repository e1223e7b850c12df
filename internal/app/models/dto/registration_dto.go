package dto

// CourseSelection is one course of a SPECIFIC scope submission
type CourseSelection struct {
	Name     string `json:"name"`
	ExamType string `json:"examType" example:"Midterm"`
}

// CreateRegistrationRequest is the public registration form payload.
// Fields carry no binding rules: the service validates them after the open-form check.
type CreateRegistrationRequest struct {
	RegistrationFormID string            `json:"registrationFormId"`
	StudentID          string            `json:"studentId"`
	ExamScope          string            `json:"examScope" example:"specific"`
	Courses            []CourseSelection `json:"courses"`
	Reason             string            `json:"reason"`
	DocumentURL        *string           `json:"documentUrl"`
}

// ApproveRegistrationRequest optionally names the approver; the session user is used otherwise
type ApproveRegistrationRequest struct {
	ApprovedBy string `json:"approvedBy"`
}

// RejectRegistrationRequest carries the mandatory rejection reason
type RejectRegistrationRequest struct {
	RejectionReason string `json:"rejectionReason"`
	RejectedBy      string `json:"rejectedBy"`
}

// RegistrationListQuery binds the list filters
type RegistrationListQuery struct {
	Status    string `form:"status"`
	FormID    string `form:"formId"`
	StudentID string `form:"studentId"`
}
