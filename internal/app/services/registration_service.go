package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/repositories"
	"github.com/yigit/examportal/internal/pkg/apperrors"
)

const (
	// MinReasonLength is the minimum number of characters in a registration reason
	MinReasonLength = 10
	// SystemActor is recorded when a decision is made without a named actor
	SystemActor = "system"
)

var fieldValidator = validator.New()

// CourseInput is one selected course of a SPECIFIC submission
type CourseInput struct {
	Name     string
	ExamType string
}

// CreateRegistrationInput is one student submission against a registration form
type CreateRegistrationInput struct {
	RegistrationFormID string
	StudentID          string
	ExamScope          string
	Courses            []CourseInput
	Reason             string
	DocumentURL        *string
}

// RegistrationQuery lists registrations; Limit zero means no paging
type RegistrationQuery struct {
	Status    string
	FormID    string
	StudentID string
	Limit     int
	Offset    int
}

// RegistrationService drives the registration lifecycle
type RegistrationService struct {
	formRepo         repositories.IRegistrationFormRepository
	registrationRepo repositories.IRegistrationRepository
	now              func() time.Time
	logger           zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	formRepo repositories.IRegistrationFormRepository,
	registrationRepo repositories.IRegistrationRepository,
	logger zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		formRepo:         formRepo,
		registrationRepo: registrationRepo,
		now:              time.Now,
		logger:           logger,
	}
}

// WithClock replaces the time source used for decision timestamps
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	s.now = now
	return s
}

// CreateRegistration validates a submission and persists one row per covered course.
// Checks run in a fixed order: form exists, form open, student id, no prior submission,
// reason, scope, document URL, courses. A closed form wins over any malformed field.
func (s *RegistrationService) CreateRegistration(ctx context.Context, in CreateRegistrationInput) ([]*models.Registration, error) {
	formID := strings.TrimSpace(in.RegistrationFormID)
	studentID := strings.TrimSpace(in.StudentID)

	if formID == "" {
		return nil, apperrors.ErrFormNotFound
	}
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrFormNotFound
		}
		return nil, internalError(s.logger, err, "Failed to load registration form")
	}

	if !form.IsOpen {
		return nil, apperrors.ErrRegistrationClosed
	}

	if studentID == "" {
		return nil, apperrors.NewInvalidInputError("Student ID is required")
	}

	exists, err := s.registrationRepo.SubmissionExists(ctx, studentID, formID)
	if err != nil {
		return nil, internalError(s.logger, err, "Failed to check existing registration")
	}
	if exists {
		return nil, apperrors.ErrAlreadyRegistered
	}

	reason := strings.TrimSpace(in.Reason)
	if utf8.RuneCountInString(reason) < MinReasonLength {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("Reason must be at least %d characters", MinReasonLength))
	}

	rows, err := expandScope(in, formID, studentID, reason)
	if err != nil {
		return nil, err
	}

	submission := &models.RegistrationSubmission{
		RegistrationFormID: formID,
		StudentID:          studentID,
	}
	if err := s.registrationRepo.CreateSubmission(ctx, submission, rows); err != nil {
		return nil, internalError(s.logger, err, "Failed to create registration")
	}

	s.logger.Info().
		Str("formId", formID).
		Str("studentId", studentID).
		Str("submissionId", submission.ID).
		Int("rows", len(rows)).
		Msg("Registration submitted")

	return rows, nil
}

// expandScope turns a submission into its PENDING rows
func expandScope(in CreateRegistrationInput, formID, studentID, reason string) ([]*models.Registration, error) {
	scope, ok := models.ParseExamScope(in.ExamScope)
	if !ok {
		return nil, apperrors.NewInvalidInputError("Exam scope must be one of: all-midterm, all-final, specific")
	}

	var documentURL *string
	if in.DocumentURL != nil && strings.TrimSpace(*in.DocumentURL) != "" {
		u := strings.TrimSpace(*in.DocumentURL)
		documentURL = &u
	}

	newRow := func(courseName string, examType models.ExamType) *models.Registration {
		return &models.Registration{
			RegistrationFormID: formID,
			StudentID:          studentID,
			ExamScope:          scope,
			CourseName:         &courseName,
			ExamType:           &examType,
			Reason:             reason,
			DocumentURL:        documentURL,
			ApprovalStatus:     models.ApprovalPending,
		}
	}

	if err := validateDocumentURL(documentURL); err != nil {
		return nil, err
	}

	switch scope {
	case models.ExamScopeAllMidterm:
		return []*models.Registration{newRow(models.CourseAllMidterms, models.ExamTypeMidterm)}, nil
	case models.ExamScopeAllFinal:
		return []*models.Registration{newRow(models.CourseAllFinals, models.ExamTypeFinal)}, nil
	}

	rows := make([]*models.Registration, 0, len(in.Courses))
	for _, course := range in.Courses {
		name := strings.TrimSpace(course.Name)
		if name == "" {
			continue
		}
		examType, ok := models.ParseExamType(course.ExamType)
		if !ok {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("Course %q must have exam type Midterm or Final", name))
		}
		rows = append(rows, newRow(name, examType))
	}

	if len(rows) == 0 {
		return nil, apperrors.NewInvalidInputError("At least one course is required for specific exam scope")
	}
	return rows, nil
}

func validateDocumentURL(documentURL *string) error {
	if documentURL == nil {
		return nil
	}
	if err := fieldValidator.Var(*documentURL, "url"); err != nil {
		return apperrors.NewInvalidInputError("Document URL must be a valid URL")
	}
	return nil
}

// Approve marks a registration APPROVED and clears any rejection audit fields.
// Any current status may be overwritten.
func (s *RegistrationService) Approve(ctx context.Context, id, approvedBy string) (*models.Registration, error) {
	decision := models.Decision{
		Status: models.ApprovalApproved,
		Actor:  actorOrSystem(approvedBy),
		At:     s.now(),
	}

	registration, err := s.registrationRepo.ApplyDecision(ctx, strings.TrimSpace(id), decision)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, internalError(s.logger, err, "Failed to approve registration")
	}

	s.logger.Info().Str("registrationId", registration.ID).Str("approvedBy", decision.Actor).Msg("Registration approved")
	return registration, nil
}

// Reject marks a registration REJECTED with a reason and clears any approval audit fields
func (s *RegistrationService) Reject(ctx context.Context, id, rejectionReason, rejectedBy string) (*models.Registration, error) {
	reason := strings.TrimSpace(rejectionReason)
	if reason == "" {
		return nil, apperrors.NewInvalidInputError("Rejection reason is required")
	}

	decision := models.Decision{
		Status:          models.ApprovalRejected,
		Actor:           actorOrSystem(rejectedBy),
		RejectionReason: &reason,
		At:              s.now(),
	}

	registration, err := s.registrationRepo.ApplyDecision(ctx, strings.TrimSpace(id), decision)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, internalError(s.logger, err, "Failed to reject registration")
	}

	s.logger.Info().Str("registrationId", registration.ID).Str("rejectedBy", decision.Actor).Msg("Registration rejected")
	return registration, nil
}

// GetRegistration retrieves one registration row
func (s *RegistrationService) GetRegistration(ctx context.Context, id string) (*models.Registration, error) {
	registration, err := s.registrationRepo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, internalError(s.logger, err, "Failed to load registration")
	}
	return registration, nil
}

// ListRegistrations returns enriched rows matching the query and the total match count
func (s *RegistrationService) ListRegistrations(ctx context.Context, q RegistrationQuery) ([]*models.RegistrationDetail, int64, error) {
	filter := models.RegistrationFilter{
		FormID:    strings.TrimSpace(q.FormID),
		StudentID: strings.TrimSpace(q.StudentID),
	}
	if q.Status != "" {
		status, ok := models.ParseApprovalStatus(q.Status)
		if !ok {
			return nil, 0, apperrors.NewInvalidInputError("Status must be one of: pending, approved, rejected")
		}
		filter.Status = status
	}

	registrations, err := s.registrationRepo.List(ctx, filter, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, internalError(s.logger, err, "Failed to list registrations")
	}

	total := int64(len(registrations))
	if q.Limit > 0 {
		total, err = s.registrationRepo.Count(ctx, filter)
		if err != nil {
			return nil, 0, internalError(s.logger, err, "Failed to count registrations")
		}
	}
	return registrations, total, nil
}

// Stats counts registrations per approval status
func (s *RegistrationService) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	stats, err := s.registrationRepo.Stats(ctx)
	if err != nil {
		return nil, internalError(s.logger, err, "Failed to compute registration stats")
	}
	return stats, nil
}

func actorOrSystem(actor string) string {
	if a := strings.TrimSpace(actor); a != "" {
		return a
	}
	return SystemActor
}
