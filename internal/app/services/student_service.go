package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/app/repositories"
	"github.com/yigit/examportal/internal/pkg/apperrors"
)

// StudentRegistrationLister lists a student's registrations
type StudentRegistrationLister interface {
	ListByStudent(ctx context.Context, studentID string) ([]*models.Registration, error)
}

// legacy department slugs still sent by older registration pages
var departmentSlugs = map[string]string{
	"computer-science":  "Computer Science",
	"civil-engineering": "Civil Engineering",
}

// StudentService ensures student profiles exist before registration
type StudentService struct {
	studentRepo      repositories.IStudentRepository
	registrationRepo StudentRegistrationLister
	logger           zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo repositories.IStudentRepository, registrationRepo StudentRegistrationLister, logger zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo:      studentRepo,
		registrationRepo: registrationRepo,
		logger:           logger,
	}
}

// EnsureProfile creates the student or updates the existing profile with the same studentId
func (s *StudentService) EnsureProfile(ctx context.Context, req dto.UpsertStudentRequest) (*models.Student, error) {
	shift, ok := models.ParseShift(req.Shift)
	if !ok {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("Invalid shift value: %s. Must be 'fulltime' or 'parttime'", req.Shift))
	}

	department := strings.TrimSpace(req.Department)
	if mapped, ok := departmentSlugs[department]; ok {
		department = mapped
	}

	student := &models.Student{
		StudentID:  strings.TrimSpace(req.StudentID),
		FullName:   strings.TrimSpace(req.FullName),
		Department: department,
		Semester:   strings.TrimSpace(req.Semester),
		Shift:      shift,
	}
	if classID := strings.TrimSpace(req.ClassID); classID != "" {
		student.ClassID = &classID
	}

	if student.StudentID == "" || student.FullName == "" || student.Department == "" || student.Semester == "" {
		return nil, apperrors.NewInvalidInputError("Student ID, full name, department and semester are required")
	}

	if err := s.studentRepo.Upsert(ctx, student); err != nil {
		return nil, internalError(s.logger, err, "Failed to create or update student")
	}

	s.logger.Info().Str("studentId", student.StudentID).Msg("Student profile saved")
	return student, nil
}

// GetProfile retrieves a student together with their registrations
func (s *StudentService) GetProfile(ctx context.Context, studentID string) (*dto.StudentProfileResponse, error) {
	studentID = strings.TrimSpace(studentID)

	student, err := s.studentRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, internalError(s.logger, err, "Failed to load student")
	}

	registrations, err := s.registrationRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, internalError(s.logger, err, "Failed to load student registrations")
	}

	return &dto.StudentProfileResponse{Student: student, Registrations: registrations}, nil
}
