package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/app/repositories"
	"github.com/yigit/examportal/internal/pkg/apperrors"
)

// RegistrationFormService manages registration campaigns
type RegistrationFormService struct {
	formRepo repositories.IRegistrationFormRepository
	baseURL  string
	logger   zerolog.Logger
}

// NewRegistrationFormService creates a new RegistrationFormService; baseURL is used for share links only
func NewRegistrationFormService(formRepo repositories.IRegistrationFormRepository, baseURL string, logger zerolog.Logger) *RegistrationFormService {
	return &RegistrationFormService{
		formRepo: formRepo,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// BaseURL returns the public base URL used for share links
func (s *RegistrationFormService) BaseURL() string {
	return s.baseURL
}

// CreateForm creates an open registration form
func (s *RegistrationFormService) CreateForm(ctx context.Context, req dto.CreateRegistrationFormRequest, createdBy string) (*models.RegistrationForm, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewInvalidInputError("Form name is required")
	}

	formType, ok := models.ParseFormType(req.Type)
	if !ok {
		return nil, apperrors.NewInvalidInputError("Form type must be one of: Special Exam, Clearance Exam, Administrative, Resit Exam, Improvement Exam")
	}

	form := &models.RegistrationForm{
		FormName:    name,
		Description: trimmedOrNil(req.Description),
		FormType:    formType,
		IsOpen:      true,
	}
	if err := setFormDates(form, &req.StartDate, &req.EndDate); err != nil {
		return nil, err
	}
	if createdBy = strings.TrimSpace(createdBy); createdBy != "" {
		form.CreatedBy = &createdBy
	}

	if err := s.formRepo.Create(ctx, form); err != nil {
		return nil, internalError(s.logger, err, "Failed to create registration form")
	}

	s.logger.Info().Str("formId", form.ID).Str("formType", string(form.FormType)).Msg("Registration form created")
	return form, nil
}

// GetForm retrieves a form by ID
func (s *RegistrationFormService) GetForm(ctx context.Context, id string) (*models.RegistrationForm, error) {
	form, err := s.formRepo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrFormNotFound
		}
		return nil, internalError(s.logger, err, "Failed to load registration form")
	}
	return form, nil
}

// ListForms lists forms, optionally only open or only closed ones
func (s *RegistrationFormService) ListForms(ctx context.Context, isOpen *bool) ([]*models.RegistrationForm, error) {
	forms, err := s.formRepo.List(ctx, models.RegistrationFormFilter{IsOpen: isOpen})
	if err != nil {
		return nil, internalError(s.logger, err, "Failed to list registration forms")
	}
	return forms, nil
}

// UpdateForm applies the non-nil fields of req
func (s *RegistrationFormService) UpdateForm(ctx context.Context, id string, req dto.UpdateRegistrationFormRequest) (*models.RegistrationForm, error) {
	form, err := s.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewInvalidInputError("Form name cannot be empty")
		}
		form.FormName = name
	}
	if req.Description != nil {
		form.Description = trimmedOrNil(req.Description)
	}
	if req.Type != nil {
		formType, ok := models.ParseFormType(*req.Type)
		if !ok {
			return nil, apperrors.NewInvalidInputError("Invalid form type")
		}
		form.FormType = formType
	}
	if req.IsOpen != nil {
		form.IsOpen = *req.IsOpen
	}
	if err := setFormDates(form, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	if err := s.formRepo.Update(ctx, form); err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrFormNotFound
		}
		return nil, internalError(s.logger, err, "Failed to update registration form")
	}
	return form, nil
}

// SetOpen opens or closes a form for new registrations
func (s *RegistrationFormService) SetOpen(ctx context.Context, id string, isOpen bool) (*models.RegistrationForm, error) {
	form, err := s.formRepo.SetOpen(ctx, strings.TrimSpace(id), isOpen)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrFormNotFound
		}
		return nil, internalError(s.logger, err, "Failed to toggle registration form")
	}

	s.logger.Info().Str("formId", form.ID).Bool("isOpen", form.IsOpen).Msg("Registration form toggled")
	return form, nil
}

// Status reports whether a form accepts registrations. A missing form reads as CLOSED
// and is returned together with ErrFormNotFound.
func (s *RegistrationFormService) Status(ctx context.Context, id string) (dto.FormStatusResponse, error) {
	form, err := s.GetForm(ctx, id)
	if err != nil {
		return dto.FormStatusResponse{Status: dto.FormStatus(false)}, err
	}
	return dto.FormStatusResponse{Status: dto.FormStatus(form.IsOpen), Name: form.FormName}, nil
}

// setFormDates parses optional start/end dates; nil pointers leave the field untouched
func setFormDates(form *models.RegistrationForm, start, end *string) error {
	if start != nil {
		t, err := dto.ParseDate(*start)
		if err != nil {
			return apperrors.NewInvalidInputError("Start date must be YYYY-MM-DD")
		}
		form.StartDate = t
	}
	if end != nil {
		t, err := dto.ParseDate(*end)
		if err != nil {
			return apperrors.NewInvalidInputError("End date must be YYYY-MM-DD")
		}
		form.EndDate = t
	}
	if form.StartDate != nil && form.EndDate != nil && form.EndDate.Before(*form.StartDate) {
		return apperrors.NewInvalidInputError("End date cannot be before start date")
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
