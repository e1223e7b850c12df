package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/middleware"
	"github.com/yigit/examportal/internal/pkg/apperrors"
)

type registrationFormService interface {
	BaseURL() string
	CreateForm(ctx context.Context, req dto.CreateRegistrationFormRequest, createdBy string) (*models.RegistrationForm, error)
	GetForm(ctx context.Context, id string) (*models.RegistrationForm, error)
	ListForms(ctx context.Context, isOpen *bool) ([]*models.RegistrationForm, error)
	UpdateForm(ctx context.Context, id string, req dto.UpdateRegistrationFormRequest) (*models.RegistrationForm, error)
	SetOpen(ctx context.Context, id string, isOpen bool) (*models.RegistrationForm, error)
	Status(ctx context.Context, id string) (dto.FormStatusResponse, error)
}

// RegistrationFormController handles registration campaigns
type RegistrationFormController struct {
	formService registrationFormService
	logger      zerolog.Logger
}

// NewRegistrationFormController creates a new RegistrationFormController
func NewRegistrationFormController(formService registrationFormService, logger zerolog.Logger) *RegistrationFormController {
	return &RegistrationFormController{
		formService: formService,
		logger:      logger,
	}
}

func (c *RegistrationFormController) respond(ctx *gin.Context, status int, form *models.RegistrationForm) {
	ctx.JSON(status, dto.NewAPIResponse(dto.NewRegistrationFormResponse(form, c.formService.BaseURL())))
}

// CreateForm creates an open registration form
// @Summary Create registration form
// @Tags registration-forms
// @Accept json
// @Produce json
// @Param request body dto.CreateRegistrationFormRequest true "Form"
// @Success 201 {object} dto.APIResponse{data=dto.RegistrationFormResponse} "Form created"
// @Failure 400 {object} dto.ErrorResponse "Invalid form data"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /registration-forms [post]
func (c *RegistrationFormController) CreateForm(ctx *gin.Context) {
	var req dto.CreateRegistrationFormRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	var createdBy string
	if claims, ok := middleware.ClaimsFromContext(ctx); ok {
		createdBy = claims.FullName
	}

	form, err := c.formService.CreateForm(ctx.Request.Context(), req, createdBy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.respond(ctx, http.StatusCreated, form)
}

// ListForms lists registration forms
// @Summary List registration forms
// @Tags registration-forms
// @Produce json
// @Param isOpen query bool false "Only open (true) or closed (false) forms"
// @Success 200 {object} dto.APIResponse{data=[]dto.RegistrationFormResponse} "Forms"
// @Failure 400 {object} dto.ErrorResponse "Invalid isOpen filter"
// @Router /registration-forms [get]
func (c *RegistrationFormController) ListForms(ctx *gin.Context) {
	var isOpen *bool
	if raw, ok := ctx.GetQuery("isOpen"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewInvalidInputError("isOpen must be true or false"))
			return
		}
		isOpen = &v
	}

	forms, err := c.formService.ListForms(ctx.Request.Context(), isOpen)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.RegistrationFormResponse, 0, len(forms))
	for _, form := range forms {
		resp = append(resp, dto.NewRegistrationFormResponse(form, c.formService.BaseURL()))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// GetForm returns one form
// @Summary Get registration form
// @Tags registration-forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationFormResponse} "Form"
// @Failure 404 {object} dto.ErrorResponse "Registration form not found"
// @Router /registration-forms/{id} [get]
func (c *RegistrationFormController) GetForm(ctx *gin.Context) {
	form, err := c.formService.GetForm(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.respond(ctx, http.StatusOK, form)
}

// UpdateForm patches a form
// @Summary Update registration form
// @Tags registration-forms
// @Accept json
// @Produce json
// @Param id path string true "Form ID"
// @Param request body dto.UpdateRegistrationFormRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationFormResponse} "Updated form"
// @Failure 400 {object} dto.ErrorResponse "Invalid form data"
// @Failure 404 {object} dto.ErrorResponse "Registration form not found"
// @Router /registration-forms/{id} [patch]
func (c *RegistrationFormController) UpdateForm(ctx *gin.Context) {
	var req dto.UpdateRegistrationFormRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	form, err := c.formService.UpdateForm(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.respond(ctx, http.StatusOK, form)
}

// OpenForm opens a form for registrations
// @Summary Open registration form
// @Tags registration-forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationFormResponse} "Opened form"
// @Failure 404 {object} dto.ErrorResponse "Registration form not found"
// @Router /registration-forms/{id}/open [post]
func (c *RegistrationFormController) OpenForm(ctx *gin.Context) {
	c.setOpen(ctx, true)
}

// CloseForm closes a form for registrations
// @Summary Close registration form
// @Tags registration-forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationFormResponse} "Closed form"
// @Failure 404 {object} dto.ErrorResponse "Registration form not found"
// @Router /registration-forms/{id}/close [post]
func (c *RegistrationFormController) CloseForm(ctx *gin.Context) {
	c.setOpen(ctx, false)
}

func (c *RegistrationFormController) setOpen(ctx *gin.Context, isOpen bool) {
	form, err := c.formService.SetOpen(ctx.Request.Context(), ctx.Param("id"), isOpen)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.respond(ctx, http.StatusOK, form)
}

// Status reports OPEN or CLOSED for the public registration page
// @Summary Registration form status
// @Description A missing form answers 404 with status CLOSED.
// @Tags registration-forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} dto.FormStatusResponse "Form status"
// @Failure 404 {object} dto.FormStatusResponse "Registration form not found"
// @Router /registration-forms/{id}/status [get]
func (c *RegistrationFormController) Status(ctx *gin.Context) {
	status, err := c.formService.Status(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, status)
			return
		}
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, status)
}
