package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/app/services"
	"github.com/yigit/examportal/internal/middleware"
	"github.com/yigit/examportal/internal/pkg/helpers"
)

type registrationService interface {
	CreateRegistration(ctx context.Context, in services.CreateRegistrationInput) ([]*models.Registration, error)
	Approve(ctx context.Context, id, approvedBy string) (*models.Registration, error)
	Reject(ctx context.Context, id, rejectionReason, rejectedBy string) (*models.Registration, error)
	GetRegistration(ctx context.Context, id string) (*models.Registration, error)
	ListRegistrations(ctx context.Context, q services.RegistrationQuery) ([]*models.RegistrationDetail, int64, error)
	Stats(ctx context.Context) (*models.RegistrationStats, error)
}

// RegistrationController handles special exam registrations
type RegistrationController struct {
	registrationService registrationService
	logger              zerolog.Logger
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService registrationService, logger zerolog.Logger) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
		logger:              logger,
	}
}

// CreateRegistration submits a registration from the public form
// @Summary Submit a special exam registration
// @Description Creates one row for ALL_MIDTERM / ALL_FINAL and one row per selected course for SPECIFIC.
// @Description ALL_MIDTERM and ALL_FINAL return the created row as an object, SPECIFIC always returns an array.
// @Tags registrations
// @Accept json
// @Produce json
// @Param request body dto.CreateRegistrationRequest true "Registration"
// @Success 201 {object} dto.APIResponse{data=[]models.Registration} "Registration created"
// @Failure 400 {object} dto.ErrorResponse "Invalid reason, scope or courses"
// @Failure 403 {object} dto.ErrorResponse "Registration is currently closed"
// @Failure 404 {object} dto.ErrorResponse "Registration form not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered for this form"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /registrations [post]
func (c *RegistrationController) CreateRegistration(ctx *gin.Context) {
	var req dto.CreateRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration payload")
		middleware.HandleBindingError(ctx, err)
		return
	}

	input := services.CreateRegistrationInput{
		RegistrationFormID: req.RegistrationFormID,
		StudentID:          req.StudentID,
		ExamScope:          req.ExamScope,
		Reason:             req.Reason,
		DocumentURL:        req.DocumentURL,
	}
	for _, course := range req.Courses {
		input.Courses = append(input.Courses, services.CourseInput{Name: course.Name, ExamType: course.ExamType})
	}

	rows, err := c.registrationService.CreateRegistration(ctx.Request.Context(), input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(registrationPayload(req.ExamScope, rows)))
}

// ListRegistrations lists registrations with their form and student
// @Summary List registrations
// @Description Optional filters by approval status, form and student. Paging applies only when page or size is given.
// @Tags registrations
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Param formId query string false "Registration form ID"
// @Param studentId query string false "Student ID"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.RegistrationDetail} "Registrations"
// @Failure 400 {object} dto.ErrorResponse "Invalid status filter"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /registrations [get]
func (c *RegistrationController) ListRegistrations(ctx *gin.Context) {
	var query dto.RegistrationListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	q := services.RegistrationQuery{
		Status:    query.Status,
		FormID:    query.FormID,
		StudentID: query.StudentID,
	}
	page, size, paged := helpers.ParsePaginationParams(ctx)
	if paged {
		q.Offset, q.Limit = helpers.CalculateOffsetLimit(page, size)
	}

	registrations, total, err := c.registrationService.ListRegistrations(ctx.Request.Context(), q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewAPIResponse(registrations)
	if paged {
		pagination := helpers.NewPaginationInfo(total, page, size)
		resp.Pagination = &pagination
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetRegistration returns one registration row
// @Summary Get registration
// @Tags registrations
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} dto.APIResponse{data=models.Registration} "Registration"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /registrations/{id} [get]
func (c *RegistrationController) GetRegistration(ctx *gin.Context) {
	registration, err := c.registrationService.GetRegistration(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(registration))
}

// Stats returns counts per approval status
// @Summary Registration statistics
// @Tags registrations
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.RegistrationStats} "Counts"
// @Router /registrations/stats [get]
func (c *RegistrationController) Stats(ctx *gin.Context) {
	stats, err := c.registrationService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}

// Approve approves a registration
// @Summary Approve registration
// @Description Marks the registration APPROVED. A previous rejection is cleared.
// @Tags registrations
// @Accept json
// @Produce json
// @Param id path string true "Registration ID"
// @Param request body dto.ApproveRegistrationRequest false "Approver"
// @Success 200 {object} dto.APIResponse{data=models.Registration} "Approved registration"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /registrations/{id}/approve [post]
func (c *RegistrationController) Approve(ctx *gin.Context) {
	var req dto.ApproveRegistrationRequest
	if !bindOptionalJSON(ctx, &req) {
		return
	}

	approvedBy := req.ApprovedBy
	if approvedBy == "" {
		approvedBy = sessionUsername(ctx)
	}

	registration, err := c.registrationService.Approve(ctx.Request.Context(), ctx.Param("id"), approvedBy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(registration))
}

// Reject rejects a registration with a reason
// @Summary Reject registration
// @Description Marks the registration REJECTED. A previous approval is cleared.
// @Tags registrations
// @Accept json
// @Produce json
// @Param id path string true "Registration ID"
// @Param request body dto.RejectRegistrationRequest true "Rejection reason"
// @Success 200 {object} dto.APIResponse{data=models.Registration} "Rejected registration"
// @Failure 400 {object} dto.ErrorResponse "Rejection reason is required"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /registrations/{id}/reject [post]
func (c *RegistrationController) Reject(ctx *gin.Context) {
	var req dto.RejectRegistrationRequest
	if !bindOptionalJSON(ctx, &req) {
		return
	}

	rejectedBy := req.RejectedBy
	if rejectedBy == "" {
		rejectedBy = sessionUsername(ctx)
	}

	registration, err := c.registrationService.Reject(ctx.Request.Context(), ctx.Param("id"), req.RejectionReason, rejectedBy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(registration))
}

// registrationPayload keeps the JSON type fixed per scope: whole-sitting scopes
// produce one row, SPECIFIC produces a list even when a single course was chosen.
func registrationPayload(examScope string, rows []*models.Registration) interface{} {
	scope, _ := models.ParseExamScope(examScope)
	if scope != models.ExamScopeSpecific && len(rows) == 1 {
		return rows[0]
	}
	return rows
}

// bindOptionalJSON binds a body when one was sent. A chunked empty body reads as none.
func bindOptionalJSON(ctx *gin.Context, obj interface{}) bool {
	if ctx.Request.ContentLength == 0 {
		return true
	}
	if err := ctx.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		middleware.HandleBindingError(ctx, err)
		return false
	}
	return true
}

func sessionUsername(ctx *gin.Context) string {
	if claims, ok := middleware.ClaimsFromContext(ctx); ok {
		return claims.Username
	}
	return ""
}
