package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/middleware"
	"github.com/yigit/examportal/internal/pkg/apperrors"
)

// departmentLister is satisfied by repositories.DepartmentRepository
type departmentLister interface {
	GetAll(ctx context.Context) ([]*models.Department, error)
	GetClasses(ctx context.Context, departmentID string) ([]*models.Class, error)
}

// DepartmentController serves the department and class pickers of the registration page
type DepartmentController struct {
	departments departmentLister
	logger      zerolog.Logger
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(departments departmentLister, logger zerolog.Logger) *DepartmentController {
	return &DepartmentController{
		departments: departments,
		logger:      logger,
	}
}

// GetAllDepartments lists departments
// @Summary List departments
// @Tags departments
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Department} "Departments"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments [get]
func (c *DepartmentController) GetAllDepartments(ctx *gin.Context) {
	departments, err := c.departments.GetAll(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list departments")
		middleware.HandleAPIError(ctx, apperrors.NewInternalError("Failed to list departments", err))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(departments))
}

// GetClasses lists classes, optionally of one department
// @Summary List classes
// @Tags departments
// @Produce json
// @Param departmentId query string false "Department ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Class} "Classes"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes [get]
func (c *DepartmentController) GetClasses(ctx *gin.Context) {
	classes, err := c.departments.GetClasses(ctx.Request.Context(), ctx.Query("departmentId"))
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list classes")
		middleware.HandleAPIError(ctx, apperrors.NewInternalError("Failed to list classes", err))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(classes))
}
