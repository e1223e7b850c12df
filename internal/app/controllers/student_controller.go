package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/middleware"
)

type studentService interface {
	EnsureProfile(ctx context.Context, req dto.UpsertStudentRequest) (*models.Student, error)
	GetProfile(ctx context.Context, studentID string) (*dto.StudentProfileResponse, error)
}

// StudentController handles student profiles
type StudentController struct {
	studentService studentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService studentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// UpsertStudent creates or updates a student profile
// @Summary Create or update student
// @Description Called by the public registration page before submitting a registration
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.UpsertStudentRequest true "Student profile"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid student data"
// @Router /students [post]
func (c *StudentController) UpsertStudent(ctx *gin.Context) {
	var req dto.UpsertStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	student, err := c.studentService.EnsureProfile(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// GetStudent returns a student and their registrations
// @Summary Get student
// @Tags students
// @Produce json
// @Param studentId path string true "University student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfileResponse} "Student profile"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{studentId} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	profile, err := c.studentService.GetProfile(ctx.Request.Context(), ctx.Param("studentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(profile))
}
