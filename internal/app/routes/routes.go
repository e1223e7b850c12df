package routes

import (
	"html"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/examportal/internal/app/controllers"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	registrationController *controllers.RegistrationController,
	formController *controllers.RegistrationFormController,
	studentController *controllers.StudentController,
	departmentController *controllers.DepartmentController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
	gatekeeper *middleware.Gatekeeper,
	loginPath string,
) {
	api := router.Group("/api")

	api.GET("/health", healthController.Health)

	// --- Public routes used by the registration page ---
	api.GET("/departments", departmentController.GetAllDepartments)
	api.GET("/classes", departmentController.GetClasses)
	api.POST("/students", studentController.UpsertStudent)
	api.POST("/registrations", registrationController.CreateRegistration)
	api.GET("/registration-forms/:id", formController.GetForm)
	api.GET("/registration-forms/:id/status", formController.Status)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)
		auth.GET("/me", authMiddleware.SessionAuth(), authController.Me)
	}

	// --- Admin API, fully verified sessions only ---
	admin := api.Group("")
	admin.Use(authMiddleware.SessionAuth())
	{
		reviewers := admin.Group("")
		reviewers.Use(authMiddleware.RoleRequired(models.UserTypeDean, models.UserTypeHOD))
		{
			reviewers.GET("/registrations", registrationController.ListRegistrations)
			reviewers.GET("/registrations/stats", registrationController.Stats)
			reviewers.GET("/registrations/:id", registrationController.GetRegistration)
			reviewers.POST("/registrations/:id/approve", registrationController.Approve)
			reviewers.POST("/registrations/:id/reject", registrationController.Reject)
			reviewers.GET("/students/:studentId", studentController.GetStudent)
		}

		forms := admin.Group("/registration-forms")
		forms.Use(authMiddleware.RoleRequired())
		{
			forms.GET("", formController.ListForms)
			forms.POST("", formController.CreateForm)
			forms.PATCH("/:id", formController.UpdateForm)
			forms.POST("/:id/open", formController.OpenForm)
			forms.POST("/:id/close", formController.CloseForm)
		}
	}

	// --- Admin pages behind the gatekeeper ---
	pages := router.Group("/admin")
	pages.Use(gatekeeper.Handler())
	{
		pages.GET("", adminPage)
		pages.GET("/*page", func(c *gin.Context) {
			if c.Request.URL.Path == loginPath {
				loginPage(c)
				return
			}
			adminPage(c)
		})
	}
}

func adminPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`<!doctype html>
<html><head><title>Special Exam Registrations</title></head>
<body><div id="admin" data-user-id="`+html.EscapeString(c.GetString(middleware.ContextUserID))+`"></div></body></html>`))
}

func loginPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`<!doctype html>
<html><head><title>Admin Login</title></head>
<body><form id="login" method="post" action="/api/auth/login"></form></body></html>`))
}
