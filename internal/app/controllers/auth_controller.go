// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/app/services"
	"github.com/yigit/examportal/internal/middleware"
	"github.com/yigit/examportal/internal/pkg/auth"
)

// authService is the part of services.AuthService used over HTTP
type authService interface {
	Login(ctx context.Context, identifier, password, clientIP string) (*services.LoginResult, error)
	Me(claims *auth.SessionClaims) (dto.AdminUserResponse, error)
}

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// AuthController handles authentication related operations
type AuthController struct {
	authService authService
	cookie      CookieConfig
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService authService, cookie CookieConfig, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// Login handles admin login
// @Summary Admin login
// @Description Authenticates an admin by username or email and sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials or inactive account"
// @Failure 429 {object} dto.ErrorResponse "Too many login attempts"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password, ctx.ClientIP())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     c.cookie.Name,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(c.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.LoginResponse{
		User:      dto.NewAdminUserResponse(result.User),
		ExpiresAt: result.ExpiresAt,
	}))
}

// Logout clears the session cookie
// @Summary Admin logout
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Logged out"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     c.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Logged out"}))
}

// Me returns the identity of the current session
// @Summary Current admin
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminUserResponse} "Current session user"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	claims, _ := middleware.ClaimsFromContext(ctx)
	me, err := c.authService.Me(claims)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(me))
}
