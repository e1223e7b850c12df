package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/pkg/auth"
)

// FullVerifier checks session tokens including their signature
type FullVerifier interface {
	VerifyFull(tokenString string) (*auth.SessionClaims, error)
}

// AuthMiddleware guards the admin API with fully verified sessions
type AuthMiddleware struct {
	codec      FullVerifier
	cookieName string
	logger     zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(codec FullVerifier, cookieName string, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		codec:      codec,
		cookieName: cookieName,
		logger:     logger,
	}
}

// SessionAuth validates the session cookie and stores its claims in the context
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookieName)
		if err != nil || token == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Not authenticated")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.codec.VerifyFull(token)
		if err != nil {
			m.logger.Debug().Str("path", c.Request.URL.Path).Msg("Rejected invalid session")
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidSession, "Invalid session")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RoleRequired allows only the listed user types. ADMIN is always allowed.
func (m *AuthMiddleware) RoleRequired(types ...models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Not authenticated")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		userType := models.UserType(claims.UserType)
		if userType == models.UserTypeAdmin {
			c.Next()
			return
		}
		for _, t := range types {
			if userType == t {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// ClaimsFromContext returns the claims stored by SessionAuth
func ClaimsFromContext(c *gin.Context) (*auth.SessionClaims, bool) {
	value, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.SessionClaims)
	return claims, ok && claims != nil
}
