package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/pkg/apperrors"
	"github.com/yigit/examportal/internal/pkg/logger"
)

// HandleAPIError maps an error kind to its HTTP status and writes the error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, code := classify(err)

	message := apperrors.Message(err, http.StatusText(status))
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		if !errors.Is(err, apperrors.ErrInternal) {
			message = "Internal server error"
		}
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

// HandleBindingError writes a 400 envelope for a request that failed binding or validation
func HandleBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

func classify(err error) (int, dto.ErrorCode) {
	switch {
	case errors.Is(err, apperrors.ErrRegistrationClosed):
		return http.StatusForbidden, dto.ErrorCodeRegistrationClosed
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		return http.StatusConflict, dto.ErrorCodeAlreadyRegistered
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials
	case errors.Is(err, apperrors.ErrAccountInactive):
		return http.StatusUnauthorized, dto.ErrorCodeAccountInactive
	case errors.Is(err, apperrors.ErrUserExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, dto.ErrorCodeForbidden
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.ErrorCodeUnauthorized
	case errors.Is(err, apperrors.ErrTooMany):
		return http.StatusTooManyRequests, dto.ErrorCodeTooManyRequests
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer
	}
}
