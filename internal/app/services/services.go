// Package services holds the business logic of the portal.
//
// Services defined in this package:
//   - AuthService: admin login and session minting
//   - RegistrationService: registration lifecycle (create with course fan-out, approve, reject)
//   - RegistrationFormService: registration campaigns and their open/closed gate
//   - StudentService: student profile upsert and lookup
package services

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/pkg/apperrors"
)

// internalError logs err with detail and returns a generic internal error.
// Errors that already carry a taxonomy kind are returned unchanged.
func internalError(logger zerolog.Logger, err error, message string) error {
	if isClassified(err) {
		return err
	}
	logger.Error().Err(err).Msg(message)
	return apperrors.NewInternalError(message, err)
}

func isClassified(err error) bool {
	return apperrors.Is(err, apperrors.ErrNotFound,
		apperrors.ErrForbidden,
		apperrors.ErrConflict,
		apperrors.ErrInvalidInput,
		apperrors.ErrUnauthorized,
		apperrors.ErrTooMany,
		apperrors.ErrInternal,
	)
}

// isNotFound is a shorthand used when a missing row maps to a domain error
func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
