package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/pkg/apperrors"
)

// DefaultDepartments are created on startup when missing, each with its default classes
var DefaultDepartments = map[string][]string{
	"Computer Science":  {"CS Year 1", "CS Year 2", "CS Year 3", "CS Year 4"},
	"Civil Engineering": {"CE Year 1", "CE Year 2", "CE Year 3", "CE Year 4"},
}

// departmentOrder keeps seeding and its log output deterministic
var departmentOrder = []string{"Computer Science", "Civil Engineering"}

// DepartmentStore is satisfied by repositories.DepartmentRepository
type DepartmentStore interface {
	EnsureDepartment(ctx context.Context, name string) (*appModels.Department, error)
	EnsureClass(ctx context.Context, title, departmentID string) (*appModels.Class, error)
}

// AdminCreator is satisfied by services.AuthService
type AdminCreator interface {
	CreateAdmin(ctx context.Context, req dto.CreateAdminUserRequest) (*appModels.AdminUser, error)
}

// AdminAccount is the default ADMIN account; an empty username or password skips it
type AdminAccount struct {
	Username string
	Password string
	Email    string
}

// CreateDefaultData creates default departments, classes and the default admin if they don't exist.
// Failures are collected so one bad row does not stop the rest.
func CreateDefaultData(ctx context.Context, departments DepartmentStore, admins AdminCreator, admin AdminAccount, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Departments/Classes/Admin)...")
	var finalErr error

	for _, name := range departmentOrder {
		department, err := departments.EnsureDepartment(ctx, name)
		if err != nil {
			lgr.Error().Err(err).Str("department", name).Msg("Error creating department")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		for _, title := range DefaultDepartments[name] {
			if _, err := departments.EnsureClass(ctx, title, department.ID); err != nil {
				lgr.Error().Err(err).Str("class", title).Msg("Error creating class")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if admin.Username == "" || admin.Password == "" {
		lgr.Info().Msg("No default admin configured, skipping creation")
	} else {
		_, err := admins.CreateAdmin(ctx, dto.CreateAdminUserRequest{
			FullName: "System Administrator",
			Username: admin.Username,
			Email:    admin.Email,
			Password: admin.Password,
			UserType: string(appModels.UserTypeAdmin),
		})
		switch {
		case err == nil:
			lgr.Info().Str("username", admin.Username).Msg("Default admin user created successfully")
		case errors.Is(err, apperrors.ErrConflict):
			lgr.Info().Msg("Admin user already exists, skipping creation")
		default:
			lgr.Error().Err(err).Msg("Error creating admin user")
			finalErr = errors.Join(finalErr, fmt.Errorf("default admin: %w", err))
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
