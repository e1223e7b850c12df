package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/pkg/apperrors"
	"github.com/yigit/examportal/internal/pkg/dberrors"
)

// IAdminUserRepository defines the credential store operations
type IAdminUserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	GetByID(ctx context.Context, id string) (*models.AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// AdminUserRepository handles database operations for admin accounts
type AdminUserRepository struct {
	db *pgxpool.Pool
}

// NewAdminUserRepository creates a new admin user repository
func NewAdminUserRepository(db *pgxpool.Pool) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

const adminUserColumns = `id, full_name, username, email, password_hash, user_type, status, created_at, updated_at`

// Create inserts a new admin account; the password must already be hashed
func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	query := `
		INSERT INTO admin_users (id, full_name, username, email, password_hash, user_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.ID, user.FullName, user.Username, user.Email, user.PasswordHash, user.UserType, user.Status,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return apperrors.ErrUserExists
		}
		return fmt.Errorf("error creating admin user: %w", err)
	}
	return nil
}

// GetByID retrieves an admin account by ID
func (r *AdminUserRepository) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	return r.getOne(ctx, `SELECT `+adminUserColumns+` FROM admin_users WHERE id = $1`, id)
}

// GetByUsername retrieves an admin account by username
func (r *AdminUserRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	return r.getOne(ctx, `SELECT `+adminUserColumns+` FROM admin_users WHERE username = $1`, username)
}

// GetByEmail retrieves an admin account by email, case-insensitively
func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return r.getOne(ctx, `SELECT `+adminUserColumns+` FROM admin_users WHERE LOWER(email) = $1`, strings.ToLower(email))
}

// UsernameExists checks if a username is taken
func (r *AdminUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM admin_users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username existence: %w", err)
	}
	return exists, nil
}

func (r *AdminUserRepository) getOne(ctx context.Context, query string, arg string) (*models.AdminUser, error) {
	var u models.AdminUser
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.FullName,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.UserType,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewNotFoundError("Admin user not found")
		}
		return nil, fmt.Errorf("error retrieving admin user: %w", err)
	}
	return &u, nil
}
