package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/pkg/apperrors"
	"github.com/yigit/examportal/internal/pkg/dberrors"
)

// IRegistrationFormRepository defines registration form persistence
type IRegistrationFormRepository interface {
	Create(ctx context.Context, form *models.RegistrationForm) error
	GetByID(ctx context.Context, id string) (*models.RegistrationForm, error)
	List(ctx context.Context, filter models.RegistrationFormFilter) ([]*models.RegistrationForm, error)
	Update(ctx context.Context, form *models.RegistrationForm) error
	SetOpen(ctx context.Context, id string, isOpen bool) (*models.RegistrationForm, error)
}

// RegistrationFormRepository handles database operations for registration forms
type RegistrationFormRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationFormRepository creates a new registration form repository
func NewRegistrationFormRepository(db *pgxpool.Pool) *RegistrationFormRepository {
	return &RegistrationFormRepository{db: db}
}

const formSelect = `
	SELECT f.id, f.form_name, f.description, f.form_type, f.is_open, f.start_date, f.end_date,
	       f.created_by, f.created_at, f.updated_at,
	       (SELECT COUNT(*) FROM special_exam_registrations r WHERE r.registration_form_id = f.id)
	FROM registration_forms f
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (*models.RegistrationForm, error) {
	var f models.RegistrationForm
	err := row.Scan(
		&f.ID,
		&f.FormName,
		&f.Description,
		&f.FormType,
		&f.IsOpen,
		&f.StartDate,
		&f.EndDate,
		&f.CreatedBy,
		&f.CreatedAt,
		&f.UpdatedAt,
		&f.TotalSubmissions,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new form
func (r *RegistrationFormRepository) Create(ctx context.Context, form *models.RegistrationForm) error {
	if form.ID == "" {
		form.ID = uuid.NewString()
	}

	query := `
		INSERT INTO registration_forms (id, form_name, description, form_type, is_open, start_date, end_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		form.ID, form.FormName, form.Description, form.FormType, form.IsOpen,
		form.StartDate, form.EndDate, form.CreatedBy,
	).Scan(&form.CreatedAt, &form.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating registration form: %w", err)
	}
	return nil
}

// GetByID retrieves a form with its submission count
func (r *RegistrationFormRepository) GetByID(ctx context.Context, id string) (*models.RegistrationForm, error) {
	form, err := scanForm(r.db.QueryRow(ctx, formSelect+` WHERE f.id = $1`, id))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrFormNotFound
		}
		return nil, fmt.Errorf("error retrieving registration form: %w", err)
	}
	return form, nil
}

// List retrieves forms, newest first
func (r *RegistrationFormRepository) List(ctx context.Context, filter models.RegistrationFormFilter) ([]*models.RegistrationForm, error) {
	query := formSelect
	var args []any
	if filter.IsOpen != nil {
		query += ` WHERE f.is_open = $1`
		args = append(args, *filter.IsOpen)
	}
	query += ` ORDER BY f.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing registration forms: %w", err)
	}
	defer rows.Close()

	forms := make([]*models.RegistrationForm, 0)
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return forms, nil
}

// Update writes the editable fields of a form
func (r *RegistrationFormRepository) Update(ctx context.Context, form *models.RegistrationForm) error {
	query := `
		UPDATE registration_forms
		SET form_name = $1, description = $2, form_type = $3, is_open = $4,
		    start_date = $5, end_date = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		form.FormName, form.Description, form.FormType, form.IsOpen,
		form.StartDate, form.EndDate, form.ID,
	).Scan(&form.UpdatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrFormNotFound
		}
		return fmt.Errorf("error updating registration form: %w", err)
	}
	return nil
}

// SetOpen opens or closes a form
func (r *RegistrationFormRepository) SetOpen(ctx context.Context, id string, isOpen bool) (*models.RegistrationForm, error) {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE registration_forms SET is_open = $1, updated_at = NOW() WHERE id = $2`, isOpen, id)
	if err != nil {
		return nil, fmt.Errorf("error toggling registration form: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrFormNotFound
	}
	return r.GetByID(ctx, id)
}
