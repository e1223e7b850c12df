package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/db"
	"github.com/yigit/examportal/internal/pkg/apperrors"
	"github.com/yigit/examportal/internal/pkg/dberrors"
)

const submissionUniqueConstraint = "registration_submissions_student_form_key"

// IRegistrationRepository defines registration persistence
type IRegistrationRepository interface {
	SubmissionExists(ctx context.Context, studentID, formID string) (bool, error)
	CreateSubmission(ctx context.Context, submission *models.RegistrationSubmission, rows []*models.Registration) error
	GetByID(ctx context.Context, id string) (*models.Registration, error)
	ApplyDecision(ctx context.Context, id string, decision models.Decision) (*models.Registration, error)
	List(ctx context.Context, filter models.RegistrationFilter, limit, offset int) ([]*models.RegistrationDetail, error)
	Count(ctx context.Context, filter models.RegistrationFilter) (int64, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.Registration, error)
	Stats(ctx context.Context) (*models.RegistrationStats, error)
}

// RegistrationRepository handles database operations for special exam registrations
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `r.id, r.submission_id, r.registration_form_id, r.student_id, r.exam_scope,
	r.course_name, r.exam_type, r.reason, r.document_url, r.approval_status, r.rejection_reason,
	r.approved_by, r.approved_at, r.rejected_by, r.rejected_at, r.created_at, r.updated_at`

func registrationDest(reg *models.Registration) []any {
	return []any{
		&reg.ID,
		&reg.SubmissionID,
		&reg.RegistrationFormID,
		&reg.StudentID,
		&reg.ExamScope,
		&reg.CourseName,
		&reg.ExamType,
		&reg.Reason,
		&reg.DocumentURL,
		&reg.ApprovalStatus,
		&reg.RejectionReason,
		&reg.ApprovedBy,
		&reg.ApprovedAt,
		&reg.RejectedBy,
		&reg.RejectedAt,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	}
}

// SubmissionExists reports whether any registration row exists for the (student, form) pair
func (r *RegistrationRepository) SubmissionExists(ctx context.Context, studentID, formID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM special_exam_registrations WHERE student_id = $1 AND registration_form_id = $2)
		    OR EXISTS(SELECT 1 FROM registration_submissions WHERE student_id = $1 AND registration_form_id = $2)`,
		studentID, formID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking existing registration: %w", err)
	}
	return exists, nil
}

// CreateSubmission inserts the submission event and all of its rows in one transaction.
// A concurrent duplicate for the same pair fails on the unique constraint and nothing is written.
func (r *RegistrationRepository) CreateSubmission(ctx context.Context, submission *models.RegistrationSubmission, rows []*models.Registration) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO registration_submissions (id, registration_form_id, student_id)
			VALUES ($1, $2, $3)
			RETURNING created_at`,
			submission.ID, submission.RegistrationFormID, submission.StudentID,
		).Scan(&submission.CreatedAt)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, row := range rows {
			if row.ID == "" {
				row.ID = uuid.NewString()
			}
			row.SubmissionID = submission.ID
			batch.Queue(`
				INSERT INTO special_exam_registrations
					(id, submission_id, registration_form_id, student_id, exam_scope, course_name, exam_type,
					 reason, document_url, approval_status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING created_at, updated_at`,
				row.ID, row.SubmissionID, row.RegistrationFormID, row.StudentID, row.ExamScope,
				row.CourseName, row.ExamType, row.Reason, row.DocumentURL, row.ApprovalStatus,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for _, row := range rows {
			if err := results.QueryRow().Scan(&row.CreatedAt, &row.UpdatedAt); err != nil {
				_ = results.Close()
				return err
			}
		}
		return results.Close()
	})
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, submissionUniqueConstraint) {
			return apperrors.ErrAlreadyRegistered
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrFormNotFound
		}
		return fmt.Errorf("error creating registration submission: %w", err)
	}
	return nil
}

// GetByID retrieves a single registration row
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	var reg models.Registration
	err := r.db.QueryRow(ctx, `SELECT `+registrationColumns+` FROM special_exam_registrations r WHERE r.id = $1`, id).
		Scan(registrationDest(&reg)...)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("error retrieving registration: %w", err)
	}
	return &reg, nil
}

// ApplyDecision overwrites the approval state and clears the opposite audit fields
func (r *RegistrationRepository) ApplyDecision(ctx context.Context, id string, decision models.Decision) (*models.Registration, error) {
	var query string
	var args []any

	switch decision.Status {
	case models.ApprovalApproved:
		query = `
			UPDATE special_exam_registrations r
			SET approval_status = 'APPROVED', approved_by = $2, approved_at = $3,
			    rejection_reason = NULL, rejected_by = NULL, rejected_at = NULL, updated_at = $3
			WHERE r.id = $1
			RETURNING ` + registrationColumns
		args = []any{id, decision.Actor, decision.At}
	case models.ApprovalRejected:
		query = `
			UPDATE special_exam_registrations r
			SET approval_status = 'REJECTED', rejection_reason = $2, rejected_by = $3, rejected_at = $4,
			    approved_by = NULL, approved_at = NULL, updated_at = $4
			WHERE r.id = $1
			RETURNING ` + registrationColumns
		args = []any{id, decision.RejectionReason, decision.Actor, decision.At}
	default:
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unsupported decision %q", decision.Status))
	}

	var reg models.Registration
	if err := r.db.QueryRow(ctx, query, args...).Scan(registrationDest(&reg)...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("error updating registration decision: %w", err)
	}
	return &reg, nil
}

func buildRegistrationWhere(filter models.RegistrationFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("r.approval_status = $%d", len(args)))
	}
	if filter.FormID != "" {
		args = append(args, filter.FormID)
		clauses = append(clauses, fmt.Sprintf("r.registration_form_id = $%d", len(args)))
	}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		clauses = append(clauses, fmt.Sprintf("r.student_id = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List retrieves registrations joined with form, student, class and department, newest first.
// A limit of zero returns every matching row.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter, limit, offset int) ([]*models.RegistrationDetail, error) {
	where, args := buildRegistrationWhere(filter)
	query := `
		SELECT ` + registrationColumns + `,
		       f.id, f.form_name, f.description, f.form_type, f.is_open, f.start_date, f.end_date,
		       f.created_by, f.created_at, f.updated_at,
		       s.id, s.full_name, s.department, s.class_id, s.semester, s.shift, s.created_at, s.updated_at,
		       c.class_title, d.name
		FROM special_exam_registrations r
		JOIN registration_forms f ON f.id = r.registration_form_id
		LEFT JOIN students s ON s.student_id = r.student_id
		LEFT JOIN classes c ON c.id = s.class_id
		LEFT JOIN departments d ON d.id = c.department_id` + where + `
		ORDER BY r.created_at DESC, r.id`
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}
	defer rows.Close()

	details := make([]*models.RegistrationDetail, 0)
	for rows.Next() {
		var (
			d    models.RegistrationDetail
			form models.RegistrationForm

			sID, sName, sDept, sSemester *string
			sClassID                     *string
			sShift                       *models.Shift
			sCreated, sUpdated           *time.Time
		)
		dest := append(registrationDest(&d.Registration),
			&form.ID, &form.FormName, &form.Description, &form.FormType, &form.IsOpen,
			&form.StartDate, &form.EndDate, &form.CreatedBy, &form.CreatedAt, &form.UpdatedAt,
			&sID, &sName, &sDept, &sClassID, &sSemester, &sShift, &sCreated, &sUpdated,
			&d.ClassTitle, &d.ClassDepName,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		d.Form = &form
		if sID != nil {
			d.Student = &models.Student{
				ID:         *sID,
				StudentID:  d.StudentID,
				FullName:   deref(sName),
				Department: deref(sDept),
				ClassID:    sClassID,
				Semester:   deref(sSemester),
			}
			if sShift != nil {
				d.Student.Shift = *sShift
			}
			if sCreated != nil {
				d.Student.CreatedAt = *sCreated
			}
			if sUpdated != nil {
				d.Student.UpdatedAt = *sUpdated
			}
		}
		details = append(details, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// Count returns the number of rows matching the filter
func (r *RegistrationRepository) Count(ctx context.Context, filter models.RegistrationFilter) (int64, error) {
	where, args := buildRegistrationWhere(filter)
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM special_exam_registrations r`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting registrations: %w", err)
	}
	return total, nil
}

// ListByStudent retrieves a student's registrations, newest first
func (r *RegistrationRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Registration, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+registrationColumns+`
		FROM special_exam_registrations r
		WHERE r.student_id = $1
		ORDER BY r.created_at DESC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]*models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(registrationDest(&reg)...); err != nil {
			return nil, err
		}
		registrations = append(registrations, &reg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return registrations, nil
}

// Stats counts registrations per approval status
func (r *RegistrationRepository) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	var stats models.RegistrationStats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE approval_status = 'PENDING'),
		       COUNT(*) FILTER (WHERE approval_status = 'APPROVED'),
		       COUNT(*) FILTER (WHERE approval_status = 'REJECTED')
		FROM special_exam_registrations`,
	).Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected)
	if err != nil {
		return nil, fmt.Errorf("error computing registration stats: %w", err)
	}
	return &stats, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
