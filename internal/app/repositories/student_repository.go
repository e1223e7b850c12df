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

// IStudentRepository defines student profile persistence
type IStudentRepository interface {
	Upsert(ctx context.Context, student *models.Student) error
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

// Upsert creates the student or updates the profile of an existing studentId
func (r *StudentRepository) Upsert(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (id, student_id, full_name, department, class_id, semester, shift)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (student_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			department = EXCLUDED.department,
			class_id = EXCLUDED.class_id,
			semester = EXCLUDED.semester,
			shift = EXCLUDED.shift,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		uuid.NewString(),
		student.StudentID,
		student.FullName,
		student.Department,
		student.ClassID,
		student.Semester,
		student.Shift,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewInvalidInputError("Selected class does not exist")
		}
		return fmt.Errorf("error upserting student: %w", err)
	}
	return nil
}

// GetByStudentID retrieves a student with their class and department
func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	query := `
		SELECT s.id, s.student_id, s.full_name, s.department, s.class_id, s.semester, s.shift,
		       s.created_at, s.updated_at,
		       c.class_title, d.id, d.name
		FROM students s
		LEFT JOIN classes c ON c.id = s.class_id
		LEFT JOIN departments d ON d.id = c.department_id
		WHERE s.student_id = $1
	`

	var (
		s            models.Student
		classTitle   *string
		departmentID *string
		departmentNm *string
	)
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&s.ID,
		&s.StudentID,
		&s.FullName,
		&s.Department,
		&s.ClassID,
		&s.Semester,
		&s.Shift,
		&s.CreatedAt,
		&s.UpdatedAt,
		&classTitle,
		&departmentID,
		&departmentNm,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	if s.ClassID != nil && classTitle != nil {
		s.Class = &models.Class{ID: *s.ClassID, ClassTitle: *classTitle}
		if departmentID != nil && departmentNm != nil {
			s.Class.DepartmentID = *departmentID
			s.Class.Department = &models.Department{ID: *departmentID, Name: *departmentNm}
		}
	}

	return &s, nil
}
