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

// DepartmentRepository handles database operations for departments and classes
type DepartmentRepository struct {
	db *pgxpool.Pool
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{
		db: db,
	}
}

// EnsureDepartment returns the department with the given name, creating it if absent
func (r *DepartmentRepository) EnsureDepartment(ctx context.Context, name string) (*models.Department, error) {
	query := `
		INSERT INTO departments (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at
	`

	var department models.Department
	err := r.db.QueryRow(ctx, query, uuid.NewString(), name).Scan(
		&department.ID,
		&department.Name,
		&department.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error ensuring department %q: %w", name, err)
	}

	return &department, nil
}

// EnsureClass returns the class with the given title in a department, creating it if absent
func (r *DepartmentRepository) EnsureClass(ctx context.Context, title, departmentID string) (*models.Class, error) {
	query := `
		INSERT INTO classes (id, class_title, department_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (class_title, department_id) DO UPDATE SET class_title = EXCLUDED.class_title
		RETURNING id, class_title, department_id, created_at
	`

	var class models.Class
	err := r.db.QueryRow(ctx, query, uuid.NewString(), title, departmentID).Scan(
		&class.ID,
		&class.ClassTitle,
		&class.DepartmentID,
		&class.CreatedAt,
	)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return nil, apperrors.NewNotFoundError("Department not found")
		}
		return nil, fmt.Errorf("error ensuring class %q: %w", title, err)
	}

	return &class, nil
}

// GetAll retrieves all departments ordered by name
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]*models.Department, 0)
	for rows.Next() {
		var department models.Department
		if err := rows.Scan(&department.ID, &department.Name, &department.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, &department)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}

// GetClasses retrieves the classes of a department, or of every department when departmentID is empty
func (r *DepartmentRepository) GetClasses(ctx context.Context, departmentID string) ([]*models.Class, error) {
	query := `
		SELECT c.id, c.class_title, c.department_id, c.created_at, d.id, d.name, d.created_at
		FROM classes c
		JOIN departments d ON d.id = c.department_id
		WHERE ($1 = '' OR c.department_id = $1)
		ORDER BY d.name, c.class_title
	`

	rows, err := r.db.Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	defer rows.Close()

	classes := make([]*models.Class, 0)
	for rows.Next() {
		var class models.Class
		var department models.Department
		if err := rows.Scan(
			&class.ID, &class.ClassTitle, &class.DepartmentID, &class.CreatedAt,
			&department.ID, &department.Name, &department.CreatedAt,
		); err != nil {
			return nil, err
		}
		class.Department = &department
		classes = append(classes, &class)
	}

	return classes, rows.Err()
}
