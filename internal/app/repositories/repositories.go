package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	AdminUserRepository        *AdminUserRepository
	DepartmentRepository       *DepartmentRepository
	StudentRepository          *StudentRepository
	RegistrationFormRepository *RegistrationFormRepository
	RegistrationRepository     *RegistrationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AdminUserRepository:        NewAdminUserRepository(db),
		DepartmentRepository:       NewDepartmentRepository(db),
		StudentRepository:          NewStudentRepository(db),
		RegistrationFormRepository: NewRegistrationFormRepository(db),
		RegistrationRepository:     NewRegistrationRepository(db),
	}
}
