package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/pkg/apperrors"
)

type memoryDepartments struct {
	departments map[string]string
	classes     map[string]bool
	failOn      string
}

func (m *memoryDepartments) EnsureDepartment(_ context.Context, name string) (*appModels.Department, error) {
	if name == m.failOn {
		return nil, errors.New("insert failed")
	}
	id, ok := m.departments[name]
	if !ok {
		id = "dep-" + name
		m.departments[name] = id
	}
	return &appModels.Department{ID: id, Name: name}, nil
}

func (m *memoryDepartments) EnsureClass(_ context.Context, title, departmentID string) (*appModels.Class, error) {
	m.classes[departmentID+"/"+title] = true
	return &appModels.Class{ID: "cls-" + title, ClassTitle: title, DepartmentID: departmentID}, nil
}

type memoryAdmins struct {
	created []dto.CreateAdminUserRequest
	err     error
}

func (m *memoryAdmins) CreateAdmin(_ context.Context, req dto.CreateAdminUserRequest) (*appModels.AdminUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, req)
	return &appModels.AdminUser{Username: req.Username}, nil
}

func newMemoryDepartments() *memoryDepartments {
	return &memoryDepartments{departments: map[string]string{}, classes: map[string]bool{}}
}

func TestCreateDefaultData(t *testing.T) {
	deps := newMemoryDepartments()
	admins := &memoryAdmins{}

	err := CreateDefaultData(context.Background(), deps, admins, AdminAccount{Username: "admin", Password: "admin123"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if len(deps.departments) != 2 {
		t.Fatalf("expected 2 departments, got %d", len(deps.departments))
	}
	if len(deps.classes) != 8 {
		t.Fatalf("expected 8 classes, got %d", len(deps.classes))
	}
	if len(admins.created) != 1 || admins.created[0].UserType != string(appModels.UserTypeAdmin) {
		t.Fatalf("expected one ADMIN account, got %+v", admins.created)
	}
}

func TestCreateDefaultDataIsIdempotentForExistingAdmin(t *testing.T) {
	admins := &memoryAdmins{err: apperrors.ErrUserExists}

	err := CreateDefaultData(context.Background(), newMemoryDepartments(), admins, AdminAccount{Username: "admin", Password: "admin123"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("existing admin must not be an error: %v", err)
	}
}

func TestCreateDefaultDataCollectsErrors(t *testing.T) {
	deps := newMemoryDepartments()
	deps.failOn = "Computer Science"
	admins := &memoryAdmins{err: errors.New("db down")}

	err := CreateDefaultData(context.Background(), deps, admins, AdminAccount{Username: "admin", Password: "admin123"}, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if _, ok := deps.departments["Civil Engineering"]; !ok {
		t.Fatalf("a failing department must not stop the others")
	}
}

func TestCreateDefaultDataSkipsUnconfiguredAdmin(t *testing.T) {
	admins := &memoryAdmins{}

	if err := CreateDefaultData(context.Background(), newMemoryDepartments(), admins, AdminAccount{}, zerolog.Nop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(admins.created) != 0 {
		t.Fatalf("no admin should be created")
	}
}
