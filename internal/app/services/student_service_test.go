package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/pkg/apperrors"
)

func TestEnsureProfile(t *testing.T) {
	students := newFakeStudentRepo()
	svc := NewStudentService(students, newFakeRegistrationRepo(), zerolog.Nop())
	ctx := context.Background()

	req := dto.UpsertStudentRequest{
		StudentID:  "S-100",
		FullName:   "Ada Lovelace",
		Department: "computer-science",
		ClassID:    "class-1",
		Semester:   "4",
		Shift:      "fulltime",
	}
	first, err := svc.EnsureProfile(ctx, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Department != "Computer Science" || first.Shift != models.ShiftFullTime {
		t.Fatalf("unexpected profile: %+v", first)
	}

	req.FullName = "Ada King"
	req.Shift = "part-time"
	second, err := svc.EnsureProfile(ctx, req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if second.ID != first.ID || second.FullName != "Ada King" || second.Shift != models.ShiftPartTime {
		t.Fatalf("expected the same profile updated in place, got %+v", second)
	}
	if len(students.students) != 1 {
		t.Fatalf("expected one stored student, got %d", len(students.students))
	}
}

func TestEnsureProfileInvalid(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo(), newFakeRegistrationRepo(), zerolog.Nop())

	tests := []struct {
		name string
		req  dto.UpsertStudentRequest
	}{
		{name: "bad shift", req: dto.UpsertStudentRequest{StudentID: "S-1", FullName: "A", Department: "Civil Engineering", Semester: "1", Shift: "weekend"}},
		{name: "blank name", req: dto.UpsertStudentRequest{StudentID: "S-1", FullName: "  ", Department: "Civil Engineering", Semester: "1", Shift: "fulltime"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.EnsureProfile(context.Background(), tt.req); !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Fatalf("expected InvalidInput, got %v", err)
			}
		})
	}
}

func TestGetProfile(t *testing.T) {
	students := newFakeStudentRepo()
	regRepo := newFakeRegistrationRepo()
	forms := newFakeFormRepo(&models.RegistrationForm{ID: "open-form", FormName: "Special", IsOpen: true})
	registrations := NewRegistrationService(forms, regRepo, zerolog.Nop())
	svc := NewStudentService(students, regRepo, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.GetProfile(ctx, "S-100"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}

	if _, err := svc.EnsureProfile(ctx, dto.UpsertStudentRequest{
		StudentID: "S-100", FullName: "Ada", Department: "Computer Science", Semester: "2", Shift: "PARTTIME",
	}); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := registrations.CreateRegistration(ctx, allMidtermInput("open-form", "S-100")); err != nil {
		t.Fatalf("register: %v", err)
	}

	profile, err := svc.GetProfile(ctx, " S-100 ")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.StudentID != "S-100" || len(profile.Registrations) != 1 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}
