package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/pkg/apperrors"
)

const validReason = "I was hospitalised during the exam week"

func newRegistrationFixture(t *testing.T, forms ...*models.RegistrationForm) (*RegistrationService, *fakeRegistrationRepo) {
	t.Helper()
	if len(forms) == 0 {
		forms = []*models.RegistrationForm{
			{ID: "open-form", FormName: "Spring Special Exams", FormType: models.FormTypeSpecialExam, IsOpen: true},
			{ID: "closed-form", FormName: "Autumn Special Exams", FormType: models.FormTypeSpecialExam, IsOpen: false},
		}
	}
	regRepo := newFakeRegistrationRepo()
	svc := NewRegistrationService(newFakeFormRepo(forms...), regRepo, zerolog.Nop())
	return svc, regRepo
}

func allMidtermInput(formID, studentID string) CreateRegistrationInput {
	return CreateRegistrationInput{
		RegistrationFormID: formID,
		StudentID:          studentID,
		ExamScope:          "all-midterm",
		Reason:             validReason,
	}
}

var badURL = "not a url"

func TestCreateRegistrationClosedFormAlwaysForbidden(t *testing.T) {
	svc, regRepo := newRegistrationFixture(t)

	tests := []struct {
		name  string
		input CreateRegistrationInput
	}{
		{name: "valid input", input: allMidtermInput("closed-form", "S-100")},
		{name: "short reason", input: CreateRegistrationInput{RegistrationFormID: "closed-form", StudentID: "S-100", ExamScope: "all-final", Reason: "sick"}},
		{name: "unknown scope", input: CreateRegistrationInput{RegistrationFormID: "closed-form", StudentID: "S-100", ExamScope: "everything", Reason: validReason}},
		{name: "specific without courses", input: CreateRegistrationInput{RegistrationFormID: "closed-form", StudentID: "S-100", ExamScope: "specific", Reason: validReason}},
		{name: "missing student id", input: CreateRegistrationInput{RegistrationFormID: "closed-form", ExamScope: "all-final", Reason: validReason}},
		{name: "bad document url", input: CreateRegistrationInput{RegistrationFormID: "closed-form", StudentID: "S-100", ExamScope: "all-final", Reason: validReason, DocumentURL: &badURL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRegistration(context.Background(), tt.input)
			if !errors.Is(err, apperrors.ErrForbidden) {
				t.Fatalf("expected Forbidden, got %v", err)
			}
			if got := apperrors.Message(err, ""); got != "Registration is currently closed" {
				t.Fatalf("unexpected message %q", got)
			}
		})
	}
	if regRepo.count() != 0 {
		t.Fatalf("closed form must not persist rows, got %d", regRepo.count())
	}
}

func TestCreateRegistrationFormNotFound(t *testing.T) {
	svc, _ := newRegistrationFixture(t)

	for _, formID := range []string{"missing", ""} {
		_, err := svc.CreateRegistration(context.Background(), allMidtermInput(formID, "S-100"))
		if !errors.Is(err, apperrors.ErrNotFound) {
			t.Fatalf("form %q: expected NotFound, got %v", formID, err)
		}
	}
}

func TestCreateRegistrationDuplicateConflict(t *testing.T) {
	svc, regRepo := newRegistrationFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateRegistration(ctx, allMidtermInput("open-form", "S-100")); err != nil {
		t.Fatalf("first submission: %v", err)
	}

	second := CreateRegistrationInput{
		RegistrationFormID: "open-form",
		StudentID:          "S-100",
		ExamScope:          "specific",
		Courses:            []CourseInput{{Name: "Compilers", ExamType: "Final"}},
		Reason:             "a completely different explanation",
	}
	_, err := svc.CreateRegistration(ctx, second)
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}

	// duplicate is reported before reason validation
	second.Reason = "short"
	if _, err := svc.CreateRegistration(ctx, second); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected Conflict before reason check, got %v", err)
	}

	if regRepo.count() != 1 {
		t.Fatalf("expected only the first row, got %d", regRepo.count())
	}

	// another student on the same form is unaffected
	if _, err := svc.CreateRegistration(ctx, allMidtermInput("open-form", "S-200")); err != nil {
		t.Fatalf("other student: %v", err)
	}
}

func TestCreateRegistrationSpecificFanOut(t *testing.T) {
	svc, _ := newRegistrationFixture(t)

	rows, err := svc.CreateRegistration(context.Background(), CreateRegistrationInput{
		RegistrationFormID: "open-form",
		StudentID:          "S-100",
		ExamScope:          "specific",
		Courses: []CourseInput{
			{Name: "Algorithms", ExamType: "Midterm"},
			{Name: "  ", ExamType: "Final"},
			{Name: "Databases", ExamType: "Final"},
		},
		Reason: validReason,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	want := []struct {
		course   string
		examType models.ExamType
	}{
		{"Algorithms", models.ExamTypeMidterm},
		{"Databases", models.ExamTypeFinal},
	}
	for i, row := range rows {
		if row.CourseName == nil || *row.CourseName != want[i].course {
			t.Errorf("row %d: course = %v, want %s", i, row.CourseName, want[i].course)
		}
		if row.ExamType == nil || *row.ExamType != want[i].examType {
			t.Errorf("row %d: exam type = %v, want %s", i, row.ExamType, want[i].examType)
		}
		if row.RegistrationFormID != "open-form" || row.StudentID != "S-100" || row.Reason != validReason {
			t.Errorf("row %d: shared fields differ: %+v", i, row)
		}
		if row.ApprovalStatus != models.ApprovalPending || row.ExamScope != models.ExamScopeSpecific {
			t.Errorf("row %d: status=%s scope=%s", i, row.ApprovalStatus, row.ExamScope)
		}
		if row.SubmissionID == "" || row.SubmissionID != rows[0].SubmissionID {
			t.Errorf("row %d: rows must share one submission", i)
		}
	}
}

func TestCreateRegistrationWholeSittingScopes(t *testing.T) {
	tests := []struct {
		scope    string
		course   string
		examType models.ExamType
	}{
		{"all-midterm", models.CourseAllMidterms, models.ExamTypeMidterm},
		{"ALL_FINAL", models.CourseAllFinals, models.ExamTypeFinal},
	}

	for _, tt := range tests {
		t.Run(tt.scope, func(t *testing.T) {
			svc, _ := newRegistrationFixture(t)
			rows, err := svc.CreateRegistration(context.Background(), CreateRegistrationInput{
				RegistrationFormID: "open-form",
				StudentID:          "S-100",
				ExamScope:          tt.scope,
				Courses:            []CourseInput{{Name: "Ignored", ExamType: "Final"}},
				Reason:             validReason,
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if len(rows) != 1 {
				t.Fatalf("expected exactly one row, got %d", len(rows))
			}
			if *rows[0].CourseName != tt.course || *rows[0].ExamType != tt.examType {
				t.Fatalf("got course=%s type=%s", *rows[0].CourseName, *rows[0].ExamType)
			}
		})
	}
}

func TestCreateRegistrationInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input CreateRegistrationInput
	}{
		{name: "reason too short", input: CreateRegistrationInput{ExamScope: "all-final", Reason: "  sick    "}},
		{name: "unknown scope", input: CreateRegistrationInput{ExamScope: "half", Reason: validReason}},
		{name: "specific with only blank courses", input: CreateRegistrationInput{ExamScope: "specific", Courses: []CourseInput{{Name: " ", ExamType: "Final"}}, Reason: validReason}},
		{name: "specific with bad exam type", input: CreateRegistrationInput{ExamScope: "specific", Courses: []CourseInput{{Name: "Networks", ExamType: "Quiz"}}, Reason: validReason}},
		{name: "blank student id", input: CreateRegistrationInput{StudentID: "   ", ExamScope: "all-final", Reason: validReason}},
		{name: "bad document url", input: CreateRegistrationInput{ExamScope: "all-final", Reason: validReason, DocumentURL: &badURL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, regRepo := newRegistrationFixture(t)
			tt.input.RegistrationFormID = "open-form"
			if tt.input.StudentID == "" {
				tt.input.StudentID = "S-100"
			}

			_, err := svc.CreateRegistration(context.Background(), tt.input)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Fatalf("expected InvalidInput, got %v", err)
			}
			if regRepo.count() != 0 {
				t.Fatalf("invalid input must not persist rows")
			}
		})
	}
}

func TestCreateRegistrationConcurrentDuplicates(t *testing.T) {
	svc, regRepo := newRegistrationFixture(t)

	// hold every caller at the existence check so all of them pass it
	const callers = 8
	var arrived sync.WaitGroup
	arrived.Add(callers)
	release := make(chan struct{})
	regRepo.existsHook = func() {
		arrived.Done()
		<-release
	}

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateRegistration(context.Background(), CreateRegistrationInput{
				RegistrationFormID: "open-form",
				StudentID:          "S-100",
				ExamScope:          "specific",
				Courses:            []CourseInput{{Name: "Algorithms", ExamType: "Midterm"}, {Name: "Databases", ExamType: "Final"}},
				Reason:             validReason,
			})
			errs <- err
		}()
	}

	arrived.Wait()
	close(release)
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one winner, got %d", succeeded)
	}
	if regRepo.count() != 2 {
		t.Fatalf("expected the winner's 2 rows only, got %d", regRepo.count())
	}
}

func TestCreateRegistrationPersistenceFailureIsInternal(t *testing.T) {
	svc, regRepo := newRegistrationFixture(t)
	regRepo.createErr = errors.New("connection reset by peer")

	_, err := svc.CreateRegistration(context.Background(), allMidtermInput("open-form", "S-100"))
	if !errors.Is(err, apperrors.ErrInternal) {
		t.Fatalf("expected Internal, got %v", err)
	}
	if msg := apperrors.Message(err, ""); msg != "Failed to create registration" {
		t.Fatalf("internal detail leaked into message: %q", msg)
	}
	if regRepo.count() != 0 {
		t.Fatalf("failed submission must leave no rows")
	}
}

func createPending(t *testing.T, svc *RegistrationService) *models.Registration {
	t.Helper()
	rows, err := svc.CreateRegistration(context.Background(), allMidtermInput("open-form", "S-100"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return rows[0]
}

func TestApprovePending(t *testing.T) {
	svc, _ := newRegistrationFixture(t)
	decidedAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return decidedAt })
	row := createPending(t, svc)

	got, err := svc.Approve(context.Background(), row.ID, "admin")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.ApprovalStatus != models.ApprovalApproved {
		t.Fatalf("status = %s", got.ApprovalStatus)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != "admin" || got.ApprovedAt == nil || !got.ApprovedAt.Equal(decidedAt) {
		t.Fatalf("approval audit not set: %+v", got)
	}
	if got.RejectedBy != nil || got.RejectedAt != nil || got.RejectionReason != nil {
		t.Fatalf("rejection fields must be null: %+v", got)
	}
}

func TestRejectPending(t *testing.T) {
	svc, _ := newRegistrationFixture(t)
	row := createPending(t, svc)

	got, err := svc.Reject(context.Background(), row.ID, "not enough evidence", "admin")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.ApprovalStatus != models.ApprovalRejected {
		t.Fatalf("status = %s", got.ApprovalStatus)
	}
	if got.RejectionReason == nil || *got.RejectionReason != "not enough evidence" {
		t.Fatalf("rejection reason = %v", got.RejectionReason)
	}
	if got.RejectedBy == nil || *got.RejectedBy != "admin" || got.RejectedAt == nil {
		t.Fatalf("rejection audit not set: %+v", got)
	}
	if got.ApprovedBy != nil || got.ApprovedAt != nil {
		t.Fatalf("approval fields must be null: %+v", got)
	}
}

func TestRedecisionOverwritesAudit(t *testing.T) {
	svc, _ := newRegistrationFixture(t)
	ctx := context.Background()
	row := createPending(t, svc)

	if _, err := svc.Reject(ctx, row.ID, "missing certificate", "registrar"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, err := svc.Approve(ctx, row.ID, "")
	if err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if got.ApprovalStatus != models.ApprovalApproved || *got.ApprovedBy != SystemActor {
		t.Fatalf("unexpected approval: %+v", got)
	}
	if got.RejectionReason != nil || got.RejectedBy != nil || got.RejectedAt != nil {
		t.Fatalf("re-approval must clear the rejection trail: %+v", got)
	}

	again, err := svc.Approve(ctx, row.ID, "dean")
	if err != nil || *again.ApprovedBy != "dean" {
		t.Fatalf("approving an approved row overwrites the actor, got %+v (%v)", again, err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	svc, _ := newRegistrationFixture(t)
	row := createPending(t, svc)

	_, err := svc.Reject(context.Background(), row.ID, "   ", "admin")
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}

	stored, _ := svc.GetRegistration(context.Background(), row.ID)
	if stored.ApprovalStatus != models.ApprovalPending {
		t.Fatalf("row must stay pending, got %s", stored.ApprovalStatus)
	}
}

func TestDecisionOnMissingRegistration(t *testing.T) {
	svc, _ := newRegistrationFixture(t)
	ctx := context.Background()

	if _, err := svc.Approve(ctx, "nope", "admin"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("approve: expected NotFound, got %v", err)
	}
	if _, err := svc.Reject(ctx, "nope", "reason given", "admin"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("reject: expected NotFound, got %v", err)
	}
}

func TestListRegistrationsAndStats(t *testing.T) {
	svc, _ := newRegistrationFixture(t)
	ctx := context.Background()

	first := createPending(t, svc)
	if _, err := svc.CreateRegistration(ctx, allMidtermInput("open-form", "S-200")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Approve(ctx, first.ID, "admin"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, total, err := svc.ListRegistrations(ctx, RegistrationQuery{Status: "pending"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(pending) != 1 || pending[0].StudentID != "S-200" {
		t.Fatalf("unexpected pending list: total=%d rows=%d", total, len(pending))
	}

	page, total, err := svc.ListRegistrations(ctx, RegistrationQuery{Limit: 1})
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if total != 2 || len(page) != 1 {
		t.Fatalf("expected 1 of 2 rows, got %d of %d", len(page), total)
	}

	if _, _, err := svc.ListRegistrations(ctx, RegistrationQuery{Status: "maybe"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected InvalidInput for unknown status, got %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 || stats.Pending != 1 || stats.Approved != 1 || stats.Rejected != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
