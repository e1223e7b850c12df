package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/pkg/apperrors"
	"github.com/yigit/examportal/internal/pkg/auth"
)

type fakeFormRepo struct {
	mu     sync.Mutex
	forms  map[string]*models.RegistrationForm
	nextID int
	err    error
}

func newFakeFormRepo(forms ...*models.RegistrationForm) *fakeFormRepo {
	r := &fakeFormRepo{forms: map[string]*models.RegistrationForm{}}
	for _, f := range forms {
		r.forms[f.ID] = f
	}
	return r
}

func (r *fakeFormRepo) Create(_ context.Context, form *models.RegistrationForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	if form.ID == "" {
		form.ID = fmt.Sprintf("form-%d", r.nextID)
	}
	form.CreatedAt = time.Now()
	form.UpdatedAt = form.CreatedAt
	cp := *form
	r.forms[form.ID] = &cp
	return nil
}

func (r *fakeFormRepo) GetByID(_ context.Context, id string) (*models.RegistrationForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	f, ok := r.forms[id]
	if !ok {
		return nil, apperrors.ErrFormNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFormRepo) List(_ context.Context, filter models.RegistrationFormFilter) ([]*models.RegistrationForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.RegistrationForm, 0)
	for _, f := range r.forms {
		if filter.IsOpen != nil && f.IsOpen != *filter.IsOpen {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFormRepo) Update(_ context.Context, form *models.RegistrationForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[form.ID]; !ok {
		return apperrors.ErrFormNotFound
	}
	cp := *form
	r.forms[form.ID] = &cp
	return nil
}

func (r *fakeFormRepo) SetOpen(_ context.Context, id string, isOpen bool) (*models.RegistrationForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[id]
	if !ok {
		return nil, apperrors.ErrFormNotFound
	}
	f.IsOpen = isOpen
	cp := *f
	return &cp, nil
}

// fakeRegistrationRepo keeps the (student, form) pair unique like the database constraint
type fakeRegistrationRepo struct {
	mu          sync.Mutex
	rows        map[string]*models.Registration
	order       []string
	submissions map[string]string
	nextID      int

	createErr  error
	existsHook func()
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		rows:        map[string]*models.Registration{},
		submissions: map[string]string{},
	}
}

func submissionKey(studentID, formID string) string {
	return studentID + "|" + formID
}

func (r *fakeRegistrationRepo) SubmissionExists(_ context.Context, studentID, formID string) (bool, error) {
	if r.existsHook != nil {
		r.existsHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.submissions[submissionKey(studentID, formID)]
	return ok, nil
}

func (r *fakeRegistrationRepo) CreateSubmission(_ context.Context, submission *models.RegistrationSubmission, rows []*models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	key := submissionKey(submission.StudentID, submission.RegistrationFormID)
	if _, ok := r.submissions[key]; ok {
		return apperrors.ErrAlreadyRegistered
	}

	r.nextID++
	submission.ID = fmt.Sprintf("sub-%d", r.nextID)
	submission.CreatedAt = time.Now()
	r.submissions[key] = submission.ID

	for _, row := range rows {
		r.nextID++
		row.ID = fmt.Sprintf("reg-%d", r.nextID)
		row.SubmissionID = submission.ID
		row.CreatedAt = submission.CreatedAt
		row.UpdatedAt = submission.CreatedAt
		cp := *row
		r.rows[row.ID] = &cp
		r.order = append(r.order, row.ID)
	}
	return nil
}

func (r *fakeRegistrationRepo) GetByID(_ context.Context, id string) (*models.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrRegistrationNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *fakeRegistrationRepo) ApplyDecision(_ context.Context, id string, d models.Decision) (*models.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrRegistrationNotFound
	}

	at := d.At
	actor := d.Actor
	switch d.Status {
	case models.ApprovalApproved:
		row.ApprovalStatus = models.ApprovalApproved
		row.ApprovedBy, row.ApprovedAt = &actor, &at
		row.RejectionReason, row.RejectedBy, row.RejectedAt = nil, nil, nil
	case models.ApprovalRejected:
		row.ApprovalStatus = models.ApprovalRejected
		row.RejectionReason = d.RejectionReason
		row.RejectedBy, row.RejectedAt = &actor, &at
		row.ApprovedBy, row.ApprovedAt = nil, nil
	default:
		return nil, errors.New("unsupported decision")
	}
	row.UpdatedAt = at
	cp := *row
	return &cp, nil
}

func (r *fakeRegistrationRepo) matching(filter models.RegistrationFilter) []*models.Registration {
	var out []*models.Registration
	for i := len(r.order) - 1; i >= 0; i-- {
		row := r.rows[r.order[i]]
		if filter.Status != "" && row.ApprovalStatus != filter.Status {
			continue
		}
		if filter.FormID != "" && row.RegistrationFormID != filter.FormID {
			continue
		}
		if filter.StudentID != "" && row.StudentID != filter.StudentID {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (r *fakeRegistrationRepo) List(_ context.Context, filter models.RegistrationFilter, limit, offset int) ([]*models.RegistrationDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.matching(filter)
	if limit > 0 {
		if offset > len(rows) {
			offset = len(rows)
		}
		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		rows = rows[offset:end]
	}
	out := make([]*models.RegistrationDetail, 0, len(rows))
	for _, row := range rows {
		out = append(out, &models.RegistrationDetail{Registration: *row})
	}
	return out, nil
}

func (r *fakeRegistrationRepo) Count(_ context.Context, filter models.RegistrationFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *fakeRegistrationRepo) ListByStudent(_ context.Context, studentID string) ([]*models.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matching(models.RegistrationFilter{StudentID: studentID}), nil
}

func (r *fakeRegistrationRepo) Stats(_ context.Context) (*models.RegistrationStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s models.RegistrationStats
	for _, row := range r.rows {
		s.Total++
		switch row.ApprovalStatus {
		case models.ApprovalPending:
			s.Pending++
		case models.ApprovalApproved:
			s.Approved++
		case models.ApprovalRejected:
			s.Rejected++
		}
	}
	return &s, nil
}

func (r *fakeRegistrationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeAdminRepo struct {
	users map[string]*models.AdminUser
	err   error
}

func newFakeAdminRepo(users ...*models.AdminUser) *fakeAdminRepo {
	r := &fakeAdminRepo{users: map[string]*models.AdminUser{}}
	for _, u := range users {
		r.users[u.Username] = u
	}
	return r
}

func (r *fakeAdminRepo) Create(_ context.Context, user *models.AdminUser) error {
	if _, ok := r.users[user.Username]; ok {
		return apperrors.ErrUserExists
	}
	if user.ID == "" {
		user.ID = "admin-" + user.Username
	}
	r.users[user.Username] = user
	return nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id string) (*models.AdminUser, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("Admin user not found")
}

func (r *fakeAdminRepo) GetByUsername(_ context.Context, username string) (*models.AdminUser, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFoundError("Admin user not found")
}

func (r *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	for _, u := range r.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("Admin user not found")
}

func (r *fakeAdminRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

type fakeStudentRepo struct {
	students map[string]*models.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[string]*models.Student{}}
}

func (r *fakeStudentRepo) Upsert(_ context.Context, student *models.Student) error {
	if existing, ok := r.students[student.StudentID]; ok {
		student.ID = existing.ID
		student.CreatedAt = existing.CreatedAt
	} else {
		student.ID = "stu-" + student.StudentID
		student.CreatedAt = time.Now()
	}
	student.UpdatedAt = time.Now()
	cp := *student
	r.students[student.StudentID] = &cp
	return nil
}

func (r *fakeStudentRepo) GetByStudentID(_ context.Context, studentID string) (*models.Student, error) {
	s, ok := r.students[studentID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

type fakeMinter struct {
	minted []auth.SessionClaims
	err    error
}

func (m *fakeMinter) Mint(identity auth.SessionClaims) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.minted = append(m.minted, identity)
	return "token-for-" + identity.Username, nil
}

func (m *fakeMinter) TTL() time.Duration { return auth.DefaultSessionTTL }
