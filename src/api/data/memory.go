package data

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Wraptron/incubation-backend/src/api/apperr"
	"github.com/Wraptron/incubation-backend/src/api/review"
	"github.com/Wraptron/incubation-backend/src/api/types"
)

// NewMemoryRepos returns repository implementations backed by in-process
// maps, honoring the same uniqueness and error contracts as the MySQL ones.
// The review core is exercised against these in tests.
func NewMemoryRepos() Repos {
	return Repos{
		Applications: &memApplications{rows: map[string]types.Application{}},
		Assignments:  &memAssignments{},
		Evaluations:  &memEvaluations{},
		Users:        &memUsers{rows: map[string]types.UserProfile{}},
	}
}

type memApplications struct {
	mu   sync.Mutex
	rows map[string]types.Application
	seq  int
}

func (m *memApplications) Create(_ context.Context, app *types.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[app.ID]; ok {
		return apperr.New(apperr.Conflict, "record already exists")
	}
	if app.CreatedAt.IsZero() {
		m.seq++
		app.CreatedAt = time.Unix(int64(m.seq), 0)
	}
	m.rows[app.ID] = *app
	return nil
}

func (m *memApplications) Get(_ context.Context, id string) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.rows[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "application not found")
	}
	return &app, nil
}

func (m *memApplications) Update(_ context.Context, app *types.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[app.ID]; !ok {
		return apperr.New(apperr.NotFound, "application not found")
	}
	m.rows[app.ID] = *app
	return nil
}

func (m *memApplications) SetStatus(_ context.Context, id, status string, from ...string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if app.Status == f {
			app.Status = status
			m.rows[id] = app
			return true, nil
		}
	}
	return false, nil
}

func (m *memApplications) List(_ context.Context, f review.ApplicationFilter) ([]types.Application, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []types.Application
	for _, app := range m.rows {
		if f.Status != "" && app.Status != f.Status {
			continue
		}
		all = append(all, app)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	start := (page - 1) * perPage
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memApplications) FindDraftByTokenHash(_ context.Context, hash string) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, app := range m.rows {
		if app.Status == types.StatusDraft && app.ResumeTokenHash != nil && *app.ResumeTokenHash == hash {
			out := app
			return &out, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "no draft for this token")
}

type memAssignments struct {
	mu   sync.Mutex
	rows []types.ReviewerAssignment
	seq  uint64
}

func (m *memAssignments) Create(_ context.Context, a *types.ReviewerAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ApplicationID == a.ApplicationID && m.rows[i].ReviewerID == a.ReviewerID {
			return apperr.New(apperr.Conflict, "reviewer already invited for this application")
		}
	}
	m.seq++
	a.ID = m.seq
	m.rows = append(m.rows, *a)
	return nil
}

func (m *memAssignments) Get(_ context.Context, applicationID, reviewerID string) (*types.ReviewerAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ApplicationID == applicationID && m.rows[i].ReviewerID == reviewerID {
			out := m.rows[i]
			return &out, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "no assignment for this reviewer")
}

func (m *memAssignments) Update(_ context.Context, a *types.ReviewerAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == a.ID {
			m.rows[i] = *a
			return nil
		}
	}
	return apperr.New(apperr.NotFound, "no assignment for this reviewer")
}

func (m *memAssignments) Delete(_ context.Context, applicationID, reviewerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ApplicationID == applicationID && m.rows[i].ReviewerID == reviewerID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memAssignments) CountForApplication(_ context.Context, applicationID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.rows {
		if m.rows[i].ApplicationID == applicationID {
			n++
		}
	}
	return n, nil
}

func (m *memAssignments) CountAccepted(_ context.Context, applicationID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.rows {
		if m.rows[i].ApplicationID == applicationID && m.rows[i].InviteStatus == types.InviteAccepted {
			n++
		}
	}
	return n, nil
}

func (m *memAssignments) ListForApplication(_ context.Context, applicationID string) ([]types.ReviewerAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.ReviewerAssignment
	for i := range m.rows {
		if m.rows[i].ApplicationID == applicationID {
			out = append(out, m.rows[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvitedAt.Before(out[j].InvitedAt) })
	return out, nil
}

func (m *memAssignments) ExpirePending(_ context.Context, cutoff, respondedAt time.Time) ([]types.ReviewerAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []types.ReviewerAssignment
	for i := range m.rows {
		if m.rows[i].InviteStatus == types.InvitePending && m.rows[i].InvitedAt.Before(cutoff) {
			m.rows[i].InviteStatus = types.InviteRejected
			t := respondedAt
			m.rows[i].RespondedAt = &t
			expired = append(expired, m.rows[i])
		}
	}
	return expired, nil
}

type memEvaluations struct {
	mu   sync.Mutex
	rows []types.Evaluation
	seq  uint64
}

func (m *memEvaluations) Create(_ context.Context, e *types.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ApplicationID == e.ApplicationID && m.rows[i].ReviewerID == e.ReviewerID {
			return apperr.New(apperr.Conflict, "evaluation already exists for this reviewer")
		}
	}
	m.seq++
	e.ID = m.seq
	m.rows = append(m.rows, *e)
	return nil
}

func (m *memEvaluations) Update(_ context.Context, e *types.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == e.ID {
			m.rows[i] = *e
			return nil
		}
	}
	return apperr.New(apperr.NotFound, "evaluation not found")
}

func (m *memEvaluations) Get(_ context.Context, applicationID, reviewerID string) (*types.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ApplicationID == applicationID && m.rows[i].ReviewerID == reviewerID {
			out := m.rows[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memEvaluations) ListForApplication(_ context.Context, applicationID string) ([]review.EvaluationWithReviewer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []review.EvaluationWithReviewer
	for i := range m.rows {
		if m.rows[i].ApplicationID == applicationID {
			out = append(out, review.EvaluationWithReviewer{Evaluation: m.rows[i]})
		}
	}
	return out, nil
}

func (m *memEvaluations) CountForApplication(_ context.Context, applicationID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	for i := range m.rows {
		if m.rows[i].ApplicationID == applicationID {
			seen[m.rows[i].ReviewerID] = true
		}
	}
	return int64(len(seen)), nil
}

type memUsers struct {
	mu   sync.Mutex
	rows map[string]types.UserProfile
}

func (m *memUsers) Create(_ context.Context, u *types.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if strings.EqualFold(row.Email, u.Email) {
			return apperr.New(apperr.Conflict, "a user with this email already exists")
		}
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) Get(_ context.Context, id string) (*types.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*types.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (m *memUsers) Update(_ context.Context, u *types.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.ID]; !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *memUsers) List(_ context.Context) ([]types.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.UserProfile, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
