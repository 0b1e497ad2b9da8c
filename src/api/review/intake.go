package review

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Wraptron/incubation-backend/src/api/apperr"
	"github.com/Wraptron/incubation-backend/src/api/notify"
	"github.com/Wraptron/incubation-backend/src/api/types"
)

// Intake validates and persists submissions and resumable drafts. Drafts
// are resumed with a bearer token instead of account login: only a SHA-256
// hash of the token is stored, the raw token is returned to the caller
// exactly once.
type Intake struct {
	apps     ApplicationRepo
	sanitize func(string) string
	draftTTL time.Duration
	baseURL  string

	Now func() time.Time
}

func NewIntake(apps ApplicationRepo, sanitize func(string) string, draftTTLDays int, baseURL string) *Intake {
	if sanitize == nil {
		sanitize = func(s string) string { return s }
	}
	return &Intake{
		apps:     apps,
		sanitize: sanitize,
		draftTTL: time.Duration(draftTTLDays) * 24 * time.Hour,
		baseURL:  baseURL,
		Now:      time.Now,
	}
}

// Submit validates the full checklist and persists the application as
// pending.
func (s *Intake) Submit(ctx context.Context, form *ApplicationForm) (*types.Application, []notify.Event, error) {
	if err := validateForm(form); err != nil {
		return nil, nil, err
	}

	now := s.Now()
	app := &types.Application{
		ID:          uuid.NewString(),
		Status:      types.StatusPending,
		SubmittedAt: &now,
	}
	s.applyForm(app, form)
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, nil, err
	}

	events := []notify.Event{{
		Kind:          notify.KindApplicationReceived,
		ApplicationID: app.ID,
		StartupName:   app.StartupName,
		Recipient:     app.FounderEmail,
	}}
	return app, events, nil
}

// SaveDraft creates or overwrites a draft. Without an id it mints a new
// draft plus resume token; with one it fully replaces the tracked fields,
// but only when the raw resume token matches the stored hash — the id alone
// is not a credential. There is no merge logic. The returned token is empty
// on updates.
func (s *Intake) SaveDraft(ctx context.Context, applicationID, token string, form *ApplicationForm) (*types.Application, string, []notify.Event, error) {
	if applicationID != "" {
		app, err := s.ResumeDraft(ctx, token)
		if err != nil {
			return nil, "", nil, err
		}
		if app.ID != applicationID {
			return nil, "", nil, apperr.New(apperr.NotFound, "no draft with this id")
		}
		s.applyForm(app, form)
		if err := s.apps.Update(ctx, app); err != nil {
			return nil, "", nil, err
		}
		return app, "", nil, nil
	}

	token, hash, err := newResumeToken()
	if err != nil {
		return nil, "", nil, apperr.Wrap(apperr.Dependency, "could not generate resume token", err)
	}
	expiry := s.Now().Add(s.draftTTL)

	app := &types.Application{
		ID:                uuid.NewString(),
		Status:            types.StatusDraft,
		ResumeTokenHash:   &hash,
		ResumeTokenExpiry: &expiry,
	}
	s.applyForm(app, form)
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, "", nil, err
	}

	var events []notify.Event
	if app.FounderEmail != "" {
		events = append(events, notify.Event{
			Kind:          notify.KindDraftSaved,
			ApplicationID: app.ID,
			StartupName:   app.StartupName,
			Recipient:     app.FounderEmail,
			ResumeLink:    fmt.Sprintf("%s/apply/resume?token=%s", s.baseURL, token),
		})
	}
	return app, token, events, nil
}

// ResumeDraft exchanges a raw token for its draft. Unknown tokens are not
// found; a known token past its expiry is gone.
func (s *Intake) ResumeDraft(ctx context.Context, token string) (*types.Application, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperr.New(apperr.InvalidInput, "missing resume token")
	}
	hash := hashToken(token)
	app, err := s.apps.FindDraftByTokenHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if app.ResumeTokenExpiry == nil || app.ResumeTokenExpiry.Before(s.Now()) {
		return nil, apperr.New(apperr.Gone, "resume token has expired")
	}
	return app, nil
}

// Get fetches one application.
func (s *Intake) Get(ctx context.Context, id string) (*types.Application, error) {
	return s.apps.Get(ctx, id)
}

// List pages through applications, optionally filtered by status.
func (s *Intake) List(ctx context.Context, f ApplicationFilter) ([]types.Application, int64, error) {
	return s.apps.List(ctx, f)
}

func (s *Intake) applyForm(app *types.Application, form *ApplicationForm) {
	app.FounderName = s.sanitize(form.FounderName)
	app.FounderEmail = strings.TrimSpace(form.FounderEmail)
	app.FounderPhone = strings.TrimSpace(form.FounderPhone)
	app.StartupName = s.sanitize(form.StartupName)
	app.Description = s.sanitize(form.Description)
	app.Problem = s.sanitize(form.Problem)
	app.Solution = s.sanitize(form.Solution)
	app.TargetMarket = s.sanitize(form.TargetMarket)
	app.RevenueModel = s.sanitize(form.RevenueModel)
	app.Competition = s.sanitize(form.Competition)
	app.TeamMembers = types.EncodeTeamMembers(form.TeamMembers)
	app.Incorporated = bool(form.Incorporated)
}

func validateForm(form *ApplicationForm) error {
	for _, f := range requiredFields {
		if strings.TrimSpace(f.get(form)) == "" {
			return apperr.Newf(apperr.InvalidInput, "missing required field: %s", f.name)
		}
	}
	if len(form.TeamMembers) == 0 {
		return apperr.New(apperr.InvalidInput, "at least one team member is required")
	}
	return nil
}

// newResumeToken returns a 256-bit random token and its stored hash.
func newResumeToken() (token, hash string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(raw)
	return token, hashToken(token), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
