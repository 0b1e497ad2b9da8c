package review

import (
	"context"
	"time"

	"github.com/Wraptron/incubation-backend/src/api/apperr"
	"github.com/Wraptron/incubation-backend/src/api/notify"
	"github.com/Wraptron/incubation-backend/src/api/types"
)

const (
	// MaxReviewers caps invitations per application.
	MaxReviewers = 5
	// AcceptQuorum is how many acceptances move an application from
	// pending to under_review. Managers may invite up to MaxReviewers but
	// the workflow proceeds once any two accept.
	AcceptQuorum = 2
)

// Assignments mediates the invite -> respond -> expire lifecycle for
// (application, reviewer) pairs and propagates status changes to the parent
// application. Mutations return the notification events they produced; the
// caller hands those to the dispatcher, so a failed notification can never
// undo a committed write.
type Assignments struct {
	apps    ApplicationRepo
	users   UserRepo
	assigns AssignmentRepo
	policy  *Policy

	// Now is the clock; tests override it.
	Now func() time.Time
}

func NewAssignments(apps ApplicationRepo, users UserRepo, assigns AssignmentRepo, policy *Policy) *Assignments {
	return &Assignments{apps: apps, users: users, assigns: assigns, policy: policy, Now: time.Now}
}

// Invite creates a pending assignment for the reviewer. The application
// must still be pending, the reviewer must hold the reviewer role, the pair
// must be new, and the application must have room under the quota.
func (s *Assignments) Invite(ctx context.Context, applicationID, reviewerID, managerID string) (*types.ReviewerAssignment, []notify.Event, error) {
	if err := s.policy.RequireManager(ctx, managerID); err != nil {
		return nil, nil, err
	}

	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	if app.Status != types.StatusPending {
		return nil, nil, apperr.Newf(apperr.Conflict, "application is %s; reviewers can only be invited while it is pending", app.Status)
	}

	reviewer, err := s.users.Get(ctx, reviewerID)
	if err != nil {
		return nil, nil, err
	}
	if reviewer.Role != types.RoleReviewer {
		return nil, nil, apperr.Newf(apperr.InvalidInput, "user %s is not a reviewer", reviewerID)
	}

	count, err := s.assigns.CountForApplication(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	if count >= MaxReviewers {
		return nil, nil, apperr.Newf(apperr.Conflict, "application already has %d reviewers", MaxReviewers)
	}

	a := &types.ReviewerAssignment{
		ApplicationID: applicationID,
		ReviewerID:    reviewerID,
		InviteStatus:  types.InvitePending,
		InvitedAt:     s.Now(),
		AssignedBy:    managerID,
	}
	if err := s.assigns.Create(ctx, a); err != nil {
		return nil, nil, err
	}

	events := []notify.Event{{
		Kind:          notify.KindReviewerInvited,
		ApplicationID: applicationID,
		StartupName:   app.StartupName,
		ReviewerID:    reviewerID,
		ReviewerName:  reviewer.Name,
		Recipient:     reviewer.Email,
	}}
	return a, events, nil
}

// Respond records the reviewer's accept/decline decision. Only a pending
// assignment can be answered; accepted and rejected are terminal, so a
// repeated response reports not found instead of flipping the row. When the
// acceptance count first reaches the quorum the application moves to
// under_review; the conditional status update means later responses can
// never regress it.
func (s *Assignments) Respond(ctx context.Context, applicationID, reviewerID string, accept bool) (*types.ReviewerAssignment, []notify.Event, error) {
	a, err := s.assigns.Get(ctx, applicationID, reviewerID)
	if err != nil {
		return nil, nil, err
	}
	if a.InviteStatus != types.InvitePending {
		return nil, nil, apperr.New(apperr.NotFound, "no pending invite for this application")
	}

	now := s.Now()
	a.InviteStatus = types.InviteRejected
	if accept {
		a.InviteStatus = types.InviteAccepted
	}
	a.RespondedAt = &now
	if err := s.assigns.Update(ctx, a); err != nil {
		return nil, nil, err
	}

	if accept {
		accepted, err := s.assigns.CountAccepted(ctx, applicationID)
		if err != nil {
			return nil, nil, err
		}
		if accepted >= AcceptQuorum {
			if _, err := s.apps.SetStatus(ctx, applicationID, types.StatusUnderReview, types.StatusPending); err != nil {
				return nil, nil, err
			}
		}
	}

	return a, s.responseEvents(ctx, a, notify.KindInviteResponse, accept), nil
}

// Remove deletes an assignment at a manager's request; this is the only
// path that physically deletes assignment rows.
func (s *Assignments) Remove(ctx context.Context, applicationID, reviewerID, managerID string) error {
	if err := s.policy.RequireManager(ctx, managerID); err != nil {
		return err
	}
	deleted, err := s.assigns.Delete(ctx, applicationID, reviewerID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.New(apperr.NotFound, "no assignment for this reviewer")
	}
	return nil
}

// ListForApplication returns every assignment for the application.
func (s *Assignments) ListForApplication(ctx context.Context, applicationID string) ([]types.ReviewerAssignment, error) {
	if _, err := s.apps.Get(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.assigns.ListForApplication(ctx, applicationID)
}

// responseEvents builds the manager notification for a live response or an
// expiry. Lookups here are best-effort: a missing profile drops detail from
// the email, never fails the operation.
func (s *Assignments) responseEvents(ctx context.Context, a *types.ReviewerAssignment, kind string, accepted bool) []notify.Event {
	ev := notify.Event{
		Kind:          kind,
		ApplicationID: a.ApplicationID,
		ReviewerID:    a.ReviewerID,
		Accepted:      accepted,
	}
	if app, err := s.apps.Get(ctx, a.ApplicationID); err == nil {
		ev.StartupName = app.StartupName
	}
	if reviewer, err := s.users.Get(ctx, a.ReviewerID); err == nil {
		ev.ReviewerName = reviewer.Name
	}
	if manager, err := s.users.Get(ctx, a.AssignedBy); err == nil {
		ev.Recipient = manager.Email
	}
	return []notify.Event{ev}
}
