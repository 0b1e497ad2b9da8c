package review

import (
	"context"

	"github.com/Wraptron/incubation-backend/src/api/apperr"
	"github.com/Wraptron/incubation-backend/src/api/types"
)

// Policy answers the capability questions asked before each mutating
// operation, so role checks live in one place instead of inside handler
// bodies.
type Policy struct {
	users   UserRepo
	assigns AssignmentRepo
}

func NewPolicy(users UserRepo, assigns AssignmentRepo) *Policy {
	return &Policy{users: users, assigns: assigns}
}

// RequireManager verifies the caller exists and holds the manager role.
func (p *Policy) RequireManager(ctx context.Context, userID string) error {
	u, err := p.users.Get(ctx, userID)
	if err != nil {
		if apperr.CategoryOf(err) == apperr.NotFound {
			return apperr.New(apperr.Forbidden, "manager role required")
		}
		return err
	}
	if u.Role != types.RoleManager {
		return apperr.New(apperr.Forbidden, "manager role required")
	}
	return nil
}

// RequireAcceptedReviewer verifies the reviewer holds an accepted
// assignment for the application. A pending or rejected assignment is as
// forbidden as none at all.
func (p *Policy) RequireAcceptedReviewer(ctx context.Context, applicationID, reviewerID string) error {
	a, err := p.assigns.Get(ctx, applicationID, reviewerID)
	if err != nil {
		if apperr.CategoryOf(err) == apperr.NotFound {
			return apperr.New(apperr.Forbidden, "no accepted review assignment for this application")
		}
		return err
	}
	if a.InviteStatus != types.InviteAccepted {
		return apperr.New(apperr.Forbidden, "no accepted review assignment for this application")
	}
	return nil
}
