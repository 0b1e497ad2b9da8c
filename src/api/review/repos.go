// Package review holds the application-review core: the reviewer invitation
// state machine, evaluation aggregation and the intake/draft service. All
// durable state is reached through the repository interfaces below so the
// logic runs unchanged against MySQL or the in-memory store used in tests.
package review

import (
	"context"
	"time"

	"github.com/Wraptron/incubation-backend/src/api/types"
)

// ApplicationFilter narrows List results.
type ApplicationFilter struct {
	Status  string
	Page    int
	PerPage int
}

type ApplicationRepo interface {
	Create(ctx context.Context, app *types.Application) error
	Get(ctx context.Context, id string) (*types.Application, error)
	Update(ctx context.Context, app *types.Application) error
	// SetStatus transitions id to status only while its current status is
	// one of from; reports whether a row changed.
	SetStatus(ctx context.Context, id, status string, from ...string) (bool, error)
	List(ctx context.Context, f ApplicationFilter) ([]types.Application, int64, error)
	// FindDraftByTokenHash matches only rows still in draft status.
	FindDraftByTokenHash(ctx context.Context, hash string) (*types.Application, error)
}

type AssignmentRepo interface {
	Create(ctx context.Context, a *types.ReviewerAssignment) error
	Get(ctx context.Context, applicationID, reviewerID string) (*types.ReviewerAssignment, error)
	Update(ctx context.Context, a *types.ReviewerAssignment) error
	Delete(ctx context.Context, applicationID, reviewerID string) (bool, error)
	CountForApplication(ctx context.Context, applicationID string) (int64, error)
	CountAccepted(ctx context.Context, applicationID string) (int64, error)
	ListForApplication(ctx context.Context, applicationID string) ([]types.ReviewerAssignment, error)
	// ExpirePending transitions every assignment still pending with
	// invited_at before cutoff to rejected, stamping respondedAt. Each row
	// is an independent conditional update, so a concurrent response wins.
	ExpirePending(ctx context.Context, cutoff, respondedAt time.Time) ([]types.ReviewerAssignment, error)
}

// EvaluationWithReviewer pairs an evaluation with the submitting reviewer's
// display name for the manager view.
type EvaluationWithReviewer struct {
	types.Evaluation
	ReviewerName string `json:"reviewerName"`
}

type EvaluationRepo interface {
	Create(ctx context.Context, e *types.Evaluation) error
	Update(ctx context.Context, e *types.Evaluation) error
	// Get returns (nil, nil) when no evaluation exists for the pair.
	Get(ctx context.Context, applicationID, reviewerID string) (*types.Evaluation, error)
	ListForApplication(ctx context.Context, applicationID string) ([]EvaluationWithReviewer, error)
	CountForApplication(ctx context.Context, applicationID string) (int64, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *types.UserProfile) error
	Get(ctx context.Context, id string) (*types.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*types.UserProfile, error)
	Update(ctx context.Context, u *types.UserProfile) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]types.UserProfile, error)
}
