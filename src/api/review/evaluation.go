package review

import (
	"context"
	"errors"
	"time"

	"github.com/Wraptron/incubation-backend/src/api/apperr"
	"github.com/Wraptron/incubation-backend/src/api/types"
)

// Evaluations records one scored assessment per accepted reviewer and
// decides when an application's review cycle is complete.
type Evaluations struct {
	apps     ApplicationRepo
	assigns  AssignmentRepo
	evals    EvaluationRepo
	policy   *Policy
	sanitize func(string) string

	Now func() time.Time
}

func NewEvaluations(apps ApplicationRepo, assigns AssignmentRepo, evals EvaluationRepo, policy *Policy, sanitize func(string) string) *Evaluations {
	if sanitize == nil {
		sanitize = func(s string) string { return s }
	}
	return &Evaluations{apps: apps, assigns: assigns, evals: evals, policy: policy, sanitize: sanitize, Now: time.Now}
}

// SubmitOrUpdate upserts the reviewer's evaluation. Scores are validated
// before any write; the total is recomputed as the exact sum of the five
// stored scores. The reported bool is true when a new row was created.
// After the write, the completion check may move the application to
// evaluated.
func (s *Evaluations) SubmitOrUpdate(ctx context.Context, applicationID, reviewerID string, scores Scores, comments Comments) (*types.Evaluation, bool, error) {
	if err := scores.Validate(); err != nil {
		return nil, false, err
	}
	if err := s.policy.RequireAcceptedReviewer(ctx, applicationID, reviewerID); err != nil {
		return nil, false, err
	}

	existing, err := s.evals.Get(ctx, applicationID, reviewerID)
	if err != nil {
		return nil, false, err
	}

	created := existing == nil
	e := existing
	if created {
		e = &types.Evaluation{
			ApplicationID: applicationID,
			ReviewerID:    reviewerID,
			CreatedAt:     s.Now(),
		}
	}
	s.apply(e, scores, comments)

	if created {
		err = s.evals.Create(ctx, e)
		if errors.Is(err, apperr.New(apperr.Conflict, "")) {
			// Lost a create race; the unique pair index held. The caller
			// should retry, which will take the update path.
			return nil, false, apperr.New(apperr.Conflict, "evaluation already exists for this reviewer; retry to update it")
		}
	} else {
		err = s.evals.Update(ctx, e)
	}
	if err != nil {
		return nil, false, err
	}

	if err := s.checkCompletion(ctx, applicationID); err != nil {
		return nil, false, err
	}
	return e, created, nil
}

func (s *Evaluations) apply(e *types.Evaluation, scores Scores, comments Comments) {
	e.NeedScore = scores.Need
	e.InnovationScore = scores.Innovation
	e.MarketScore = scores.Market
	e.TeamScore = scores.Team
	e.ScalabilityScore = scores.Scalability
	e.TotalScore = scores.Total()

	e.NeedComment = s.sanitize(comments.Need)
	e.InnovationComment = s.sanitize(comments.Innovation)
	e.MarketComment = s.sanitize(comments.Market)
	e.TeamComment = s.sanitize(comments.Team)
	e.ScalabilityComment = s.sanitize(comments.Scalability)
	e.OverallComment = s.sanitize(comments.Overall)
	e.UpdatedAt = s.Now()
}

// checkCompletion marks the application evaluated once every accepted
// reviewer has submitted. Idempotent: the conditional status update is a
// no-op when the application already left under_review.
func (s *Evaluations) checkCompletion(ctx context.Context, applicationID string) error {
	accepted, err := s.assigns.CountAccepted(ctx, applicationID)
	if err != nil {
		return err
	}
	if accepted == 0 {
		return nil
	}
	submitted, err := s.evals.CountForApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if submitted < accepted {
		return nil
	}
	_, err = s.apps.SetStatus(ctx, applicationID, types.StatusEvaluated,
		types.StatusPending, types.StatusUnderReview)
	return err
}

// ListForApplication is the manager view: all evaluations with reviewer
// display names.
func (s *Evaluations) ListForApplication(ctx context.Context, applicationID string) ([]EvaluationWithReviewer, error) {
	if _, err := s.apps.Get(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.evals.ListForApplication(ctx, applicationID)
}

// GetOwn returns the reviewer's evaluation, or nil (not an error) when none
// has been submitted yet.
func (s *Evaluations) GetOwn(ctx context.Context, applicationID, reviewerID string) (*types.Evaluation, error) {
	return s.evals.Get(ctx, applicationID, reviewerID)
}
