// Package data holds the storage adapters: MySQL-backed implementations of
// the review repository interfaces plus the connection constructors. GORM
// errors are translated to apperr categories here so the core never sees
// driver details.
package data

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Wraptron/incubation-backend/src/api/apperr"
	"github.com/Wraptron/incubation-backend/src/api/review"
	"github.com/Wraptron/incubation-backend/src/api/types"
)

// Repos bundles the MySQL repositories built from one connection.
type Repos struct {
	Applications review.ApplicationRepo
	Assignments  review.AssignmentRepo
	Evaluations  review.EvaluationRepo
	Users        review.UserRepo
}

func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Applications: &applicationRepo{db: db},
		Assignments:  &assignmentRepo{db: db},
		Evaluations:  &evaluationRepo{db: db},
		Users:        &userRepo{db: db},
	}
}

func translate(err error, notFoundDetail string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.New(apperr.NotFound, notFoundDetail)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.New(apperr.Conflict, "record already exists")
	default:
		return apperr.Wrap(apperr.Dependency, "storage error", err)
	}
}

type applicationRepo struct{ db *gorm.DB }

func (r *applicationRepo) Create(ctx context.Context, app *types.Application) error {
	return translate(r.db.WithContext(ctx).Create(app).Error, "")
}

func (r *applicationRepo) Get(ctx context.Context, id string) (*types.Application, error) {
	var app types.Application
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		return nil, translate(err, "application not found")
	}
	return &app, nil
}

func (r *applicationRepo) Update(ctx context.Context, app *types.Application) error {
	return translate(r.db.WithContext(ctx).Save(app).Error, "")
}

func (r *applicationRepo) SetStatus(ctx context.Context, id, status string, from ...string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&types.Application{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", status)
	if res.Error != nil {
		return false, translate(res.Error, "")
	}
	return res.RowsAffected > 0, nil
}

func (r *applicationRepo) List(ctx context.Context, f review.ApplicationFilter) ([]types.Application, int64, error) {
	q := r.db.WithContext(ctx).Model(&types.Application{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "")
	}

	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var apps []types.Application
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&apps).Error
	if err != nil {
		return nil, 0, translate(err, "")
	}
	return apps, total, nil
}

func (r *applicationRepo) FindDraftByTokenHash(ctx context.Context, hash string) (*types.Application, error) {
	var app types.Application
	err := r.db.WithContext(ctx).
		First(&app, "resume_token_hash = ? AND status = ?", hash, types.StatusDraft).Error
	if err != nil {
		return nil, translate(err, "no draft for this token")
	}
	return &app, nil
}

type assignmentRepo struct{ db *gorm.DB }

func (r *assignmentRepo) Create(ctx context.Context, a *types.ReviewerAssignment) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.New(apperr.Conflict, "reviewer already invited for this application")
	}
	return translate(err, "")
}

func (r *assignmentRepo) Get(ctx context.Context, applicationID, reviewerID string) (*types.ReviewerAssignment, error) {
	var a types.ReviewerAssignment
	err := r.db.WithContext(ctx).
		First(&a, "application_id = ? AND reviewer_id = ?", applicationID, reviewerID).Error
	if err != nil {
		return nil, translate(err, "no assignment for this reviewer")
	}
	return &a, nil
}

func (r *assignmentRepo) Update(ctx context.Context, a *types.ReviewerAssignment) error {
	return translate(r.db.WithContext(ctx).Save(a).Error, "")
}

func (r *assignmentRepo) Delete(ctx context.Context, applicationID, reviewerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("application_id = ? AND reviewer_id = ?", applicationID, reviewerID).
		Delete(&types.ReviewerAssignment{})
	if res.Error != nil {
		return false, translate(res.Error, "")
	}
	return res.RowsAffected > 0, nil
}

func (r *assignmentRepo) CountForApplication(ctx context.Context, applicationID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&types.ReviewerAssignment{}).
		Where("application_id = ?", applicationID).Count(&n).Error
	return n, translate(err, "")
}

func (r *assignmentRepo) CountAccepted(ctx context.Context, applicationID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&types.ReviewerAssignment{}).
		Where("application_id = ? AND invite_status = ?", applicationID, types.InviteAccepted).
		Count(&n).Error
	return n, translate(err, "")
}

func (r *assignmentRepo) ListForApplication(ctx context.Context, applicationID string) ([]types.ReviewerAssignment, error) {
	var out []types.ReviewerAssignment
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("invited_at ASC").
		Find(&out).Error
	return out, translate(err, "")
}

func (r *assignmentRepo) ExpirePending(ctx context.Context, cutoff, respondedAt time.Time) ([]types.ReviewerAssignment, error) {
	var candidates []types.ReviewerAssignment
	err := r.db.WithContext(ctx).
		Where("invite_status = ? AND invited_at < ?", types.InvitePending, cutoff).
		Find(&candidates).Error
	if err != nil {
		return nil, translate(err, "")
	}

	var expired []types.ReviewerAssignment
	for i := range candidates {
		// Conditional per-row update: a response that landed between the
		// select and here wins and the row is skipped.
		res := r.db.WithContext(ctx).Model(&types.ReviewerAssignment{}).
			Where("id = ? AND invite_status = ?", candidates[i].ID, types.InvitePending).
			Updates(map[string]any{
				"invite_status": types.InviteRejected,
				"responded_at":  respondedAt,
			})
		if res.Error != nil {
			return expired, translate(res.Error, "")
		}
		if res.RowsAffected > 0 {
			candidates[i].InviteStatus = types.InviteRejected
			t := respondedAt
			candidates[i].RespondedAt = &t
			expired = append(expired, candidates[i])
		}
	}
	return expired, nil
}

type evaluationRepo struct{ db *gorm.DB }

func (r *evaluationRepo) Create(ctx context.Context, e *types.Evaluation) error {
	err := r.db.WithContext(ctx).Create(e).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.New(apperr.Conflict, "evaluation already exists for this reviewer")
	}
	return translate(err, "")
}

func (r *evaluationRepo) Update(ctx context.Context, e *types.Evaluation) error {
	return translate(r.db.WithContext(ctx).Save(e).Error, "")
}

func (r *evaluationRepo) Get(ctx context.Context, applicationID, reviewerID string) (*types.Evaluation, error) {
	var e types.Evaluation
	err := r.db.WithContext(ctx).
		First(&e, "application_id = ? AND reviewer_id = ?", applicationID, reviewerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "")
	}
	return &e, nil
}

func (r *evaluationRepo) ListForApplication(ctx context.Context, applicationID string) ([]review.EvaluationWithReviewer, error) {
	var out []review.EvaluationWithReviewer
	err := r.db.WithContext(ctx).Model(&types.Evaluation{}).
		Select("evaluations.*, user_profiles.name AS reviewer_name").
		Joins("LEFT JOIN user_profiles ON user_profiles.id = evaluations.reviewer_id").
		Where("evaluations.application_id = ?", applicationID).
		Order("evaluations.created_at ASC").
		Scan(&out).Error
	return out, translate(err, "")
}

func (r *evaluationRepo) CountForApplication(ctx context.Context, applicationID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&types.Evaluation{}).
		Where("application_id = ?", applicationID).
		Distinct("reviewer_id").
		Count(&n).Error
	return n, translate(err, "")
}

type userRepo struct{ db *gorm.DB }

func (r *userRepo) Create(ctx context.Context, u *types.UserProfile) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.New(apperr.Conflict, "a user with this email already exists")
	}
	return translate(err, "")
}

func (r *userRepo) Get(ctx context.Context, id string) (*types.UserProfile, error) {
	var u types.UserProfile
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user not found")
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*types.UserProfile, error) {
	var u types.UserProfile
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err, "user not found")
	}
	return &u, nil
}

func (r *userRepo) Update(ctx context.Context, u *types.UserProfile) error {
	return translate(r.db.WithContext(ctx).Save(u).Error, "")
}

func (r *userRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&types.UserProfile{}, "id = ?", id)
	if res.Error != nil {
		return false, translate(res.Error, "")
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepo) List(ctx context.Context) ([]types.UserProfile, error) {
	var out []types.UserProfile
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, translate(err, "")
}
