package review_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Wraptron/incubation-backend/src/api/data"
	"github.com/Wraptron/incubation-backend/src/api/notify"
	"github.com/Wraptron/incubation-backend/src/api/review"
	"github.com/Wraptron/incubation-backend/src/api/types"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// capturePublisher records events instead of touching redis.
type capturePublisher struct {
	events []notify.Event
}

func (c *capturePublisher) Publish(_ context.Context, evs ...notify.Event) {
	c.events = append(c.events, evs...)
}

// env wires the review services over in-memory repositories with a
// controllable clock.
type env struct {
	repos       data.Repos
	assignments *review.Assignments
	evaluations *review.Evaluations
	intake      *review.Intake
	sweeper     *review.Sweeper
	published   *capturePublisher
	now         time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{repos: data.NewMemoryRepos(), now: baseTime}
	clock := func() time.Time { return e.now }

	policy := review.NewPolicy(e.repos.Users, e.repos.Assignments)

	e.assignments = review.NewAssignments(e.repos.Applications, e.repos.Users, e.repos.Assignments, policy)
	e.assignments.Now = clock

	e.evaluations = review.NewEvaluations(e.repos.Applications, e.repos.Assignments, e.repos.Evaluations, policy, nil)
	e.evaluations.Now = clock

	e.intake = review.NewIntake(e.repos.Applications, nil, 30, "http://localhost:3000")
	e.intake.Now = clock

	e.published = &capturePublisher{}
	e.sweeper = review.NewSweeper(e.assignments, e.repos.Assignments, e.published, 2)
	e.sweeper.Now = clock

	return e
}

func (e *env) advance(d time.Duration) { e.now = e.now.Add(d) }

func (e *env) seedUser(t *testing.T, name, email, role string) *types.UserProfile {
	t.Helper()
	u := &types.UserProfile{ID: uuid.NewString(), Name: name, Email: email, Role: role}
	require.NoError(t, e.repos.Users.Create(context.Background(), u))
	return u
}

func (e *env) seedManager(t *testing.T) *types.UserProfile {
	return e.seedUser(t, "Maya Manager", "maya@incubator.test", types.RoleManager)
}

func (e *env) seedReviewer(t *testing.T, email string) *types.UserProfile {
	return e.seedUser(t, "Rey Reviewer", email, types.RoleReviewer)
}

func (e *env) seedPendingApp(t *testing.T) *types.Application {
	t.Helper()
	now := e.now
	app := &types.Application{
		ID:           uuid.NewString(),
		FounderName:  "Fran Founder",
		FounderEmail: "fran@startup.test",
		StartupName:  "Acme Robotics",
		Status:       types.StatusPending,
		SubmittedAt:  &now,
		TeamMembers:  "[]",
	}
	require.NoError(t, e.repos.Applications.Create(context.Background(), app))
	return app
}

func (e *env) appStatus(t *testing.T, id string) string {
	t.Helper()
	app, err := e.repos.Applications.Get(context.Background(), id)
	require.NoError(t, err)
	return app.Status
}

// validForm returns a submission that passes the full checklist.
func validForm() *review.ApplicationForm {
	return &review.ApplicationForm{
		FounderName:  "Fran Founder",
		FounderEmail: "fran@startup.test",
		FounderPhone: "+31 6 1234 5678",
		StartupName:  "Acme Robotics",
		Description:  "Autonomous warehouse robots.",
		Problem:      "Warehouse picking is slow and error prone.",
		Solution:     "Robots that pick and pack around the clock.",
		TargetMarket: "Mid-size e-commerce fulfilment centers.",
		RevenueModel: "Hardware lease plus per-pick fee.",
		Competition:  "Manual labor, legacy conveyor systems.",
		TeamMembers: review.TeamMemberList{
			{Name: "Fran Founder", Role: "CEO", Email: "fran@startup.test"},
		},
		Incorporated: true,
	}
}

func validScores() review.Scores {
	return review.Scores{Need: 8, Innovation: 7.5, Market: 6.25, Team: 9, Scalability: 5.5}
}
