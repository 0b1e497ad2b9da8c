package webserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wraptron/incubation-backend/src/api/config"
	"github.com/Wraptron/incubation-backend/src/api/data"
	"github.com/Wraptron/incubation-backend/src/api/notify"
	"github.com/Wraptron/incubation-backend/src/api/review"
	"github.com/Wraptron/incubation-backend/src/api/types"
	"github.com/Wraptron/incubation-backend/src/api/webserver"
)

type testAPI struct {
	router *gin.Engine
	repos  data.Repos
}

func newTestAPI(t *testing.T) *testAPI {
	return newTestAPIWithSecret(t, "")
}

func newTestAPIWithSecret(t *testing.T, loginSecret string) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		JWTSecret:      "test-secret",
		LoginSecret:    loginSecret,
		BaseURL:        "http://localhost:3000",
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	repos := data.NewMemoryRepos()
	policy := review.NewPolicy(repos.Users, repos.Assignments)
	svc := webserver.Services{
		Intake:      review.NewIntake(repos.Applications, nil, 30, cfg.BaseURL),
		Assignments: review.NewAssignments(repos.Applications, repos.Users, repos.Assignments, policy),
		Evaluations: review.NewEvaluations(repos.Applications, repos.Assignments, repos.Evaluations, policy, nil),
		Users:       repos.Users,
		Events:      notify.NewPublisher(nil),
	}
	return &testAPI{router: webserver.New(cfg, svc), repos: repos}
}

func (a *testAPI) do(method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) seedUser(t *testing.T, email, role string) *types.UserProfile {
	t.Helper()
	u := &types.UserProfile{ID: uuid.NewString(), Name: "Test " + role, Email: email, Role: role}
	require.NoError(t, a.repos.Users.Create(context.Background(), u))
	return u
}

func (a *testAPI) login(t *testing.T, email string) string {
	t.Helper()
	w := a.do("POST", "/v1/auth/login", "", gin.H{"email": email}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func submissionBody() gin.H {
	return gin.H{
		"founderName":  "Fran Founder",
		"founderEmail": "fran@startup.test",
		"founderPhone": "+31 6 1234 5678",
		"startupName":  "Acme Robotics",
		"description":  "Autonomous warehouse robots.",
		"problem":      "Picking is slow.",
		"solution":     "Robots.",
		"targetMarket": "E-commerce fulfilment.",
		"revenueModel": "Lease plus per-pick fee.",
		"competition":  "Manual labor.",
		"teamMembers":  []gin.H{{"name": "Fran", "role": "CEO"}},
		"incorporated": "Yes",
	}
}

func TestSubmitApplicationEndpoint(t *testing.T) {
	api := newTestAPI(t)

	w := api.do("POST", "/v1/applications", "", submissionBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, types.StatusPending, resp.Status)

	got := api.do("GET", "/v1/applications/"+resp.ID, "", nil, nil)
	assert.Equal(t, http.StatusOK, got.Code)
}

func TestSubmitApplicationMissingField(t *testing.T) {
	api := newTestAPI(t)

	body := submissionBody()
	body["problem"] = ""
	w := api.do("POST", "/v1/applications", "", body, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_input", resp.Error)
	assert.Contains(t, resp.Detail, "problem")
}

func TestDraftEndpoints(t *testing.T) {
	api := newTestAPI(t)

	w := api.do("POST", "/v1/drafts", "", gin.H{"startupName": "Acme"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		ID          string `json:"id"`
		ResumeToken string `json:"resumeToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ResumeToken)

	resumed := api.do("GET", "/v1/drafts?token="+resp.ResumeToken, "", nil, nil)
	assert.Equal(t, http.StatusOK, resumed.Code)
	assert.NotContains(t, resumed.Body.String(), "resumeToken")

	missing := api.do("GET", "/v1/drafts?token=unknown", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestDraftUpdateRequiresResumeToken(t *testing.T) {
	api := newTestAPI(t)

	created := api.do("POST", "/v1/drafts", "", gin.H{"startupName": "Acme"}, nil)
	require.Equal(t, http.StatusOK, created.Code)
	var draft struct {
		ID          string `json:"id"`
		ResumeToken string `json:"resumeToken"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &draft))

	// Draft ids are enumerable through the public list, so the id alone
	// must not allow an overwrite.
	noToken := api.do("POST", "/v1/drafts", "",
		gin.H{"applicationId": draft.ID, "startupName": "Hijacked"}, nil)
	assert.Equal(t, http.StatusBadRequest, noToken.Code)

	wrongToken := api.do("POST", "/v1/drafts", "",
		gin.H{"applicationId": draft.ID, "resumeToken": "deadbeef", "startupName": "Hijacked"}, nil)
	assert.Equal(t, http.StatusNotFound, wrongToken.Code)

	kept := api.do("GET", "/v1/drafts?token="+draft.ResumeToken, "", nil, nil)
	require.Equal(t, http.StatusOK, kept.Code)
	assert.Contains(t, kept.Body.String(), `"startupName":"Acme"`)

	updated := api.do("POST", "/v1/drafts", "",
		gin.H{"applicationId": draft.ID, "resumeToken": draft.ResumeToken, "startupName": "Acme v2"}, nil)
	require.Equal(t, http.StatusOK, updated.Code, updated.Body.String())
	assert.NotContains(t, updated.Body.String(), "resumeToken")
}

func TestManagerRoutesRequireManagerToken(t *testing.T) {
	api := newTestAPI(t)
	reviewer := api.seedUser(t, "rey@incubator.test", types.RoleReviewer)

	w := api.do("POST", "/v1/applications/some-id/reviewers", "", gin.H{"reviewerId": reviewer.ID}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	revToken := api.login(t, reviewer.Email)
	w = api.do("POST", "/v1/applications/some-id/reviewers", revToken, gin.H{"reviewerId": reviewer.ID}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInviteAndRespondFlow(t *testing.T) {
	api := newTestAPI(t)
	manager := api.seedUser(t, "maya@incubator.test", types.RoleManager)
	reviewer := api.seedUser(t, "rey@incubator.test", types.RoleReviewer)

	created := api.do("POST", "/v1/applications", "", submissionBody(), nil)
	require.Equal(t, http.StatusCreated, created.Code)
	var app struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &app))

	mgrToken := api.login(t, manager.Email)
	invited := api.do("POST", fmt.Sprintf("/v1/applications/%s/reviewers", app.ID), mgrToken,
		gin.H{"reviewerId": reviewer.ID}, nil)
	require.Equal(t, http.StatusCreated, invited.Code, invited.Body.String())

	dup := api.do("POST", fmt.Sprintf("/v1/applications/%s/reviewers", app.ID), mgrToken,
		gin.H{"reviewerId": reviewer.ID}, nil)
	assert.Equal(t, http.StatusConflict, dup.Code)

	revToken := api.login(t, reviewer.Email)
	responded := api.do("POST", fmt.Sprintf("/v1/applications/%s/response", app.ID), revToken,
		gin.H{"accept": true}, nil)
	require.Equal(t, http.StatusOK, responded.Code, responded.Body.String())
	assert.Contains(t, responded.Body.String(), `"accepted":true`)
}

func TestEvaluationHeaderAuth(t *testing.T) {
	api := newTestAPI(t)

	scores := gin.H{"needScore": 8, "innovationScore": 7, "marketScore": 6, "teamScore": 9, "scalabilityScore": 5}

	w := api.do("POST", "/v1/applications/some-id/evaluations", "", scores, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do("POST", "/v1/applications/some-id/evaluations", "", scores,
		map[string]string{"X-Reviewer-Id": "not-a-uuid"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid UUID but no accepted assignment.
	w = api.do("POST", "/v1/applications/some-id/evaluations", "", scores,
		map[string]string{"X-Reviewer-Id": uuid.NewString()})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEvaluationRejectsOmittedScore(t *testing.T) {
	api := newTestAPI(t)

	// Four of five criteria; the missing one must not read as 0.00.
	partial := gin.H{"innovationScore": 7, "marketScore": 6, "teamScore": 9, "scalabilityScore": 5}
	w := api.do("POST", "/v1/applications/some-id/evaluations", "", partial,
		map[string]string{"X-Reviewer-Id": uuid.NewString()})

	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Need")
	assert.Contains(t, w.Body.String(), "required")
}

func TestEvaluationSubmitAndUpdate(t *testing.T) {
	api := newTestAPI(t)
	manager := api.seedUser(t, "maya@incubator.test", types.RoleManager)
	reviewer := api.seedUser(t, "rey@incubator.test", types.RoleReviewer)

	created := api.do("POST", "/v1/applications", "", submissionBody(), nil)
	require.Equal(t, http.StatusCreated, created.Code)
	var app struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &app))

	mgrToken := api.login(t, manager.Email)
	invited := api.do("POST", fmt.Sprintf("/v1/applications/%s/reviewers", app.ID), mgrToken,
		gin.H{"reviewerId": reviewer.ID}, nil)
	require.Equal(t, http.StatusCreated, invited.Code)

	revToken := api.login(t, reviewer.Email)
	responded := api.do("POST", fmt.Sprintf("/v1/applications/%s/response", app.ID), revToken,
		gin.H{"accept": true}, nil)
	require.Equal(t, http.StatusOK, responded.Code)

	hdr := map[string]string{"X-Reviewer-Id": reviewer.ID}
	scores := gin.H{"needScore": 8, "innovationScore": 7, "marketScore": 6, "teamScore": 9, "scalabilityScore": 5}

	first := api.do("POST", fmt.Sprintf("/v1/applications/%s/evaluations", app.ID), "", scores, hdr)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := api.do("PUT", fmt.Sprintf("/v1/applications/%s/evaluations", app.ID), "", scores, hdr)
	assert.Equal(t, http.StatusOK, second.Code)

	bad := gin.H{"needScore": 10.555, "innovationScore": 7, "marketScore": 6, "teamScore": 9, "scalabilityScore": 5}
	rejected := api.do("PUT", fmt.Sprintf("/v1/applications/%s/evaluations", app.ID), "", bad, hdr)
	assert.Equal(t, http.StatusBadRequest, rejected.Code)
	assert.Contains(t, rejected.Body.String(), "needScore")

	// An explicit zero is a legitimate score, distinct from an omitted one.
	zeroed := gin.H{"needScore": 0, "innovationScore": 7, "marketScore": 6, "teamScore": 9, "scalabilityScore": 5}
	accepted := api.do("PUT", fmt.Sprintf("/v1/applications/%s/evaluations", app.ID), "", zeroed, hdr)
	assert.Equal(t, http.StatusOK, accepted.Code, accepted.Body.String())

	mine := api.do("GET", fmt.Sprintf("/v1/applications/%s/evaluations/mine", app.ID), "", nil, hdr)
	assert.Equal(t, http.StatusOK, mine.Code)

	list := api.do("GET", fmt.Sprintf("/v1/applications/%s/evaluations", app.ID), mgrToken, nil, nil)
	assert.Equal(t, http.StatusOK, list.Code)
}

func TestUserCRUD(t *testing.T) {
	api := newTestAPI(t)
	manager := api.seedUser(t, "maya@incubator.test", types.RoleManager)
	mgrToken := api.login(t, manager.Email)

	created := api.do("POST", "/v1/users", mgrToken,
		gin.H{"name": "Rey", "email": "rey@incubator.test", "role": "reviewer"}, nil)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	var resp struct {
		User types.UserProfile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	dup := api.do("POST", "/v1/users", mgrToken,
		gin.H{"name": "Rey 2", "email": "rey@incubator.test", "role": "reviewer"}, nil)
	assert.Equal(t, http.StatusConflict, dup.Code)

	badRole := api.do("POST", "/v1/users", mgrToken,
		gin.H{"name": "X", "email": "x@incubator.test", "role": "superuser"}, nil)
	assert.Equal(t, http.StatusBadRequest, badRole.Code)

	updated := api.do("PUT", "/v1/users/"+resp.User.ID, mgrToken,
		gin.H{"name": "Rey Updated", "email": "rey@incubator.test", "role": "reviewer"}, nil)
	assert.Equal(t, http.StatusOK, updated.Code)

	deleted := api.do("DELETE", "/v1/users/"+resp.User.ID, mgrToken, nil, nil)
	assert.Equal(t, http.StatusOK, deleted.Code)

	missing := api.do("DELETE", "/v1/users/"+resp.User.ID, mgrToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	api := newTestAPI(t)
	w := api.do("POST", "/v1/auth/login", "", gin.H{"email": "nobody@incubator.test"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginSharedSecret(t *testing.T) {
	api := newTestAPIWithSecret(t, "front-door")
	manager := api.seedUser(t, "maya@incubator.test", types.RoleManager)
	body := gin.H{"email": manager.Email}

	w := api.do("POST", "/v1/auth/login", "", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do("POST", "/v1/auth/login", "", body, map[string]string{"X-Login-Secret": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do("POST", "/v1/auth/login", "", body, map[string]string{"X-Login-Secret": "front-door"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"token"`)
}
