// Minimal end-to-end integration test for the Incubation API.
//
// Expects a running instance seeded with a manager account (MANAGER_EMAIL).
// Walks the whole review workflow: submit, invite, accept, evaluate.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
)

var (
	baseURL      = getenv("API_URL", "http://localhost:8080/v1")
	managerEmail = getenv("MANAGER_EMAIL", "manager@incubator.local")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	mgrToken := login(managerEmail)

	appID := submitApplication()
	draftID, resumeToken := saveDraft()
	resumeDraft(draftID, resumeToken)

	reviewerEmail := fmt.Sprintf("smoke-%s@incubator.local", uuid.NewString()[:8])
	reviewerID := createReviewer(mgrToken, reviewerEmail)

	inviteReviewer(mgrToken, appID, reviewerID)
	respond(login(reviewerEmail), appID)
	submitEvaluation(appID, reviewerID)
	checkEvaluations(mgrToken, appID)

	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- auth

func login(email string) string {
	var resp struct{ Token string }
	doJSON("POST", "/auth/login", map[string]any{"email": email}, &resp, http.StatusOK)
	if resp.Token == "" {
		log.Fatal("login: empty token")
	}
	return resp.Token
}

// ----------------------------- intake

func submitApplication() string {
	var resp struct {
		ID     string
		Status string
	}
	doJSON("POST", "/applications", applicationBody(), &resp, http.StatusCreated)
	if resp.Status != "pending" {
		log.Fatalf("submit: want pending got %s", resp.Status)
	}
	return resp.ID
}

func saveDraft() (string, string) {
	var resp struct {
		ID          string
		ResumeToken string
	}
	doJSON("POST", "/drafts", map[string]any{"startupName": "Smoke Draft"}, &resp, http.StatusOK)
	if resp.ResumeToken == "" {
		log.Fatal("draft: empty resume token")
	}
	return resp.ID, resp.ResumeToken
}

func resumeDraft(id, token string) {
	var resp struct {
		Application struct{ ID string }
	}
	doJSON("GET", "/drafts?token="+token, nil, &resp, http.StatusOK)
	if resp.Application.ID != id {
		log.Fatal("draft: resume returned a different draft")
	}
}

// ----------------------------- review

func createReviewer(tok, email string) string {
	var resp struct {
		User struct{ ID string }
	}
	doAuth(tok, "POST", "/users", map[string]any{
		"name":  "Smoke Reviewer",
		"email": email,
		"role":  "reviewer",
	}, &resp, http.StatusCreated)
	return resp.User.ID
}

func inviteReviewer(tok, appID, reviewerID string) {
	doAuth(tok, "POST", "/applications/"+appID+"/reviewers", map[string]any{
		"reviewerId": reviewerID,
	}, nil, http.StatusCreated)
}

func respond(tok, appID string) {
	var resp struct{ Accepted bool }
	doAuth(tok, "POST", "/applications/"+appID+"/response", map[string]any{
		"accept": true,
	}, &resp, http.StatusOK)
	if !resp.Accepted {
		log.Fatal("respond: acceptance not recorded")
	}
}

func submitEvaluation(appID, reviewerID string) {
	req, _ := http.NewRequest("POST", baseURL+"/applications/"+appID+"/evaluations",
		encode(map[string]any{
			"needScore":        8,
			"innovationScore":  7.5,
			"marketScore":      6.25,
			"teamScore":        9,
			"scalabilityScore": 5.5,
			"overallComment":   "integration-test " + uuid.NewString(),
		}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Reviewer-Id", reviewerID)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("evaluation: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		log.Fatalf("evaluation: want 201 got %d", res.StatusCode)
	}
}

func checkEvaluations(tok, appID string) {
	var resp struct {
		Evaluations []struct{ TotalScore float64 }
	}
	doAuth(tok, "GET", "/applications/"+appID+"/evaluations", nil, &resp, http.StatusOK)
	if len(resp.Evaluations) == 0 {
		log.Fatal("evaluations: none listed")
	}
	if resp.Evaluations[0].TotalScore != 36.25 {
		log.Fatalf("evaluations: want total 36.25 got %v", resp.Evaluations[0].TotalScore)
	}
}

func applicationBody() map[string]any {
	return map[string]any{
		"founderName":  "Smoke Founder",
		"founderEmail": "founder@incubator.local",
		"founderPhone": "+1 555 0100",
		"startupName":  "Smoke Test Labs " + uuid.NewString()[:8],
		"description":  "End-to-end smoke test submission.",
		"problem":      "Deployments break silently.",
		"solution":     "Automated smoke tests.",
		"targetMarket": "Engineering teams.",
		"revenueModel": "Subscriptions.",
		"competition":  "Hope.",
		"teamMembers":  []map[string]any{{"name": "Smoke Founder", "role": "CEO"}},
		"incorporated": "Yes",
	}
}

// ----------------------------- helpers

func encode(body any) *bytes.Buffer {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		log.Fatalf("encode: %v", err)
	}
	return &buf
}

func doAuth(token, method, path string, body, out any, want int) {
	doReq(method, path, token, body, out, want)
}

func doJSON(method, path string, body, out any, want int) {
	doReq(method, path, "", body, out, want)
}

func doReq(method, path, token string, body, out any, want int) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s encode: %v", method, path, err)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
}
