package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wraptron/incubation-backend/src/api/notify"
	"github.com/Wraptron/incubation-backend/src/api/review"
)

type Drafts struct {
	intake *review.Intake
	events *notify.Publisher
}

func NewDrafts(intake *review.Intake, events *notify.Publisher) Drafts {
	return Drafts{intake: intake, events: events}
}

// Save creates a new draft (returning the resume token exactly once) or
// fully replaces the fields of an existing one. Updates must present the
// raw resume token; the draft id by itself grants nothing.
func (h Drafts) Save(c *gin.Context) {
	var req struct {
		ApplicationID string `json:"applicationId"`
		ResumeToken   string `json:"resumeToken"`
		review.ApplicationForm
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	app, token, events, err := h.intake.SaveDraft(c.Request.Context(), req.ApplicationID, req.ResumeToken, &req.ApplicationForm)
	if err != nil {
		fail(c, err)
		return
	}
	h.events.Publish(c.Request.Context(), events...)

	resp := gin.H{"id": app.ID, "status": app.Status}
	if token != "" {
		resp["resumeToken"] = token
	}
	c.JSON(http.StatusOK, resp)
}

func (h Drafts) Resume(c *gin.Context) {
	app, err := h.intake.ResumeDraft(c.Request.Context(), c.Query("token"))
	if err != nil {
		fail(c, err)
		return
	}
	// Token hash and expiry are json-omitted on the model; the draft body
	// is returned as the client last saved it.
	c.JSON(http.StatusOK, gin.H{
		"application": app,
		"teamMembers": app.Team(),
	})
}
