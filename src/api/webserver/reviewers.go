package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wraptron/incubation-backend/src/api/notify"
	"github.com/Wraptron/incubation-backend/src/api/review"
)

type Reviewers struct {
	assignments *review.Assignments
	events      *notify.Publisher
}

func NewReviewers(assignments *review.Assignments, events *notify.Publisher) Reviewers {
	return Reviewers{assignments: assignments, events: events}
}

func (h Reviewers) Invite(c *gin.Context) {
	var req struct {
		ReviewerID string `json:"reviewerId" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	a, events, err := h.assignments.Invite(c.Request.Context(), c.Param("id"), req.ReviewerID, c.GetString("uid"))
	if err != nil {
		fail(c, err)
		return
	}
	h.events.Publish(c.Request.Context(), events...)

	c.JSON(http.StatusCreated, gin.H{"assignment": a})
}

// Respond records the authenticated reviewer's accept/decline decision.
func (h Reviewers) Respond(c *gin.Context) {
	var req struct {
		Accept *bool `json:"accept" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	a, events, err := h.assignments.Respond(c.Request.Context(), c.Param("id"), c.GetString("uid"), *req.Accept)
	if err != nil {
		fail(c, err)
		return
	}
	h.events.Publish(c.Request.Context(), events...)

	c.JSON(http.StatusOK, gin.H{"accepted": *req.Accept, "assignment": a})
}

func (h Reviewers) List(c *gin.Context) {
	assignments, err := h.assignments.ListForApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

func (h Reviewers) Remove(c *gin.Context) {
	err := h.assignments.Remove(c.Request.Context(), c.Param("id"), c.Param("reviewerId"), c.GetString("uid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}
