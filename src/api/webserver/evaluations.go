package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Wraptron/incubation-backend/src/api/review"
)

// ReviewerHeader resolves the caller's reviewer identity from the
// X-Reviewer-Id header, which must carry a valid UUID.
func ReviewerHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Reviewer-Id")
		if _, err := uuid.Parse(id); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "detail": "missing or invalid x-reviewer-id header"})
			return
		}
		c.Set("reviewerID", id)
		c.Next()
	}
}

type Evaluations struct {
	evaluations *review.Evaluations
}

func NewEvaluations(evaluations *review.Evaluations) Evaluations {
	return Evaluations{evaluations: evaluations}
}

// Upsert handles both POST (first submission, 201) and PUT (overwrite,
// 200); the service decides which happened. Scores bind through pointers so
// an omitted criterion is rejected instead of reading as an explicit 0.
func (h Evaluations) Upsert(c *gin.Context) {
	var req struct {
		Need        *float64 `json:"needScore" binding:"required"`
		Innovation  *float64 `json:"innovationScore" binding:"required"`
		Market      *float64 `json:"marketScore" binding:"required"`
		Team        *float64 `json:"teamScore" binding:"required"`
		Scalability *float64 `json:"scalabilityScore" binding:"required"`
		review.Comments
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	scores := review.Scores{
		Need:        *req.Need,
		Innovation:  *req.Innovation,
		Market:      *req.Market,
		Team:        *req.Team,
		Scalability: *req.Scalability,
	}

	e, created, err := h.evaluations.SubmitOrUpdate(
		c.Request.Context(), c.Param("id"), c.GetString("reviewerID"), scores, req.Comments)
	if err != nil {
		fail(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"evaluation": e})
}

func (h Evaluations) List(c *gin.Context) {
	evals, err := h.evaluations.ListForApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"evaluations": evals})
}

// Mine returns the caller's own evaluation; null (not 404) when none has
// been submitted yet.
func (h Evaluations) Mine(c *gin.Context) {
	e, err := h.evaluations.GetOwn(c.Request.Context(), c.Param("id"), c.GetString("reviewerID"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"evaluation": e})
}
