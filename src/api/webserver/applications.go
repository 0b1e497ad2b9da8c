package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Wraptron/incubation-backend/src/api/notify"
	"github.com/Wraptron/incubation-backend/src/api/review"
)

type Applications struct {
	intake *review.Intake
	events *notify.Publisher
}

func NewApplications(intake *review.Intake, events *notify.Publisher) Applications {
	return Applications{intake: intake, events: events}
}

func (h Applications) Submit(c *gin.Context) {
	var form review.ApplicationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, err.Error())
		return
	}

	app, events, err := h.intake.Submit(c.Request.Context(), &form)
	if err != nil {
		fail(c, err)
		return
	}
	h.events.Publish(c.Request.Context(), events...)

	c.JSON(http.StatusCreated, gin.H{"id": app.ID, "status": app.Status})
}

func (h Applications) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", "20"))

	apps, total, err := h.intake.List(c.Request.Context(), review.ApplicationFilter{
		Status:  c.Query("status"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"page":         page,
		"perPage":      perPage,
		"total":        total,
	})
}

func (h Applications) Get(c *gin.Context) {
	app, err := h.intake.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"application": app,
		"teamMembers": app.Team(),
	})
}
