package webserver

import (
	"github.com/gin-gonic/gin"

	"github.com/Wraptron/incubation-backend/src/api/config"
	"github.com/Wraptron/incubation-backend/src/api/notify"
	"github.com/Wraptron/incubation-backend/src/api/review"
)

// Services is everything the HTTP layer needs from the core.
type Services struct {
	Intake      *review.Intake
	Assignments *review.Assignments
	Evaluations *review.Evaluations
	Users       review.UserRepo
	Events      *notify.Publisher
}

func New(cfg config.Config, svc Services) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, svc)
	return g
}
