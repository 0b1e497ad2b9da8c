package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Wraptron/incubation-backend/src/api/config"
	"github.com/Wraptron/incubation-backend/src/api/types"
)

func attachRoutes(r *gin.Engine, cfg config.Config, svc Services) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Reviewer-Id", "X-Login-Secret"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	secret := []byte(cfg.JWTSecret)
	authH := NewAuth(svc.Users, secret, cfg.LoginSecret)
	appH := NewApplications(svc.Intake, svc.Events)
	draftH := NewDrafts(svc.Intake, svc.Events)
	reviewerH := NewReviewers(svc.Assignments, svc.Events)
	evalH := NewEvaluations(svc.Evaluations)
	userH := NewUsers(svc.Users)

	// Public intake endpoints are rate limited per client IP.
	intakeLimit := RateLimitMiddleware(NewRateLimiter(30, time.Minute))

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/login", authH.Login)

		v1.POST("/applications", intakeLimit, appH.Submit)
		v1.GET("/applications", appH.List)
		v1.GET("/applications/:id", appH.Get)

		v1.POST("/drafts", intakeLimit, draftH.Save)
		v1.GET("/drafts", draftH.Resume)

		// Reviewer responds with own bearer identity.
		reviewer := v1.Group("")
		reviewer.Use(JWTMiddleware(secret), RequireRole(types.RoleReviewer))
		reviewer.POST("/applications/:id/response", reviewerH.Respond)

		// Evaluation submission authenticates with the X-Reviewer-Id header.
		withReviewer := v1.Group("")
		withReviewer.Use(ReviewerHeader())
		withReviewer.POST("/applications/:id/evaluations", evalH.Upsert)
		withReviewer.PUT("/applications/:id/evaluations", evalH.Upsert)
		withReviewer.GET("/applications/:id/evaluations/mine", evalH.Mine)

		manager := v1.Group("")
		manager.Use(JWTMiddleware(secret), RequireRole(types.RoleManager))
		manager.POST("/applications/:id/reviewers", reviewerH.Invite)
		manager.GET("/applications/:id/reviewers", reviewerH.List)
		manager.DELETE("/applications/:id/reviewers/:reviewerId", reviewerH.Remove)
		manager.GET("/applications/:id/evaluations", evalH.List)

		manager.POST("/users", userH.Create)
		manager.GET("/users", userH.List)
		manager.GET("/users/:id", userH.Get)
		manager.PUT("/users/:id", userH.Update)
		manager.DELETE("/users/:id", userH.Delete)
	}
}
