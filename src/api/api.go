package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/Wraptron/incubation-backend/src/api/config"
	"github.com/Wraptron/incubation-backend/src/api/data"
	"github.com/Wraptron/incubation-backend/src/api/notify"
	"github.com/Wraptron/incubation-backend/src/api/review"
	"github.com/Wraptron/incubation-backend/src/api/types"
	"github.com/Wraptron/incubation-backend/src/api/webserver"
)

var allModels = []interface{}{
	&types.UserProfile{}, &types.Application{},
	&types.ReviewerAssignment{}, &types.Evaluation{},
}

func migrate(db *gorm.DB) {
	if err := db.AutoMigrate(allModels...); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

// ensureManager seeds the bootstrap manager account so a fresh deployment
// can log in and create the rest.
func ensureManager(db *gorm.DB) {
	email := os.Getenv("MANAGER_EMAIL")
	if email == "" {
		return
	}
	name := os.Getenv("MANAGER_NAME")
	if name == "" {
		name = "Program Manager"
	}
	var u types.UserProfile
	err := db.Where("email = ?", email).
		Attrs(types.UserProfile{ID: uuid.NewString(), Name: name, Role: types.RoleManager}).
		FirstOrCreate(&u).Error
	if err != nil {
		log.Printf("seed manager: %v", err)
	}
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	migrate(db)
	ensureManager(db)

	rdb := data.MustRedis(cfg.RedisURL)

	repos := data.NewRepos(db)
	sanitize := bluemonday.StrictPolicy().Sanitize
	policy := review.NewPolicy(repos.Users, repos.Assignments)

	intake := review.NewIntake(repos.Applications, sanitize, cfg.DraftTTLDays, cfg.BaseURL)
	assignments := review.NewAssignments(repos.Applications, repos.Users, repos.Assignments, policy)
	evaluations := review.NewEvaluations(repos.Applications, repos.Assignments, repos.Evaluations, policy, sanitize)

	events := notify.NewPublisher(rdb)

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = &notify.SMTPMailer{
			Host: cfg.SMTPHost, Port: cfg.SMTPPort,
			User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.SMTPFrom,
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go notify.NewDispatcher(rdb, mailer, cfg.BaseURL).Run(ctx)

	sweeper := review.NewSweeper(assignments, repos.Assignments, events, cfg.InviteExpiryDays)
	go sweeper.Run(ctx, cfg.SweepInterval)

	router := webserver.New(cfg, webserver.Services{
		Intake:      intake,
		Assignments: assignments,
		Evaluations: evaluations,
		Users:       repos.Users,
		Events:      events,
	})
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("Incubation API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
