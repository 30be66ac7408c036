package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DhavalSuthar-24/crickpro/config"
	_ "github.com/DhavalSuthar-24/crickpro/docs"
	"github.com/DhavalSuthar-24/crickpro/internal/auth"
	"github.com/DhavalSuthar-24/crickpro/internal/commentary"
	"github.com/DhavalSuthar-24/crickpro/internal/events"
	"github.com/DhavalSuthar-24/crickpro/internal/fanout"
	"github.com/DhavalSuthar-24/crickpro/internal/match"
	"github.com/DhavalSuthar-24/crickpro/internal/team"
	"github.com/DhavalSuthar-24/crickpro/internal/telemetry"
	"github.com/DhavalSuthar-24/crickpro/internal/user"
	"github.com/DhavalSuthar-24/crickpro/routes"
)

// @title CrickPro Live Scoring API
// @version 1.0
// @description Ball-by-ball cricket scoring with live commentary.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, db, err := config.Initialize()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	err = db.AutoMigrate(
		&user.User{}, &user.Role{}, &user.UserRole{}, &user.RefreshToken{},
		&match.MatchSnapshot{}, &team.TeamRoster{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	telemetry.Infof("AutoMigrate successful")

	if err := auth.Seed(auth.NewAuthRepository(db), cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatalf("Seeding roles failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus()
	feed := fanout.NewServer(bus)

	var primary commentary.Generator
	if cfg.Commentary.APIKey != "" {
		g, err := commentary.NewGemini(ctx, cfg.Commentary.APIKey, cfg.Commentary.Model)
		if err != nil {
			telemetry.Warnf("Gemini client unavailable, using stock commentary: %v", err)
		} else {
			primary = g
		}
	}
	commentator := commentary.NewResilient(primary, cfg.Commentary.RatePerMinute, cfg.Commentary.Timeout)

	matchRepo := match.NewGormMatchRepository(db)
	teams := team.NewTeamRepository(db)
	svc := match.NewService(matchRepo, teams, commentator, bus, match.ServiceConfig{
		PersistTimeout:     cfg.Match.PersistTimeout,
		CommentaryTimeout:  cfg.Commentary.Timeout,
		SessionIdleTimeout: cfg.Match.SessionIdleTimeout,
	})
	go svc.RunEviction(ctx, time.Minute)

	r := routes.SetupRoutes(routes.Dependencies{
		Config:    cfg,
		DB:        db,
		Matches:   svc,
		MatchRepo: matchRepo,
		Teams:     teams,
		Feed:      feed,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		telemetry.Infof("Starting server on port %s in %s mode", cfg.App.Port, cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	telemetry.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Errorf("Server shutdown: %v", err)
	}
	svc.Wait()
}
