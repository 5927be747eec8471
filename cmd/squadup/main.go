package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dimitrije/squadup/internal/apidoc"
	"github.com/dimitrije/squadup/internal/config"
	"github.com/dimitrije/squadup/internal/database"
	"github.com/dimitrije/squadup/internal/handlers"
	authmw "github.com/dimitrije/squadup/internal/middleware"
	"github.com/dimitrije/squadup/internal/services"
	"github.com/dimitrije/squadup/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

const apiVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	hub := sse.NewHub()
	go hub.Run(ctx)

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	userService := services.NewUserService(db)
	teamService := services.NewTeamService(db)
	emailService := services.NewEmailService(cfg.SMTP)
	if !emailService.IsConfigured() {
		logger.Warn("SMTP is not configured, email notifications are disabled")
	}
	notifier := services.NewNotificationService(hub, emailService, userService, cfg.BaseURL, logger)
	requestService := services.NewRequestService(db, notifier)
	feedbackService := services.NewFeedbackService(db, userService, teamService, notifier, logger)

	api := &handlers.API{
		Users:    handlers.NewUserHandler(userService, logger),
		Teams:    handlers.NewTeamHandler(teamService, logger),
		Requests: handlers.NewRequestHandler(requestService, logger),
		Feedback: handlers.NewFeedbackHandler(feedbackService, logger),
		Events:   handlers.NewSSEHandler(hub),
		Docs: handlers.NewDocsHandler(apidoc.Info{
			Title:     "SquadUp API",
			Version:   apiVersion,
			ServerURL: cfg.BaseURL + "/api/v1",
		}),
	}
	routes := api.Routes()
	if err := api.Docs.Publish(handlers.Endpoints(routes)); err != nil {
		logger.Fatal("failed to publish API document", zap.Error(err))
	}

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	v1 := app.Group("/api/v1")
	public := v1.Group("")
	protected := v1.Group("")
	protected.Use(authmw.Auth(jwtService))

	for _, r := range routes {
		group := protected
		if r.Public {
			group = public
		}
		switch r.Method {
		case http.MethodGet:
			group.Get(r.Path, r.Handler)
		case http.MethodPost:
			group.Post(r.Path, r.Handler)
		case http.MethodPatch:
			group.Patch(r.Path, r.Handler)
		case http.MethodDelete:
			group.Delete(r.Path, r.Handler)
		default:
			logger.Fatal("unsupported route method", zap.String("method", r.Method), zap.String("path", r.Path))
		}
	}

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info("server starting", zap.String("addr", addr), zap.Int("routes", len(routes)))
		if err := app.Run(addr); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	cancel()
	notifier.Wait()
}
