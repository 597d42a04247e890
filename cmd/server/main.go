package main

import (
	"context"
	"ctchen222/flaskblog/internal/api/controller"
	"ctchen222/flaskblog/internal/api/repository"
	"ctchen222/flaskblog/internal/api/service"
	"ctchen222/flaskblog/internal/config"
	"ctchen222/flaskblog/internal/db"
	"ctchen222/flaskblog/internal/logger"
	"ctchen222/flaskblog/internal/server"
	"ctchen222/flaskblog/internal/session"
	"ctchen222/flaskblog/internal/telemetry"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			slog.Error("error shutting down telemetry", slog.String("error", err.Error()))
		}
	}()

	logger.Init(cfg.Mode == config.ModeRelease)
	gin.SetMode(cfg.Mode)

	if cfg.Session.GeneratedSecret {
		slog.Warn("SESSION_SECRET is not set; using a random secret, sessions will not survive a restart")
	}

	// Initialize SQL store
	DB, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer DB.Close()

	if err := db.InitializeSchema(ctx, DB); err != nil {
		fatal("failed to initialize schema", err)
	}

	// Session revocation is optional; without Redis a logged-out cookie
	// stays valid until it expires.
	var revoker session.Revoker = session.NopRevoker{}
	if cfg.RedisAddr != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			fatal("failed to initialize redis", err)
		}
		defer rdb.Close()
		revoker = session.NewRedisRevoker(rdb)
	}

	sessions := session.NewManager([]byte(cfg.Session.Secret), cfg.Session.TTL,
		session.WithCookieName(cfg.Session.CookieName),
		session.WithSecureCookie(cfg.Session.Secure),
		session.WithRevoker(revoker),
	)

	// Create repositories
	userRepo := repository.NewUserRepository(DB)
	articleRepo := repository.NewArticleRepository(DB)

	// Create services
	userService := service.NewUserService(userRepo, service.NewBcryptHasher(bcrypt.DefaultCost))
	articleService := service.NewArticleService(articleRepo)

	// Create controllers
	ctrls := server.Controllers{
		Pages:    controller.NewPageController(),
		Users:    controller.NewUserController(userService, sessions),
		Articles: controller.NewArticleController(articleService),
	}

	// Create the Gin-based server
	srv, err := server.NewServer(sessions, ctrls, DB)
	if err != nil {
		fatal("failed to create server", err)
	}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("http server started", slog.String("addr", cfg.ListenAddr), slog.String("driver", cfg.Database.Driver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("ListenAndServe failed", err)
		}
	}()

	<-stop

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exiting")
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
