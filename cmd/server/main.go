package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mediat/accounts/internal/config"
	"github.com/mediat/accounts/internal/database"
	"github.com/mediat/accounts/internal/imaging"
	"github.com/mediat/accounts/internal/password"
	postgresrepo "github.com/mediat/accounts/internal/repository/postgres"
	"github.com/mediat/accounts/internal/service"
	"github.com/mediat/accounts/internal/token"
	"github.com/mediat/accounts/internal/transport/http/handlers"
	"github.com/mediat/accounts/internal/transport/http/middleware"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		logger.Error("connecting to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, cfg.DSN()); err != nil {
		logger.Error("running migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)

	// Services
	hasher := password.NewHasher(password.DefaultCost)
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	authService := service.NewAuthService(userRepo, hasher, tokens)

	// Handlers
	images := imaging.NewProcessor(cfg.PublicImgDir)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService, images)

	// Auth middleware
	auth := middleware.Auth(authService)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	// Public
	mux.HandleFunc("POST /api/v1/users/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/v1/users/login", authHandler.Login)

	// Protected
	mux.Handle("PATCH /api/v1/users/updatePassword", auth(http.HandlerFunc(userHandler.UpdatePassword)))
	mux.Handle("PATCH /api/v1/users/updateUser", auth(http.HandlerFunc(userHandler.UpdateUser)))
	mux.Handle("DELETE /api/v1/users/deleteUser", auth(http.HandlerFunc(userHandler.Delete)))

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: middleware.CORS(middleware.Logging(logger)(mux)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
