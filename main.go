package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/coreybb/tasknest/api"
	"github.com/coreybb/tasknest/auth"
	"github.com/coreybb/tasknest/datastore"
	rh "github.com/coreybb/tasknest/route-handlers"
	"github.com/coreybb/tasknest/web"
)

const (
	dbPingTimeout     = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
	devSecretBytes    = 32
)

type config struct {
	Host               string        `env:"HOST"`
	Port               string        `env:"PORT" envDefault:"4000"`
	DBDriver           string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseURL        string        `env:"DB_CONNECTION_STRING" envDefault:"tasknest.db"`
	JWTSecret          string        `env:"JWT_SECRET"`
	JWTIssuer          string        `env:"JWT_ISSUER" envDefault:"tasknest"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	RequireAuth        bool          `env:"REQUIRE_AUTH" envDefault:"false"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000" envSeparator:","`
	BcryptCost         int           `env:"BCRYPT_COST" envDefault:"10"`
	LogLevel           slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	DevMode            bool          `env:"DEV_MODE" envDefault:"false"`
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	db, err := setupDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Database setup failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := datastore.NewUserRepository(db)
	todoRepo := datastore.NewTodoRepository(db)
	reminderRepo := datastore.NewReminderRepository(db)
	dashboardRepo := datastore.NewDashboardRepository(db)

	tokenIssuer, err := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		slog.Error("Token issuer setup failed", "error", err)
		os.Exit(1)
	}
	authService, err := auth.NewService(userRepo, tokenIssuer, cfg.BcryptCost)
	if err != nil {
		slog.Error("Auth service setup failed", "error", err)
		os.Exit(1)
	}

	authHandler := rh.NewAuthHandler(authService)
	todoHandler := rh.NewTodoHandler(todoRepo)
	reminderHandler := rh.NewReminderHandler(reminderRepo)
	dashboardHandler := rh.NewDashboardHandler(dashboardRepo)
	healthHandler := rh.NewHealthHandler(db)

	router := api.SetupRoutes(
		api.Options{
			RequireAuth:    cfg.RequireAuth,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Client:         web.Handler(),
		},
		authService,
		authHandler,
		todoHandler,
		reminderHandler,
		dashboardHandler,
		healthHandler,
	)

	startServer(net.JoinHostPort(cfg.Host, cfg.Port), router)
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == "" {
		if !cfg.DevMode {
			return config{}, errors.New("JWT_SECRET is required unless DEV_MODE is set")
		}
		secret := make([]byte, devSecretBytes)
		if _, err := rand.Read(secret); err != nil {
			return config{}, fmt.Errorf("generate dev secret: %w", err)
		}
		cfg.JWTSecret = hex.EncodeToString(secret)
		slog.Warn("JWT_SECRET not set, using a random secret. Tokens will not survive a restart.")
	}

	return cfg, nil
}

func setupDatabase(driver, connStr string) (*datastore.DB, error) {
	dialect, err := datastore.ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	db, err := datastore.Open(ctx, dialect, connStr)
	if err != nil {
		return nil, err
	}

	slog.Info("Database connection successful", "driver", dialect)
	return db, nil
}

func startServer(addr string, router http.Handler) {
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	<-shutdownSignal // Block until signal received
	slog.Info("Shutdown signal received, initiating graceful shutdown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}

	slog.Info("Server gracefully stopped")
}
