package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"empdash/internal/domain/analytics"
	"empdash/internal/domain/audit"
	"empdash/internal/domain/auth"
	"empdash/internal/domain/directory"
	"empdash/internal/domain/notifications"
	"empdash/internal/domain/task"
	"empdash/internal/platform/config"
	"empdash/internal/platform/db"
	"empdash/internal/platform/email"
	"empdash/internal/platform/metrics"
	"empdash/internal/platform/seclog"
	analyticshandler "empdash/internal/transport/http/handlers/analytics"
	authhandler "empdash/internal/transport/http/handlers/auth"
	directoryhandler "empdash/internal/transport/http/handlers/directory"
	taskhandler "empdash/internal/transport/http/handlers/task"
	"empdash/internal/transport/http/middleware"

	cryptoutil "empdash/internal/platform/crypto"
)

const loginRateLimit = 10

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Metrics *metrics.Collector
}

// New wires the domain services and the route table. It does not touch the
// network; Run does.
func New(cfg config.Config, pool *pgxpool.Pool) (*App, error) {
	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, err
	}

	sec := seclog.New(os.Stderr)
	collector := metrics.New()

	auditor := audit.New(pool)
	mailer := notifications.New(email.New(cfg), cfg.EmailFrom)

	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost, crypto)
	directoryService := directory.NewService(directory.NewStore(pool), auditor, mailer, cfg.BcryptCost)
	taskService := task.NewService(task.NewStore(pool), auditor, mailer)
	taskService.Metrics = collector
	analyticsService := analytics.NewService(analytics.NewStore(pool))

	images := directoryhandler.NewImageStore(cfg.UploadDir, cfg.MaxUploadBytes, cfg.AllowedImageTypes)

	authHandler := authhandler.NewHandler(authService, sec, collector)
	directoryHandler := directoryhandler.NewHandler(directoryService, images)
	taskHandler := taskhandler.NewHandler(taskService)
	analyticsHandler := analyticshandler.NewHandler(analyticsService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecurityHeaders)
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, middleware.ActorOrIPKey, sec))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(collector.Snapshot()); err != nil {
				slog.Warn("metrics write failed", "err", err)
			}
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

		r.Group(func(r chi.Router) {
			r.Use(middleware.LoginRateLimit(loginRateLimit, time.Minute, "email", sec))
			r.Post("/auth/admin", authHandler.HandleAdminLogin)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.LoginRateLimit(loginRateLimit, time.Minute, "employeeId", sec))
			r.Post("/auth/employee", authHandler.HandleEmployeeLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(sec, auth.RoleAdmin))
			r.Put("/auth/admin/change-password", authHandler.HandleChangePassword)
			r.Post("/auth/admin/mfa/setup", authHandler.HandleMFASetup)
			r.Post("/auth/admin/mfa/enable", authHandler.HandleMFAEnable)
			r.Post("/auth/admin/mfa/disable", authHandler.HandleMFADisable)

			r.Post("/employees", directoryHandler.HandleCreate)
			r.Get("/employees", directoryHandler.HandleList)
			r.Get("/employees/export", directoryHandler.HandleExport)
			r.Put("/employees/{id}", directoryHandler.HandleUpdate)
			r.Delete("/employees/{id}", directoryHandler.HandleDelete)

			r.Post("/tasks/assign", taskHandler.HandleAssign)
			r.Get("/tasks", taskHandler.HandleListAll)

			r.Get("/analytics", analyticsHandler.HandleStats)
			r.Get("/analytics/report", analyticsHandler.HandleReport)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(sec, auth.RoleAdmin, auth.RoleEmployee))
			r.Get("/employees/{id}", directoryHandler.HandleGet)
			r.Get("/tasks/employee/{employeeId}", taskHandler.HandleListByEmployee)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(sec, auth.RoleEmployee))
			r.Get("/tasks/my", taskHandler.HandleListMine)
			r.Patch("/tasks/{id}", taskHandler.HandleUpdateStatus)
		})
	})

	uploadsServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	router.Get("/uploads/*", uploadsServer.ServeHTTP)

	return &App{Config: cfg, DB: pool, Router: router, Metrics: collector}, nil
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	app, err := New(cfg, pool)
	if err != nil {
		log.Fatalf("server wiring failed: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "err", err)
		}
	}()

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}
