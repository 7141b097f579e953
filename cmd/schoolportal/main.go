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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/schoolportal/internal/adapter/driven/portalapi"
	sqliteadapter "github.com/ericfisherdev/schoolportal/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/schoolportal/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/schoolportal/internal/adapter/driving/web"
	"github.com/ericfisherdev/schoolportal/internal/application"
	"github.com/ericfisherdev/schoolportal/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"api_base_url", cfg.APIBaseURL,
		"login_route", cfg.LoginRoute,
		"request_timeout", cfg.RequestTimeout,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer, slog.Default()); err != nil {
		return err
	}

	// 5. Wire adapters.
	sessionStore := sqliteadapter.NewSessionRepo(db, cfg.SecretKey)
	draftStore := sqliteadapter.NewDraftRepo(db)

	portal := portalapi.NewClient(cfg.APIBaseURL, sessionStore, webhandler.LoginRedirector{},
		portalapi.WithTimeout(cfg.RequestTimeout),
		portalapi.WithLoginRoute(cfg.LoginRoute),
		portalapi.WithLogger(slog.Default()),
	)

	// 6. Create application services.
	sessionSvc := application.NewSessionService(portal, portal, portal, sessionStore, slog.Default())
	attendanceSvc := application.NewAttendanceService(portal, draftStore, slog.Default())
	admissionSvc := application.NewAdmissionService(portal, portal, time.Local)
	resultSvc := application.NewResultService(portal)
	postSvc := application.NewPostService(portal, portal)

	// 7. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(sessionSvc, attendanceSvc, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 7b. Create web handler and register GUI routes.
	webHandler := webhandler.NewHandler(sessionSvc, attendanceSvc, admissionSvc, resultSvc, postSvc, cfg.LoginRoute, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware. The session cookie scopes the credential store for
	// the JSON API as well as the pages.
	handler := httphandler.ApplyMiddleware(webhandler.BindSession(mux), slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2*cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("schoolportal started",
		"listen_addr", cfg.ListenAddr,
		"api_base_url", cfg.APIBaseURL,
	)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
