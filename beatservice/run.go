// Package beatservice wires configuration, storage, health checking and the
// HTTP router into a runnable service.
package beatservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/campusbeat/campusbeat/internal/api"
	"github.com/campusbeat/campusbeat/internal/api/recovery"
	"github.com/campusbeat/campusbeat/internal/auth"
	"github.com/campusbeat/campusbeat/internal/config"
	"github.com/campusbeat/campusbeat/internal/health"
	"github.com/campusbeat/campusbeat/internal/platform/logger"
	"github.com/campusbeat/campusbeat/internal/services"
	"github.com/campusbeat/campusbeat/internal/store"
	"github.com/campusbeat/campusbeat/internal/store/postgres"
)

// Run starts the beat service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("beat-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("http_port", cfg.HTTPPort).
		Int("feed_limit", cfg.FeedLimit).
		Msg("Beat service starting")

	ctx, stop := newServerContext()
	defer stop()

	st, err := initStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	authorizer, err := newAuthorizer(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build authorizer")
		return err
	}

	router := buildRouter(st, authorizer, cfg)

	svcHealth := startHealthCheckers(ctx, cfg, log, st)
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}

func initStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	if err := postgres.Bootstrap(ctx, cfg.PostgresDSN); err != nil {
		log.Error().Err(err).Msg("Postgres unavailable")
		return nil, err
	}
	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open postgres")
		return nil, err
	}
	return postgres.NewWithDB(db), nil
}

func newAuthorizer(cfg *config.Config) (auth.Authorizer, error) {
	// Dev tokens are the only supported authorizer for now; config.Validate
	// rejects them in production so a real provider must be wired in first.
	return auth.NewStaticAuthorizer(cfg.DevTokens)
}

// buildRouter wires HTTP routes to handlers.
func buildRouter(st store.Store, authorizer auth.Authorizer, cfg *config.Config) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	// Health stays outside authentication.
	healthHandler := api.NewHealthHandler()
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	authed := root.PathPrefix("/api").Subrouter()
	authed.Use(auth.Middleware(authorizer))

	calendarSvc := services.NewCalendarService(st, cfg.PastLimit)
	eventSvc := services.NewEventService(st, cfg.FeedLimit)
	conflictSvc := services.NewConflictService(st)
	entitySvc := services.NewEntityService(st)
	personalSvc := services.NewPersonalEventService(st)
	updatesSvc := services.NewUpdatesService(st, cfg.UpdatesLimit)
	profileSvc := services.NewProfileService(st)

	// Calendar
	calendar := api.NewCalendarHandler(calendarSvc, time.Duration(cfg.ExportHorizonDays)*24*time.Hour)
	authed.HandleFunc("/me/calendar", calendar.Day).Methods("GET")
	authed.HandleFunc("/me/calendar/now", calendar.Now).Methods("GET")
	authed.HandleFunc("/me/calendar/past", calendar.Past).Methods("GET")
	authed.HandleFunc("/me/calendar/export.ics", calendar.Export).Methods("GET")
	authed.HandleFunc("/me/stats", calendar.Stats).Methods("GET")

	// Events
	event := api.NewEventHandler(eventSvc, conflictSvc)
	authed.HandleFunc("/feed", event.Feed).Methods("GET")
	authed.HandleFunc("/events", event.Create).Methods("POST")
	authed.HandleFunc("/events/{eventId}", event.Get).Methods("GET")
	authed.HandleFunc("/events/{eventId}/conflicts", event.Conflicts).Methods("GET")
	authed.HandleFunc("/events/{eventId}/calendar", event.AddToCalendar).Methods("POST")
	authed.HandleFunc("/events/{eventId}/calendar", event.RemoveFromCalendar).Methods("DELETE")

	// Entities
	entity := api.NewEntityHandler(entitySvc, eventSvc)
	authed.HandleFunc("/entities", entity.List).Methods("GET")
	authed.HandleFunc("/entities/{entityId}", entity.Get).Methods("GET")
	authed.HandleFunc("/entities/{entityId}/events", entity.Events).Methods("GET")
	authed.HandleFunc("/entities/{entityId}/follow", entity.Follow).Methods("POST")
	authed.HandleFunc("/entities/{entityId}/follow", entity.Unfollow).Methods("DELETE")
	authed.HandleFunc("/me/following", entity.Following).Methods("GET")

	// Personal events
	personal := api.NewPersonalEventHandler(personalSvc)
	authed.HandleFunc("/me/personal-events", personal.Create).Methods("POST")
	authed.HandleFunc("/me/personal-events/{personalEventId}", personal.Get).Methods("GET")
	authed.HandleFunc("/me/personal-events/{personalEventId}", personal.Update).Methods("PATCH")
	authed.HandleFunc("/me/personal-events/{personalEventId}", personal.Delete).Methods("DELETE")

	// Updates inbox
	updates := api.NewUpdatesHandler(updatesSvc)
	authed.HandleFunc("/me/updates", updates.List).Methods("GET")
	authed.HandleFunc("/me/updates/count", updates.Count).Methods("GET")
	authed.HandleFunc("/me/updates/seen", updates.MarkSeen).Methods("POST")
	authed.HandleFunc("/me/updates/{eventId}/dismiss", updates.Dismiss).Methods("POST")

	// Profile
	profile := api.NewProfileHandler(profileSvc)
	authed.HandleFunc("/me/profile", profile.Get).Methods("GET")
	authed.HandleFunc("/me/profile", profile.Update).Methods("PATCH")

	return root
}

// startHealthCheckers starts component checkers and the service aggregator; binds health.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
