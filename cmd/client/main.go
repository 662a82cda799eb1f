package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/app"
	"carpool/internal/config"
	"carpool/internal/handler"
	"carpool/internal/middleware"
	"carpool/internal/platform/clock"
	internalRedis "carpool/internal/redis"
	"carpool/internal/repository/remote"
	"carpool/internal/service"
	"carpool/internal/session"
	"carpool/internal/transport"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST so the API client and Redis can be instrumented.
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Redis is optional.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	client, err := wireClient(ctx, redisClient, nrApp, cfg)
	if err != nil {
		log.Fatalf("failed to start client: %v", err)
	}

	// Poll notifications for as long as the shell runs.
	pollCtx, stopPolling := context.WithCancel(context.Background())
	go client.poller.Run(pollCtx)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting client shell on port %s (api=%s)", cfg.Server.Port, cfg.API.BaseURL)
		if err := client.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down client shell...")
	stopPolling()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := client.server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Println("Client shell exited")
}

type wiredClient struct {
	server *http.Server
	poller *service.NotificationPoller
}

// wireClient wires all dependencies and returns the shell server and poller.
func wireClient(ctx context.Context, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*wiredClient, error) {
	clk := clock.NewSystemClock()

	// Session state and its invalidation channel.
	hub := session.NewHub()
	store := session.NewStore()
	store.Subscribe(hub)
	nav := middleware.NewNavigator()

	// Initialize the API client.
	api, err := transport.New(transport.Config{
		BaseURL:    cfg.API.BaseURL,
		CSRFCookie: cfg.API.CSRFCookie,
		CSRFHeader: cfg.API.CSRFHeader,
		Timeout:    cfg.API.Timeout,
	},
		transport.WithPublisher(hub),
		transport.WithRedirector(nav),
		transport.WithNewRelic(nrApp),
	)
	if err != nil {
		return nil, err
	}

	// Initialize repositories.
	authRepo := remote.NewAuthRepository(api)
	notificationRepo := remote.NewNotificationRepository(api)
	reportRepo := remote.NewReportRepository(api)
	tripRepo := remote.NewTripRepository(api)

	// Initialize services.
	authService := service.NewAuthService(authRepo, store)
	notificationService := service.NewNotificationService(notificationRepo)
	poller := service.NewNotificationPoller(notificationRepo, store, clk, cfg.Notifications.PollInterval)
	feedService := service.NewReportFeedService(reportRepo)
	auditService := service.NewAuditExportService(reportRepo, clk, cfg.Shell.ExportDir)
	tripService := service.NewTripService(tripRepo, clk)

	var replay middleware.ReplayStore
	if redisClient != nil {
		cacheStore := internalRedis.NewCacheStore(redisClient)
		app.BindSessionCache(ctx, store, cacheStore, cfg.Shell.InstanceID)
		poller.SetLocker(internalRedis.NewLockStore(redisClient))
		poller.SetSnapshotStore(cacheStore)
		replay = middleware.NewRedisReplayStore(redisClient, cfg.Shell.InstanceID)
	}

	// Confirm (or discover) the remote session before serving pages.
	if ok, err := authService.Restore(ctx); err != nil {
		log.Printf("[SESSION] could not restore session: %v", err)
	} else if ok {
		log.Printf("[SESSION] restored session for %s", store.State().Identity.ID)
	}

	poller.OnUpdate(func(snap service.NotificationSnapshot) {
		log.Printf("[POLLER] %d notifications, %d unread", len(snap.Items), snap.UnreadCount)
	})

	// Initialize handlers.
	userHandler := handler.NewUserHandler(authService, store, nav)
	notificationHandler := handler.NewNotificationHandler(notificationService, poller, store)
	reportHandler := handler.NewReportHandler(feedService, auditService)
	tripHandler := handler.NewTripHandler(tripService)
	pageHandler := handler.NewPageHandler(store)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:         userHandler,
		NotificationHandler: notificationHandler,
		ReportHandler:       reportHandler,
		TripHandler:         tripHandler,
		PageHandler:         pageHandler,
		Navigator:           nav,
		Sessions:            store,
		CookieStore:         sessions.NewCookieStore(sessionKey(cfg.Shell.SessionSecret)),
		CookieSecure:        cfg.Shell.CookieSecure,
		ReplayStore:         replay,
		NewRelicApp:         nrApp,
	})

	// Create HTTP server.
	return &wiredClient{
		server: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		poller: poller,
	}, nil
}

// sessionKey returns the configured shell cookie key, or a random one that
// lasts for this process.
func sessionKey(secret string) []byte {
	if secret != "" {
		return []byte(secret)
	}
	log.Println("SHELL_SESSION_SECRET not set; shell cookies will not survive a restart")
	return securecookie.GenerateRandomKey(32)
}
