package app

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"carpool/internal/handler"
	"carpool/internal/middleware"
	"carpool/internal/service"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler         *handler.UserHandler
	NotificationHandler *handler.NotificationHandler
	ReportHandler       *handler.ReportHandler
	TripHandler         *handler.TripHandler
	PageHandler         *handler.PageHandler
	Navigator           *middleware.Navigator
	Sessions            service.SessionReader
	CookieStore         *sessions.CookieStore
	CookieSecure        bool
	ReplayStore         middleware.ReplayStore
	NewRelicApp         *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.ShellSession(middleware.ShellSessionConfig{CookieSecure: deps.CookieSecure}, deps.CookieStore))
	router.Use(middleware.CSRF())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Screens.
	pages := router.Group("")
	pages.Use(middleware.NavigationGuard(deps.Navigator, deps.Sessions))
	for _, p := range service.Pages {
		pages.GET(p.Pattern, deps.PageHandler.Show)
	}

	// JSON routes for the presentational layer.
	api := router.Group("/api")
	api.Use(middleware.Idempotency(deps.ReplayStore))
	{
		api.GET("/session", deps.UserHandler.Session)

		auth := api.Group("/auth")
		{
			auth.POST("/login", deps.UserHandler.Login)
			auth.POST("/register", deps.UserHandler.Register)
			auth.POST("/logout", deps.UserHandler.Logout)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", deps.NotificationHandler.GetAll)
			notifications.POST("/read", deps.NotificationHandler.MarkRead)
			notifications.POST("/read-all", deps.NotificationHandler.MarkAllRead)
			notifications.POST("/:id/open", deps.NotificationHandler.Open)
		}

		driver := api.Group("/driver")
		{
			driver.GET("/trips", deps.TripHandler.GetMyOffers)
			driver.GET("/trips/:id", deps.TripHandler.GetOffer)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/reports", deps.ReportHandler.GetFeed)
			admin.POST("/audit/export", deps.ReportHandler.ExportAudit)
		}
	}

	return router
}
