package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"atlas/internal/handler"
	"atlas/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	ActivityHandler *handler.ActivityHandler
	CalendarHandler *handler.CalendarHandler
	WizardHandler   *handler.WizardHandler
	BookingHandler  *handler.BookingHandler
	RedisClient     redis.Cmdable
	NewRelicApp     *newrelic.Application
	RateLimiter     *middleware.RateLimiter
	AllowedOrigins  []string
	Logger          *zap.Logger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(deps.AllowedOrigins))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.Idempotency(deps.RedisClient, logger))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Submissions are throttled per client IP.
	throttle := func(c *gin.Context) { c.Next() }
	if deps.RateLimiter != nil {
		throttle = deps.RateLimiter.Middleware()
	}

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Activity routes.
		activities := v1.Group("/activities")
		{
			activities.GET("", deps.ActivityHandler.List)
			activities.GET("/:id", deps.ActivityHandler.Get)
			activities.GET("/:id/quote", deps.ActivityHandler.Quote)
		}

		// Calendar routes.
		v1.GET("/calendar", deps.CalendarHandler.Month)

		// Wizard routes.
		wizards := v1.Group("/wizards")
		{
			wizards.POST("", deps.WizardHandler.Start)
			wizards.GET("/:id", deps.WizardHandler.Get)
			wizards.DELETE("/:id", deps.WizardHandler.Discard)
			wizards.PUT("/:id/contact", deps.WizardHandler.UpdateContact)
			wizards.POST("/:id/next", deps.WizardHandler.Next)
			wizards.POST("/:id/back", deps.WizardHandler.Back)
			wizards.PUT("/:id/guests", deps.WizardHandler.UpdateGuests)
			wizards.POST("/:id/submit", throttle, deps.WizardHandler.Submit)
			wizards.POST("/:id/close", deps.WizardHandler.Close)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", throttle, deps.BookingHandler.Create)
			bookings.GET("/:id", deps.BookingHandler.Get)
			bookings.GET("/:id/voucher.pdf", deps.BookingHandler.Voucher)
			bookings.GET("/reference/:ref", deps.BookingHandler.GetByReference)
		}
	}

	return router
}
