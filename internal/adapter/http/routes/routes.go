package routes

import (
	"fmt"
	"net/http"

	"eventsapp/internal/adapter/http/handler"
	"eventsapp/internal/adapter/http/middleware"
	"eventsapp/internal/core/port"
	"eventsapp/pkg/auth"
	"eventsapp/pkg/config"
	"eventsapp/pkg/response"
	"eventsapp/pkg/tracing"

	"github.com/gin-gonic/gin"
)

type HandlersConfig struct {
	AuthHandler  *handler.AuthHandler
	UserHandler  *handler.UserHandler
	EventHandler *handler.EventHandler
	Tokens       *auth.TokenManager
	Users        port.UserRepository
}

// SetupRouter builds the production router: full middleware chain, /api/v1
// groups, 404 catch-all.
func SetupRouter(handlers HandlersConfig, cfg *config.AppConfig, metrics *tracing.AppMetrics, logger *config.AppLogger, cache *response.ResponseCache) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middleware.SetupObservability(router, "eventsapp", metrics, logger)

	router.Use(gin.Recovery())
	router.Use(middleware.SecureHeaders())
	router.Use(middleware.CORS())
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, logger.Zap(), metrics)
		router.Use(limiter.Middleware())
	}

	if cache != nil && cfg.CacheEnabled {
		router.Use(cache.CacheMiddleware())
	}

	registerRoutes(router, handlers)

	return router
}

// SetupRouterForTests skips the observability and throttling layers so tests
// exercise routing and handlers only.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	registerRoutes(router, handlers)

	return router
}

func registerRoutes(router *gin.Engine, handlers HandlersConfig) {
	protect := middleware.Protect(handlers.Tokens, handlers.Users)

	v1 := router.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("", handlers.AuthHandler.Signup)
		users.POST("/login", handlers.AuthHandler.Login)

		users.GET("", protect, handlers.UserHandler.GetAllUsers)
		users.GET("/me", protect, handlers.UserHandler.GetMe)
		users.GET("/dynamic", protect, handlers.UserHandler.DynamicQuery)
		users.GET("/aggregate", protect, handlers.UserHandler.AggregateQuery)
		users.PATCH("/updateMe", protect, handlers.UserHandler.UpdateMe)
		users.PATCH("/updatePassword", protect, handlers.AuthHandler.UpdatePassword)
		users.DELETE("/deleteMe", protect, handlers.UserHandler.DeleteMe)

		users.GET("/:id", protect, middleware.RestrictTo("admin", "leads"), handlers.UserHandler.GetUser)
	}

	events := v1.Group("/events")
	{
		events.GET("", protect, handlers.EventHandler.GetAllEvents)
		events.POST("", protect, handlers.EventHandler.CreateEvent)
		events.GET("/startDate/:date", protect, handlers.EventHandler.QueryByStartDate)
		events.GET("/distances/:latlon/unit/:unit", handlers.EventHandler.GetDistances)

		events.GET("/:id", protect, handlers.EventHandler.GetEvent)
		events.PATCH("/:id", protect, handlers.EventHandler.UpdateEvent)
		events.DELETE("/:id", protect, handlers.EventHandler.DeleteEvent)
		events.GET("/:id/participants", handlers.EventHandler.GetParticipantNames)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "fail",
			"message": fmt.Sprintf("Can't find %s on this server!", c.Request.URL.Path),
		})
	})
}
