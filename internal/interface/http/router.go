package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cropwise/fieldadvisor/internal/domain/auth"
	"github.com/cropwise/fieldadvisor/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
		errorHandlingMiddleware(handler.logger, cfg.HTTP.Debug),
	)

	api := router.Group("/api/v1")
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/refresh", handler.Refresh)
	}

	authed := api.Group("")
	authed.Use(authMiddleware(authSvc))
	{
		authed.GET("/auth/profile", handler.Profile)
		authed.POST("/auth/roles", handler.AssignRoles)

		authed.POST("/farms", handler.CreateFarm)
		authed.GET("/farms", handler.ListFarms)
		authed.GET("/farms/:id", handler.GetFarm)
		authed.PUT("/farms/:id", handler.UpdateFarm)
		authed.DELETE("/farms/:id", handler.DeleteFarm)

		authed.POST("/farms/:id/plants", handler.CreatePlant)
		authed.GET("/farms/:id/plants", handler.ListPlants)
		authed.PUT("/farms/:id/plants/:plantID", handler.UpdatePlant)
		authed.DELETE("/farms/:id/plants/:plantID", handler.DeletePlant)

		authed.POST("/farms/:id/sprays", handler.CreateSpray)
		authed.GET("/farms/:id/sprays", handler.ListSprays)
		authed.DELETE("/farms/:id/sprays/:sprayID", handler.DeleteSpray)

		authed.POST("/farms/:id/weather", handler.CreateWeatherRecord)
		authed.GET("/farms/:id/weather", handler.ListWeatherRecords)
		authed.DELETE("/farms/:id/weather/:recordID", handler.DeleteWeatherRecord)
		authed.POST("/farms/:id/weather/:recordID/recommendation", handler.RecommendPlanting)

		authed.POST("/diagnosis", handler.DiagnosePlant)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
