package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/elden-builds/backend/internal/config"
	"github.com/emilythestrangee/elden-builds/backend/internal/handlers"
	"github.com/emilythestrangee/elden-builds/backend/internal/middleware"
)

// HealthChecker reports backing store health for /health.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	cfg     *config.Config
	db      HealthChecker
	handler *handlers.Handler
	logger  *slog.Logger
}

// NewServer creates and configures a new server
func NewServer(cfg *config.Config, db HealthChecker, handler *handlers.Handler, logger *slog.Logger) *http.Server {
	s := &Server{
		cfg:     cfg,
		db:      db,
		handler: handler,
		logger:  logger,
	}

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  cfg.Server.IdleTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(s.logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.health)

	optionalAuth := middleware.AuthOptional(s.cfg.JWT)

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Public reads; a valid token adds the caller's like and vote state
		api.GET("/builds", optionalAuth, s.handler.Build.GetBuilds)
		api.GET("/builds/:id", optionalAuth, s.handler.Build.GetBuild)
		api.GET("/builds/:id/comments", optionalAuth, s.handler.Comment.GetComments)
		api.GET("/users/:username", s.handler.User.GetProfile)

		protected := api.Group("")
		protected.Use(middleware.AuthRequired(s.cfg.JWT))
		{
			protected.GET("/me", s.handler.Auth.Me)
			protected.PUT("/me/profile", s.handler.User.UpdateProfile)
			protected.GET("/me/preferences", s.handler.User.GetPreferences)
			protected.PUT("/me/preferences", s.handler.User.UpdatePreferences)

			protected.POST("/builds", s.handler.Build.CreateBuild)
			protected.PUT("/builds/:id", s.handler.Build.UpdateBuild)
			protected.DELETE("/builds/:id", s.handler.Build.DeleteBuild)
			protected.POST("/builds/:id/like", s.handler.Build.ToggleLike)

			protected.POST("/builds/:id/comments", s.handler.Comment.CreateComment)
			protected.PUT("/comments/:id", s.handler.Comment.UpdateComment)
			protected.DELETE("/comments/:id", s.handler.Comment.DeleteComment)
			protected.POST("/comments/:id/vote/:vote_type", s.handler.Comment.VoteComment)

			protected.GET("/notifications", s.handler.Notification.GetNotifications)
			protected.GET("/notifications/unread-count", s.handler.Notification.UnreadCount)
			protected.POST("/notifications/read", s.handler.Notification.MarkRead)
			protected.POST("/notifications/read-all", s.handler.Notification.MarkAllRead)
			protected.POST("/notifications/:id/read", s.handler.Notification.MarkOneRead)
			protected.DELETE("/notifications/:id", s.handler.Notification.DeleteNotification)
		}
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	stats := s.db.Health(c.Request.Context())
	if stats["status"] != "up" {
		c.JSON(http.StatusServiceUnavailable, stats)
		return
	}
	c.JSON(http.StatusOK, stats)
}
