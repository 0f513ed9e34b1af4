// Package api stellt die REST-Schnittstelle unter /api bereit. Handler
// binden nur Eingaben, rufen genau einen Service auf und übersetzen dessen
// Fehler über respondError.
package api

import (
	"context"
	"net/http"
	"time"

	"screen-ai/config"
	"screen-ai/database"
	"screen-ai/metrics"
	"screen-ai/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server hält die Abhängigkeiten der Handler.
type Server struct {
	Config   *config.Config
	DB       *gorm.DB
	Logger   *zap.Logger
	Services *services.Services
	Registry *prometheus.Registry
}

func NewServer(cfg *config.Config, db *gorm.DB, logger *zap.Logger, svc *services.Services, registry *prometheus.Registry) *Server {
	return &Server{Config: cfg, DB: db, Logger: logger.With(zap.String("component", "api")), Services: svc, Registry: registry}
}

// Router baut die gin-Engine mit Middleware und allen Routen.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(s.Logger))
	router.Use(cors.New(s.corsConfig()))
	router.Use(otelgin.Middleware(s.Config.AppName))
	router.Use(metrics.Middleware())

	router.GET("/health", s.health)
	if s.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})))
	}

	apiGroup := router.Group("/api")
	limiter := newLoginLimiter(s.Config.LoginRatePerSecond, s.Config.LoginRateBurst, s.Logger)
	setupAuthRoutes(apiGroup, s, limiter)

	authed := apiGroup.Group("", requireAuth(s.Services.Auth, s.Logger))
	setupProjectRoutes(authed, s)
	setupExperimentRoutes(authed, s)
	setupPlateRoutes(authed, s)
	setupWellRoutes(authed, s)
	setupImageRoutes(authed, s)
	setupAnalysisRoutes(authed, s)
	setupCompoundRoutes(authed, s)
	setupCurveRoutes(authed, s)
	return router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	origins := s.Config.AllowedOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := database.Ping(ctx, s.DB); err != nil {
		s.Logger.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
