// Package http assembles the gin route tree and the HTTP server for the
// molgraph API.
package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molgraph/internal/interfaces/http/handlers"
)

// RouterConfig aggregates everything the route tree needs.
type RouterConfig struct {
	Mode     string // gin mode: "debug" | "release" | "test"
	Molecule *handlers.MoleculeHandler
	Health   *handlers.HealthHandler
	Logger   logging.Logger
	Metrics  *prometheus.Metrics
}

// NewRouter builds the complete gin engine: observability middleware,
// public health endpoints, the metrics endpoint, and the v1 molecule API.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability(cfg.Logger, cfg.Metrics))

	r.GET("/healthz", cfg.Health.Live)
	r.GET("/readyz", cfg.Health.Ready)
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		mol := v1.Group("/molecules")
		mol.POST("", cfg.Molecule.Register)
		mol.POST("/parse", cfg.Molecule.Parse)
		mol.POST("/canonicalize", cfg.Molecule.Canonicalize)
		mol.POST("/kekulize", cfg.Molecule.Kekulize)
		mol.POST("/delocalize", cfg.Molecule.Delocalize)
		mol.POST("/similarity", cfg.Molecule.Similarity)
	}
	return r
}

// observability logs each request and records the HTTP metrics.
func observability(logger logging.Logger, metrics *prometheus.Metrics) gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		elapsed := time.Since(started)

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, statusLabel(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path).Observe(elapsed.Seconds())

		log.Debug("request handled",
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", status),
			logging.Duration("elapsed", elapsed))
	}
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
