// Package handler exposes the assessment over HTTP: the HTML form and a
// JSON API with the same semantics.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Skufu/heartrisk/internal/assessment"
	"github.com/Skufu/heartrisk/internal/charts"
	"github.com/Skufu/heartrisk/internal/report"
)

// HealthChecker is an optional dependency pinged by /readyz.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	service  *assessment.Service
	renderer charts.Renderer
	logger   *slog.Logger
}

func New(service *assessment.Service, renderer charts.Renderer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, renderer: renderer, logger: logger}
}

// NewRouter wires middleware and routes. db may be nil.
func NewRouter(h *Handler, db HealthChecker) (*gin.Engine, error) {
	tmpl, err := report.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	router.Use(
		RequestLogger(h.logger),
		gin.Recovery(),
		LimitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", http.FS(report.Static()))

	router.GET("/", h.Form)
	router.POST("/predict", h.Predict)

	api := router.Group("/api/v1")
	{
		api.GET("/schema", h.Schema)
		api.POST("/assessments", h.CreateAssessment)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", readiness(h.service, db))
	router.GET("/metrics", gin.WrapH(h.service.Metrics().Handler()))

	return router, nil
}

func readiness(svc *assessment.Service, db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body := gin.H{"status": "ok", "model": "ok", "db": "disabled"}
		status := http.StatusOK

		if err := svc.CheckModel(ctx); err != nil {
			body["model"] = fmt.Sprintf("unavailable: %v", err)
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if db != nil {
			body["db"] = "ok"
			if err := db.Ping(ctx); err != nil {
				body["db"] = fmt.Sprintf("unhealthy: %v", err)
				body["status"] = "degraded"
				status = http.StatusServiceUnavailable
			}
		}

		c.JSON(status, body)
	}
}
