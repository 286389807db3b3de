// Package api wires the HTTP handlers into a gin engine.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"battery-savings/internal/api/handlers"
	"battery-savings/internal/api/middleware"
	"battery-savings/internal/api/models"
)

type Options struct {
	CORSOrigins []string
	// StaticDir is served for non-API routes when it exists.
	StaticDir string
	// Gatherer backs /metrics. Nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(deps *handlers.Deps, opts Options) *gin.Engine {
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(middleware.Logger(deps.Log))
	router.Use(middleware.ErrorHandler(deps.Log))

	// Initialize handlers
	savingsHandler := handlers.NewSavingsHandler(deps)
	insightsHandler := handlers.NewInsightsHandler(deps)
	planHandler := handlers.NewPlanHandler(deps)
	batteryHandler := handlers.NewBatteryHandler(deps)
	strategyHandler := handlers.NewStrategyHandler()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/savings", savingsHandler.Calculate)
		api.GET("/savings/:id/ledger", savingsHandler.GetLedger)
		api.POST("/savings/compare", savingsHandler.Compare)
		api.POST("/plan", planHandler.Plan)

		api.POST("/insights", insightsHandler.Insights)
		api.GET("/strategy_evaluation", insightsHandler.StrategyEvaluation)
		api.GET("/load_profile", insightsHandler.LoadProfile)

		api.GET("/batteries", batteryHandler.ListBatteries)
		api.GET("/strategies", strategyHandler.ListStrategies)
	}

	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	}

	// Serve static files (if the directory exists)
	if info, err := os.Stat(opts.StaticDir); opts.StaticDir != "" && err == nil && info.IsDir() {
		router.Static("/assets", filepath.Join(opts.StaticDir, "assets"))
		router.StaticFile("/favicon.ico", filepath.Join(opts.StaticDir, "favicon.ico"))

		// Serve index.html for all non-API routes (SPA routing)
		index := filepath.Join(opts.StaticDir, "index.html")
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				notFound(c)
				return
			}
			c.File(index)
		})
		deps.Log.Infof("serving static files from %s", opts.StaticDir)
	} else {
		router.NoRoute(notFound)
	}

	return router
}
