package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/salestrack/salestrack-api/docs"
	"github.com/salestrack/salestrack-api/internal/api/handler"
	"github.com/salestrack/salestrack-api/internal/api/middleware"
	"github.com/salestrack/salestrack-api/internal/core/ports"
	"github.com/salestrack/salestrack-api/internal/infrastructure/http/handlers"
)

// Deps holds everything the router wires into handlers. Ready lists the
// backing services checked by GET /health/ready. Registry receives the HTTP
// metrics; nil means the Prometheus default registry.
type Deps struct {
	Auth      ports.AuthService
	Sales     ports.SaleService
	Analytics ports.AnalyticsService
	Ready     []handlers.Dependency
	Log       zerolog.Logger
	Registry  *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "salestrack",
		Registerer: registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	// liveness: is the process alive?
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	// readiness: are Mongo and Redis reachable?
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(d.Ready...).Readiness)
	e.GET("/prometheus", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	saleHandler := handler.NewSaleHandler(d.Sales)
	metricsHandler := handler.NewMetricsHandler(d.Analytics)
	vizHandler := handler.NewVisualizationHandler(d.Analytics)
	authMiddleware := middleware.Auth(d.Auth)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Sales ledger ---
	sales := api.Group("/sales", authMiddleware)
	sales.GET("", saleHandler.List)
	sales.GET("/daterange", saleHandler.DateRange)
	sales.GET("/category/:category", saleHandler.ByCategory)
	sales.GET("/region/:region", saleHandler.ByRegion)
	sales.GET("/:id", saleHandler.Get)
	sales.POST("", saleHandler.Create)
	sales.PUT("/:id", saleHandler.Update)
	sales.DELETE("/:id", saleHandler.Delete)

	// --- Dashboard metrics ---
	m := api.Group("/metrics", authMiddleware)
	m.GET("", metricsHandler.Get)
	m.GET("/today", metricsHandler.Today)
	m.GET("/week", metricsHandler.Week)
	m.GET("/month", metricsHandler.Month)

	// --- Chart data ---
	viz := api.Group("/visualization", authMiddleware)
	viz.GET("/charts", vizHandler.Charts)
	viz.GET("/by-category", vizHandler.ByCategory)
	viz.GET("/by-region", vizHandler.ByRegion)
	viz.GET("/time-series", vizHandler.TimeSeries)

	return e
}
