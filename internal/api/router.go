package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/spaceapp/space-api/internal/api/graphql"
	"github.com/spaceapp/space-api/internal/api/handler"
	"github.com/spaceapp/space-api/internal/api/middleware"
	"github.com/spaceapp/space-api/internal/core/authz"
	"github.com/spaceapp/space-api/internal/core/ports"
)

// Deps holds everything the router wires into handlers and middleware.
type Deps struct {
	Planets ports.PlanetService
	Moons   ports.MoonService
	Users   ports.UserService
	Auth    ports.AuthService
	Policy  *authz.Policy

	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handler.Check

	Logger      zerolog.Logger
	CORSOrigins []string
	// RateLimiter is optional; nil disables per-client limiting.
	RateLimiter *middleware.RateLimiter
	// Registry receives HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	schema, err := graphql.LoadSchema()
	if err != nil {
		return nil, err
	}
	if d.Policy == nil {
		d.Policy = authz.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)
	validator := handler.NewValidator()
	e.Validator = validator

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	if len(d.CORSOrigins) > 0 {
		e.Use(middleware.CORS(d.CORSOrigins))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(d.Registry)))
	if d.RateLimiter != nil {
		e.Use(d.RateLimiter.Middleware())
	}

	// --- Dependencies ---
	planetHandler := handler.NewPlanetHandler(d.Planets)
	moonHandler := handler.NewMoonHandler(d.Moons)
	authHandler := handler.NewAuthHandler(d.Auth)
	gqlHandler := graphql.NewHandler(graphql.NewExecutor(schema, d.Users, d.Policy, validator, d.Logger))
	authMiddleware := middleware.Auth(d.Auth)

	// --- Health probes and tooling (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)                // liveness: is the process alive?
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(handlerConfig(d.Registry)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	// --- REST API (authenticated, policy enforced before any handler) ---
	apiGroup := e.Group("/api", authMiddleware, middleware.RBAC(d.Policy))

	planets := apiGroup.Group("/planets")
	planets.GET("", planetHandler.List)
	planets.POST("", planetHandler.Create)
	planets.GET("/names", planetHandler.Names)
	planets.GET("/fields/name-mass", planetHandler.NameMass)
	planets.GET("/:id", planetHandler.Get)
	planets.PUT("/:id", planetHandler.Update)
	planets.DELETE("/:id", planetHandler.Delete)
	planets.GET("/:id/moons", planetHandler.Moons)

	moons := apiGroup.Group("/moons")
	moons.GET("", moonHandler.List)
	moons.POST("", moonHandler.Create)
	moons.GET("/count", moonHandler.Count)
	moons.GET("/:id", moonHandler.Get)
	moons.PUT("/:id", moonHandler.Update)
	moons.DELETE("/:id", moonHandler.Delete)

	// --- GraphQL (authenticated, authorized per root field) ---
	e.POST("/graphql", gqlHandler.Serve, authMiddleware)

	return e, nil
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "space_api",
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func handlerConfig(reg *prometheus.Registry) echoprometheus.HandlerConfig {
	if reg == nil {
		return echoprometheus.HandlerConfig{}
	}
	return echoprometheus.HandlerConfig{Gatherer: reg}
}
