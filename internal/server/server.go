// internal/server/server.go

// Package server exposes the recommendation engine over HTTP.
package server

import (
	"context"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parche-recommender/internal/catalog"
	"parche-recommender/internal/common/config"
	"parche-recommender/internal/models"
	"parche-recommender/internal/recommendation"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Responder is satisfied by *recommendation.Engine.
type Responder interface {
	Respond(ctx context.Context, req recommendation.Request) (models.EngineResponse, error)
}

// Check is a named readiness probe, e.g. a database ping.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type Dependencies struct {
	Engine  Responder
	Catalog catalog.Snapshotter
	Logger  Logger
	Checks  []Check
}

type Server struct {
	app  *fiber.App
	cfg  config.ServerConfig
	deps Dependencies
}

func New(cfg config.ServerConfig, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = nopLogger{}
	}

	bodyLimit := cfg.BodyLimitBytes
	if bodyLimit <= 0 {
		bodyLimit = 256 * 1024
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(deps.Logger),
	})

	origins := cfg.CorsAllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + clientIDHeader,
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type, " + requestIDHeader,
	}))
	app.Use(otelfiber.Middleware())
	app.Use(requestID())

	s := &Server{app: app, cfg: cfg, deps: deps}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	throttle := newThrottle(
		time.Duration(s.cfg.ThrottleInterval)*time.Millisecond,
		time.Duration(s.cfg.ThrottleIdleTTL)*time.Millisecond,
	)

	chat := &chatHandler{
		engine:  s.deps.Engine,
		catalog: s.deps.Catalog,
		logger:  s.deps.Logger,
		timeout: time.Duration(s.cfg.RequestTimeout) * time.Millisecond,
	}
	plans := &plansHandler{catalog: s.deps.Catalog, logger: s.deps.Logger}
	health := &healthHandler{catalog: s.deps.Catalog, checks: s.deps.Checks}

	api := s.app.Group("/api")
	api.Post("/chat", throttle.middleware(s.deps.Logger), chat.handle)
	api.Get("/plans", plans.list)

	s.app.Get("/health", health.live)
	s.app.Get("/ready", health.ready)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.deps.Logger.Info("http server listening", map[string]interface{}{"address": s.cfg.Address()})
	return s.app.Listen(s.cfg.Address())
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
