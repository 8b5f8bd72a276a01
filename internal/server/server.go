package server

import (
	"errors"

	"catalog/harvester/internal/repository"
	"catalog/harvester/internal/state"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Dependencies are the read side stores the API serves from.
type Dependencies struct {
	Brands   repository.BrandRepository
	Trends   repository.TrendRepository
	Runs     state.StateManager
	Registry *prometheus.Registry
}

// Server wraps the Fiber app and its listen address.
type Server struct {
	App  *fiber.App
	addr string
}

// New creates the read API with middleware and routes configured.
func New(addr string, deps Dependencies) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	h := &handlers{
		brands: deps.Brands,
		trends: deps.Trends,
		runs:   deps.Runs,
	}

	app.Get("/categories", h.listCategories)
	app.Get("/brands", h.listBrands)
	app.Get("/trends", h.listTrends)
	app.Get("/runs/:pipeline", h.lastRun)

	if deps.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	return &Server{
		App:  app,
		addr: addr,
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	log.Infof("🚀 Read API listening on %s", s.addr)
	return s.App.Listen(s.addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}

// errorHandler keeps client errors as they are and hides everything else
// behind a plain 500.
func errorHandler(c fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).SendString(fiberErr.Message)
	}

	log.Errorf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).SendString("Server error")
}
