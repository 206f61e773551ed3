// Package api serves the catalog over a small read-only HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dunyajewellery/catalogbot/core/logger"
	"github.com/dunyajewellery/catalogbot/internal/catalog"
)

// Options wires the API to its data sources.
type Options struct {
	Addr    string
	AppName string
	// Products and Contacts are read only; the API never writes.
	Products catalog.ProductRepository
	Contacts catalog.ContactRepository
	// Ping checks the database for /api/health.
	Ping func(ctx context.Context) error
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Server is the HTTP API.
type Server struct {
	app  *fiber.App
	addr string
	h    *handlers
}

// New builds the fiber app and registers every route.
func New(opts Options) (*Server, error) {
	if opts.Products == nil || opts.Contacts == nil {
		return nil, errors.New("api: repositories are required")
	}
	if opts.Ping == nil {
		opts.Ping = func(context.Context) error { return nil }
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(accessLog())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, OPTIONS",
	}))

	h := &handlers{
		appName:  opts.AppName,
		products: opts.Products,
		contacts: opts.Contacts,
		ping:     opts.Ping,
	}
	app.Get("/", h.root)

	api := app.Group("/api")
	api.Get("/health", h.health)
	api.Get("/products", h.listProducts)
	api.Get("/products/:id", h.getProduct)
	api.Get("/contact", h.contact)

	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	return &Server{app: app, addr: opts.Addr, h: h}, nil
}

// Listen serves until Shutdown is called.
func (s *Server) Listen() error {
	logger.API.Info("http server listening",
		slog.String("event", "api.listen"),
		slog.String("addr", s.addr),
	)
	if err := s.app.Listen(s.addr); err != nil {
		return fmt.Errorf("api listen %s: %w", s.addr, err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	start := time.Now()
	err := s.app.ShutdownWithContext(ctx)
	logger.API.Info("http server stopped",
		slog.String("event", "api.stop"),
		slog.String("status", logger.Status(err)),
		slog.Duration("took_ms", logger.Took(start)),
	)
	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code, msg = fe.Code, fe.Message
	} else {
		logger.Error(c.UserContext(), logger.ComponentAPI, "http.error",
			slog.String("path", c.Path()),
			slog.String("err", err.Error()),
		)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func accessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if rid := c.GetRespHeader(fiber.HeaderXRequestID); rid != "" {
			c.SetUserContext(logger.WithRID(c.UserContext(), rid))
		}
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			status = fe.Code
		case err != nil:
			status = fiber.StatusInternalServerError
		}

		logger.Debug(c.UserContext(), logger.ComponentAPI, "http.request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			slog.Duration("took_ms", logger.Took(start)),
		)
		return err
	}
}
