// Package server serves read-only previews of the project files in one
// directory over HTTP.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/gogpu/canvas"
)

// Server is the preview HTTP server.
type Server struct {
	cfg Config
	app *fiber.App
}

// New builds the server and registers its routes.
func New(cfg Config) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "canvas preview",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	if !cfg.Quiet {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}

	h := &handlers{root: cfg.Root}
	app.Get("/health", h.health)
	app.Get("/projects", h.listProjects)
	app.Get("/projects/:name", h.project)
	app.Get("/projects/:name/composite.png", h.composite)
	app.Get("/projects/:name/layers/:index/thumbnail.png", h.thumbnail)

	return &Server{cfg: cfg, app: app}
}

// App exposes the underlying fiber application, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves until the server is shut down.
func (s *Server) Listen() error {
	canvas.Logger().Info("server: listening", "addr", s.cfg.Addr, "root", s.cfg.Root)
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// errorHandler renders every error as {"error": message}.
func errorHandler(c fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	msg := "internal error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code, msg = fe.Code, fe.Message
	} else {
		canvas.Logger().Warn("server: request failed", "path", c.Path(), "err", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
