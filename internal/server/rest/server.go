// Package rest is the HTTP boundary of the contact book: routing, request
// validation, rate limiting, CORS and translation of service errors into
// status codes.
package rest

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// APIPrefix is prepended to every versioned route.
const APIPrefix = "/api/v1"

const shutdownTimeout = 5 * time.Second

type Server struct {
	address  string
	app      *fiber.App
	users    *services.UserService
	contacts *services.ContactService
	validate *validator.Validate
	logger   logging.Logger
	cfg      *config.Config
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, cs *services.ContactService) *Server {
	s := &Server{
		address:  cfg.EndpointAddrHTTP,
		users:    us,
		contacts: cs,
		validate: newValidator(),
		logger:   l.With("module", "http_server"),
		cfg:      cfg,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "contactbook",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(s.corsMiddleware())
	s.app.Use(s.requestLogger())
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	api := s.app.Group(APIPrefix)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", s.rateLimit(), s.signup)
	authGroup.Post("/login", s.login)
	authGroup.Get("/refresh_token", s.refreshToken)
	authGroup.Get("/confirmed_email/:token", s.confirmEmail)
	authGroup.Post("/request_email", s.requestEmail)
	authGroup.Post("/logout", s.authRequired, s.logout)

	usersGroup := api.Group("/users", s.authRequired)
	usersGroup.Get("/me", s.me)
	usersGroup.Patch("/avatar", s.updateAvatar)

	writes := s.rateLimit()
	contactsGroup := api.Group("/contacts", s.authRequired)
	contactsGroup.Get("/", s.listContacts)
	contactsGroup.Get("/birthday", s.upcomingBirthdays)
	contactsGroup.Get("/:id", s.getContact)
	contactsGroup.Post("/", writes, s.createContact)
	contactsGroup.Put("/:id", writes, s.updateContact)
	contactsGroup.Delete("/:id", writes, s.deleteContact)
}

func (s *Server) corsMiddleware() fiber.Handler {
	origins := s.cfg.AllowedOrigins()
	if len(origins) == 0 {
		return cors.New(cors.Config{AllowOrigins: "*"})
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
	})
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.app.Listen(s.address); err != nil {
		return err
	}

	return nil
}
