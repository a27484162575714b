package rest

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const localsUser = "user"

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			// Render the error now so the logged status is the one sent.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		s.logger.Info(c.UserContext(), "request",
			"method", c.Method(),
			// Route pattern, not the raw path: some paths carry tokens.
			"route", c.Route().Path,
			"status", c.Response().StatusCode(),
			"duration", time.Since(start).String(),
		)
		return nil
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authRequired resolves the bearer access token to a user and stores it in
// the request locals. Any failure is reported as a uniform 401.
func (s *Server) authRequired(c *fiber.Ctx) error {
	ctx := c.UserContext()

	token, ok := bearerToken(c.Get(common.AuthorizationHeader))
	if !ok {
		s.logger.Warn(ctx, "authentication rejected", "op", "resolve identity", "reason", "missing bearer token")
		return common.ErrInvalidToken
	}

	user, err := s.users.ResolveIdentity(ctx, token)
	if errors.Is(err, common.ErrorInternal) {
		return err
	}
	if err != nil {
		s.logger.Warn(ctx, "authentication rejected", "op", "resolve identity", "reason", err.Error())
		return common.ErrInvalidToken
	}

	c.Locals(localsUser, user)
	return c.Next()
}

func currentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(localsUser).(*models.User)
	return u
}

// rateLimit allows RateLimitMax requests per client IP per RateLimitWindow.
func (s *Server) rateLimit() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        s.cfg.RateLimitMax,
		Expiration: s.cfg.RateLimitWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(errorResponse{Detail: detailRateLimited})
		},
	})
}
