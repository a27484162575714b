package rest

import (
	"errors"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/gofiber/fiber/v2"
)

const (
	detailUnauthorized = "Could not validate credentials"
	detailConflict     = "Account already exists"
	detailNotFound     = "Not found"
	detailInternal     = "Internal server error"
	detailVerification = "Verification error"
	detailRateLimited  = "Too many requests"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// errorHandler renders every error as {"detail": ...}. All Unauthorized
// reasons share one body so callers cannot tell which check failed.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code, detail := fiber.StatusInternalServerError, detailInternal

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code, detail = fiberErr.Code, fiberErr.Message
	case errors.Is(err, common.ErrorUnauthorized):
		code, detail = fiber.StatusUnauthorized, detailUnauthorized
	case errors.Is(err, common.ErrorValidation):
		code, detail = fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, common.ErrEmailTaken):
		code, detail = fiber.StatusConflict, detailConflict
	case errors.Is(err, common.ErrorConflict):
		code, detail = fiber.StatusConflict, err.Error()
	case errors.Is(err, common.ErrorNotFound):
		code, detail = fiber.StatusNotFound, detailNotFound
	default:
		s.logger.Error(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err.Error())
	}

	if code == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, common.BearerScheme)
	}

	return c.Status(code).JSON(errorResponse{Detail: detail})
}
