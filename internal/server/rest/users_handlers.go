package rest

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) me(c *fiber.Ctx) error {
	return c.JSON(newUserResponse(currentUser(c)))
}

func (s *Server) updateAvatar(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: multipart field \"file\" is required", common.ErrorValidation)
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	image, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	user, err := s.users.UpdateAvatar(c.UserContext(), currentUser(c), fh.Header.Get(fiber.HeaderContentType), image)
	if err != nil {
		return err
	}

	return c.JSON(newUserResponse(user))
}
