package rest

import (
	"errors"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

func tokenPairResponse(p *services.TokenPair) tokenResponse {
	return tokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, TokenType: common.TokenTypeBearer}
}

func (s *Server) signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := s.parseJSON(c, &req); err != nil {
		return err
	}

	user, err := s.users.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(signupResponse{
		User:   newUserResponse(user),
		Detail: "User successfully created. Check your email for confirmation.",
	})
}

// login takes an OAuth2 password-style form where username carries the email.
func (s *Server) login(c *fiber.Ctx) error {
	form := loginForm{Username: c.FormValue("username"), Password: c.FormValue("password")}
	if err := s.check(form); err != nil {
		return err
	}

	pair, err := s.users.Login(c.UserContext(), form.Username, form.Password)
	if err != nil {
		return err
	}

	return c.JSON(tokenPairResponse(pair))
}

func (s *Server) refreshToken(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(common.AuthorizationHeader))
	if !ok {
		return common.ErrInvalidToken
	}

	pair, err := s.users.RefreshToken(c.UserContext(), token)
	if err != nil {
		return err
	}

	return c.JSON(tokenPairResponse(pair))
}

func (s *Server) confirmEmail(c *fiber.Ctx) error {
	err := s.users.ConfirmEmail(c.UserContext(), c.Params("token"))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return fiber.NewError(fiber.StatusBadRequest, detailVerification)
		}
		return err
	}

	return c.JSON(messageResponse{Message: "Email confirmed"})
}

func (s *Server) requestEmail(c *fiber.Ctx) error {
	var req emailRequest
	if err := s.parseJSON(c, &req); err != nil {
		return err
	}

	if err := s.users.RequestConfirmation(c.UserContext(), req.Email); err != nil {
		return err
	}

	return c.JSON(messageResponse{Message: "Check your email for confirmation."})
}

func (s *Server) logout(c *fiber.Ctx) error {
	if err := s.users.Logout(c.UserContext(), currentUser(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
