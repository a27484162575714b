package rest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=250"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type loginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type contactRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Phone     string  `json:"phone" validate:"required,e164"`
	Email     *string `json:"email" validate:"omitempty,email,max=70"`
	Birthday  *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

func (r contactRequest) toData() (models.ContactData, error) {
	phone := r.Phone
	data := models.ContactData{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     &phone,
		Email:     r.Email,
	}
	if r.Birthday != nil {
		b, err := time.Parse(dateLayout, *r.Birthday)
		if err != nil {
			return data, fmt.Errorf("%w: birthday: %v", common.ErrorValidation, err)
		}
		data.Birthday = &b
	}
	return data, nil
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	Confirmed bool      `json:"confirmed"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.UserName,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		Confirmed: u.Confirmed,
	}
}

type signupResponse struct {
	User   userResponse `json:"user"`
	Detail string       `json:"detail"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type contactResponse struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Birthday  *string `json:"birthday"`
}

func newContactResponse(c *models.Contact) contactResponse {
	r := contactResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Email:     c.Email,
	}
	if c.Birthday != nil {
		b := c.Birthday.Format(dateLayout)
		r.Birthday = &b
	}
	return r
}

func newContactList(cs []*models.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, newContactResponse(c))
	}
	return out
}

// parseJSON decodes the body into dst and validates it.
func (s *Server) parseJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	return s.check(dst)
}

// check runs struct validation and turns failures into common.ErrorValidation.
func (s *Server) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(msgs, "; "))
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}
