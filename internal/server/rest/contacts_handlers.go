package rest

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

const detailContactNotFound = "Contact not found"

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", common.ErrorValidation, key)
	}
	return v, nil
}

func contactID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: id must be a positive integer", common.ErrorValidation)
	}
	return id, nil
}

// contactResult renders one contact, or 404 when the owner has none with that id.
func contactResult(c *fiber.Ctx, contact *models.Contact, err error) error {
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fiber.NewError(fiber.StatusNotFound, detailContactNotFound)
		}
		return err
	}
	return c.JSON(newContactResponse(contact))
}

// listContacts pages through the caller's contacts. A first_name, last_name
// or email filter narrows the result to at most one exact match.
func (s *Server) listContacts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	owner := currentUser(c).ID

	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", services.DefaultLimit)
	if err != nil {
		return err
	}

	var found *models.Contact
	switch {
	case c.Query("first_name") != "":
		found, err = s.contacts.FindByFirstName(ctx, c.Query("first_name"), owner)
	case c.Query("last_name") != "":
		found, err = s.contacts.FindByLastName(ctx, c.Query("last_name"), owner)
	case c.Query("email") != "":
		found, err = s.contacts.FindByEmail(ctx, c.Query("email"), owner)
	default:
		list, err := s.contacts.List(ctx, owner, skip, limit)
		if err != nil {
			return err
		}
		return c.JSON(newContactList(list))
	}

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(newContactList(nil))
		}
		return err
	}
	return c.JSON(newContactList([]*models.Contact{found}))
}

func (s *Server) upcomingBirthdays(c *fiber.Ctx) error {
	days, err := queryInt(c, "interval", services.DefaultBirthdayDays)
	if err != nil {
		return err
	}

	list, err := s.contacts.UpcomingBirthdays(c.UserContext(), currentUser(c).ID, days)
	if err != nil {
		return err
	}
	return c.JSON(newContactList(list))
}

func (s *Server) getContact(c *fiber.Ctx) error {
	id, err := contactID(c)
	if err != nil {
		return err
	}
	contact, err := s.contacts.Get(c.UserContext(), id, currentUser(c).ID)
	return contactResult(c, contact, err)
}

func (s *Server) createContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := s.parseJSON(c, &req); err != nil {
		return err
	}
	data, err := req.toData()
	if err != nil {
		return err
	}

	contact, err := s.contacts.Create(c.UserContext(), currentUser(c).ID, data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newContactResponse(contact))
}

func (s *Server) updateContact(c *fiber.Ctx) error {
	id, err := contactID(c)
	if err != nil {
		return err
	}

	var req contactRequest
	if err := s.parseJSON(c, &req); err != nil {
		return err
	}
	data, err := req.toData()
	if err != nil {
		return err
	}

	contact, err := s.contacts.Update(c.UserContext(), id, currentUser(c).ID, data)
	return contactResult(c, contact, err)
}

func (s *Server) deleteContact(c *fiber.Ctx) error {
	id, err := contactID(c)
	if err != nil {
		return err
	}
	contact, err := s.contacts.Delete(c.UserContext(), id, currentUser(c).ID)
	return contactResult(c, contact, err)
}
