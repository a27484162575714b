package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/client/api"
	"github.com/dmitrijs2005/contactbook/internal/common"
)

const (
	defaultPageSize      = 100
	defaultBirthdayDays  = 7
	birthdayInputLayout  = "2006-01-02"
	contactNotFoundError = "contact not found"
)

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func printContacts(w io.Writer, list []api.Contact) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No contacts")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tEMAIL\tBIRTHDAY")
	for _, c := range list {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\t%s\n", c.ID, c.FirstName, c.LastName, deref(c.Phone), deref(c.Email), deref(c.Birthday))
	}
	_ = tw.Flush()
}

func printContact(w io.Writer, c *api.Contact) {
	fmt.Fprintf(w, "ID:        %d\n", c.ID)
	fmt.Fprintf(w, "Name:      %s %s\n", c.FirstName, c.LastName)
	fmt.Fprintf(w, "Phone:     %s\n", deref(c.Phone))
	fmt.Fprintf(w, "Email:     %s\n", deref(c.Email))
	fmt.Fprintf(w, "Birthday:  %s\n", deref(c.Birthday))
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func intArg(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[i])
	}
	return v, nil
}

func notFound(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errors.New(contactNotFoundError)
	}
	return err
}

// List prints one page of contacts: list [skip] [limit].
func (a *App) List(ctx context.Context, args []string) error {
	skip, err := intArg(args, 0, 0)
	if err != nil {
		return err
	}
	limit, err := intArg(args, 1, defaultPageSize)
	if err != nil {
		return err
	}

	list, err := a.api.ListContacts(ctx, skip, limit)
	if err != nil {
		return err
	}
	printContacts(a.out, list)
	return nil
}

// Add prompts for the contact fields and creates the contact.
func (a *App) Add(ctx context.Context) error {
	var (
		in  api.ContactInput
		err error
	)

	if in.FirstName, err = getSimpleText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if in.LastName, err = getSimpleText(a.reader, "Last name", a.out); err != nil {
		return err
	}
	if in.Phone, err = getSimpleText(a.reader, "Phone (E.164, e.g. +380501234567)", a.out); err != nil {
		return err
	}
	if in.Email, err = getOptionalText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if in.Birthday, err = getOptionalText(a.reader, "Birthday (YYYY-MM-DD)", a.out); err != nil {
		return err
	}
	if in.Birthday != nil {
		if _, err := time.Parse(birthdayInputLayout, *in.Birthday); err != nil {
			return fmt.Errorf("invalid birthday %q, expected YYYY-MM-DD", *in.Birthday)
		}
	}

	c, err := a.api.CreateContact(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Contact %d created\n", c.ID)
	return nil
}

// Show prints a single contact: show <id>.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, "usage: show <id>")
	if err != nil {
		return err
	}
	c, err := a.api.GetContact(ctx, id)
	if err != nil {
		return notFound(err)
	}
	printContact(a.out, c)
	return nil
}

// Delete removes a contact: delete <id>.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "usage: delete <id>")
	if err != nil {
		return err
	}
	c, err := a.api.DeleteContact(ctx, id)
	if err != nil {
		return notFound(err)
	}
	fmt.Fprintf(a.out, "Deleted %s %s\n", c.FirstName, c.LastName)
	return nil
}

// Birthdays lists contacts with a birthday in the coming days: birthdays [days].
func (a *App) Birthdays(ctx context.Context, args []string) error {
	days, err := intArg(args, 0, defaultBirthdayDays)
	if err != nil {
		return err
	}
	list, err := a.api.UpcomingBirthdays(ctx, days)
	if err != nil {
		return err
	}
	printContacts(a.out, list)
	return nil
}
