package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactbook/internal/common"
)

// getSimpleText, getOptionalText and getPassword are indirections used to
// facilitate testing.
var (
	getSimpleText   = GetSimpleText
	getOptionalText = GetOptionalText
	getPassword     = GetPassword
)

// Register prompts for a username, email and password and creates the
// account. The server then mails a confirmation link.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Register(ctx, username, email, string(password)); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return fmt.Errorf("account %s already exists", email)
		}
		return err
	}

	fmt.Fprintln(a.out, "Registered. Check your email for the confirmation link, then run 'confirm <token>' or open the link.")
	return nil
}

// Confirm consumes the token from a confirmation link.
func (a *App) Confirm(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: confirm <token>")
	}
	if err := a.api.ConfirmEmail(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Email confirmed, you can log in now.")
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, email, string(password)); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return errors.New("login failed: wrong credentials or email not confirmed")
		}
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout ends the session. Local tokens are dropped even if the server call fails.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errors.New("not logged in")
	}
	err := a.api.Logout(ctx)
	a.email = ""
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
