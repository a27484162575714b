// Package cli implements the interactive contact-book client: a small REPL
// whose commands prompt for input and call the HTTP API.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/contactbook/internal/client/api"
	"github.com/dmitrijs2005/contactbook/internal/client/config"
)

type App struct {
	config *config.Config
	api    api.Client
	reader *bufio.Reader
	out    io.Writer
	email  string
}

func NewApp(c *config.Config) (*App, error) {
	if c.ServerURL == "" {
		return nil, errors.New("server URL is required")
	}
	return &App{
		config: c,
		api:    api.NewHTTPClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintf(a.out, "Contact book CLI, server %s (type 'help' for commands)\n", a.config.ServerURL)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) getStatus() string {
	if a.isLoggedIn() && a.email != "" {
		return "(" + a.email + ")"
	}
	return ""
}
