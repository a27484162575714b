package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Confirm(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Birthdays(ctx context.Context, args []string) error
}

// runREPL reads commands line by line and dispatches them to a.
//
//	Not logged in:
//	  - help              show available commands
//	  - register          create an account
//	  - confirm <token>   confirm the account email
//	  - login             authenticate
//	  - exit | quit       leave the program
//
//	Logged in:
//	  - (l)ist [skip] [limit]   list contacts
//	  - add                     create a contact
//	  - show <id>               show one contact
//	  - delete <id>             delete a contact
//	  - birthdays [days]        contacts with a birthday in the next days (default 7)
//	  - logout                  end the session
//	  - exit | quit             leave the program
//
// Command errors are printed and the loop continues. It ends on EOF.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		fmt.Printf("contactbook%s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, add, show <id>, delete <id>, birthdays [days], logout, exit")
			} else {
				printlnFn("Available commands: register, confirm <token>, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "confirm":
			cmdErr = a.Confirm(ctx, args)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "l", "list":
			cmdErr = a.List(ctx, args)

		case "add":
			cmdErr = a.Add(ctx)

		case "show":
			cmdErr = a.Show(ctx, args)

		case "delete":
			cmdErr = a.Delete(ctx, args)

		case "birthdays":
			cmdErr = a.Birthdays(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}
	}
}
