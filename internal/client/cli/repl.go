package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Recipes(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
//
// The prompt shows the current status (from statusFn) and accepts:
//
//	Signed out:
//	  - help           show available commands
//	  - signup         create an account
//	  - login          authenticate
//	  - recipes        open the recipe book (redirects to sign in)
//	  - exit | quit    leave the program
//
//	Signed in:
//	  - help           show available commands
//	  - whoami         show the current session
//	  - recipes        open the recipe book
//	  - logout         end the session
//	  - exit | quit    leave the program
//
// Command handlers print their own results; their errors are ignored here.
// The loop exits on EOF, on "exit" or "quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "rb %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: whoami, recipes, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: signup, login, recipes, exit")
			}

		case "signup", "register":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "recipes":
			_ = a.Recipes(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
