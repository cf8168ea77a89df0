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
	Books(ctx context.Context, genre string) error
	Authors(ctx context.Context) error
	Genres(ctx context.Context) error
	Recommend(ctx context.Context) error
	Add(ctx context.Context) error
	EditBorn(ctx context.Context) error
	Me(ctx context.Context) error
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	Watch(ctx context.Context) error
	Unwatch(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the Librarium CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("librarium %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (b)ooks [genre], authors, genres, recommend, add, editborn, me, watch, unwatch, logout, exit")
			} else {
				printlnFn("Available commands: (b)ooks [genre], authors, genres, login, register, watch, unwatch, exit")
			}

		case "b", "books":
			genre := ""
			if len(args) > 0 {
				genre = args[0]
			}
			_ = a.Books(ctx, genre)

		case "authors":
			_ = a.Authors(ctx)

		case "genres":
			_ = a.Genres(ctx)

		case "recommend":
			_ = a.Recommend(ctx)

		case "add":
			_ = a.Add(ctx)

		case "editborn":
			_ = a.EditBorn(ctx)

		case "me":
			_ = a.Me(ctx)

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "watch":
			_ = a.Watch(ctx)

		case "unwatch":
			_ = a.Unwatch(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
