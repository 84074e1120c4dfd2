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
	WhoAmI(ctx context.Context) error
	Users(ctx context.Context) error
	Find(ctx context.Context, username string) error
	Deactivate(ctx context.Context, username string) error
	Load(ctx context.Context, path string) error
	Save(ctx context.Context, path string) error
	Records(ctx context.Context) error
	Process(ctx context.Context) error
	Rate(ctx context.Context) error
	Average(ctx context.Context) error
	Filter(ctx context.Context, threshold string) error
	Export(ctx context.Context) error
	Demo(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, demo, exit"
	helpLoggedIn  = "Available commands: whoami, logout, users, find <username>, deactivate <username>, " +
		"load <path>, save <path>, records, process, rate, average, filter <threshold>, export, demo, exit"
)

// runREPL starts a read-eval-print loop over the provided reader.
//
// It reads a line, parses the first token as the command and the rest as
// arguments, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on reader EOF or when the user types
// "exit" or "quit".
//
// Account and record commands are available only after login; the handful of
// commands that take an argument print a usage line when it is missing.
// Errors returned by command handlers are ignored here; handlers print their
// own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ak %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "demo":
			_ = a.Demo(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "whoami", "logout", "users", "find", "deactivate", "load", "save",
			"records", "process", "rate", "average", "filter", "export":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				break
			}
			switch cmd {
			case "whoami":
				_ = a.WhoAmI(ctx)
			case "logout":
				_ = a.Logout(ctx)
			case "users":
				_ = a.Users(ctx)
			case "find":
				if len(args) == 0 {
					printlnFn("Usage: find <username>")
					break
				}
				_ = a.Find(ctx, args[0])
			case "deactivate":
				if len(args) == 0 {
					printlnFn("Usage: deactivate <username>")
					break
				}
				_ = a.Deactivate(ctx, args[0])
			case "load":
				if len(args) == 0 {
					printlnFn("Usage: load <path>")
					break
				}
				_ = a.Load(ctx, args[0])
			case "save":
				if len(args) == 0 {
					printlnFn("Usage: save <path>")
					break
				}
				_ = a.Save(ctx, args[0])
			case "records":
				_ = a.Records(ctx)
			case "process":
				_ = a.Process(ctx)
			case "rate":
				_ = a.Rate(ctx)
			case "average":
				_ = a.Average(ctx)
			case "filter":
				if len(args) == 0 {
					printlnFn("Usage: filter <threshold>")
					break
				}
				_ = a.Filter(ctx, args[0])
			case "export":
				_ = a.Export(ctx)
			}

		default:
			printlnFn("Unknown command:", cmd)
		}

		if readErr != nil {
			return
		}
	}
}
