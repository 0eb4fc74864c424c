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
	ResetPassword(ctx context.Context) error
	ResendConfirmation(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Search(ctx context.Context, text string) error
	Filter(ctx context.Context, category string) error
	SortBy(ctx context.Context, key string) error
	SetView(ctx context.Context, mode string) error
	AddCoin(ctx context.Context) error
	ShowCoin(ctx context.Context) error
	EditCoin(ctx context.Context) error
	DeleteCoin(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Settings(ctx context.Context) error
	UpdateSetting(ctx context.Context, key, value string) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Coinvault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - reset          — send a password reset email
//	  - resend         — resend the confirmation email
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help                 — show available commands
//	  - list | l             — show the collection dashboard
//	  - search [text]        — set (or clear) the search filter
//	  - filter <category>    — set the category filter
//	  - sort <key>           — set the sort order
//	  - view <grid|list>     — set the view mode
//	  - add                  — add a coin (interactive)
//	  - show                 — show a single coin (interactive ID prompt)
//	  - edit                 — edit a coin
//	  - delete               — delete a coin
//	  - profile              — show the profile
//	  - editprofile          — edit the profile
//	  - settings             — show the settings
//	  - set <key> <value>    — change one setting
//	  - logout               — log out
//	  - exit | quit          — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cv> %s > ", statusFn()))
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
				printlnFn("Available commands: (l)ist, search, filter, sort, view, add, show, edit, delete, profile, editprofile, settings, set, logout, exit")
			} else {
				printlnFn("Available commands: register, login, reset, resend, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "reset":
			_ = a.ResetPassword(ctx)

		case "resend":
			_ = a.ResendConfirmation(ctx)

		case "l", "list":
			_ = a.Dashboard(ctx)

		case "search":
			_ = a.Search(ctx, strings.Join(args, " "))

		case "filter":
			if len(args) == 0 {
				printlnFn("Usage: filter <category>")
				continue
			}
			_ = a.Filter(ctx, args[0])

		case "sort":
			if len(args) == 0 {
				printlnFn("Usage: sort <key>")
				continue
			}
			_ = a.SortBy(ctx, args[0])

		case "view":
			if len(args) == 0 {
				printlnFn("Usage: view <grid|list>")
				continue
			}
			_ = a.SetView(ctx, args[0])

		case "add":
			_ = a.AddCoin(ctx)

		case "show":
			_ = a.ShowCoin(ctx)

		case "edit":
			_ = a.EditCoin(ctx)

		case "delete":
			_ = a.DeleteCoin(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "editprofile":
			_ = a.EditProfile(ctx)

		case "settings":
			_ = a.Settings(ctx)

		case "set":
			if len(args) < 2 {
				printlnFn("Usage: set <key> <value>")
				continue
			}
			_ = a.UpdateSetting(ctx, args[0], args[1])

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
