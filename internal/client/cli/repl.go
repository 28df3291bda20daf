package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Forgot(ctx context.Context) error
	Home(ctx context.Context) error
	Profile(ctx context.Context) error
	Edit(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	Notifications(ctx context.Context) error
	Stats(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: login, register, forgot, exit"
	helpSignedIn  = "Available commands: home, profile, edit, refresh, logout, notifications, stats, exit"
)

// runREPL reads commands from reader until EOF or "exit"/"quit" and
// dispatches them to a.
//
// Prompt & Commands
//
//	Signed out:
//	  - help           show available commands
//	  - login          sign in with e-mail or CPF
//	  - register       create an account
//	  - forgot         password recovery
//	  - exit | quit    leave the program
//
//	Signed in:
//	  - help           show available commands
//	  - home           refresh the profile and greet the user
//	  - profile        show the cached profile
//	  - edit           update the profile
//	  - refresh        reload the profile from the server
//	  - logout         sign out
//	  - notifications  recent notifications
//	  - stats          session counters
//	  - exit | quit    leave the program
//
// Commands report their own failures; the loop ignores returned errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("mind %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if a.isLoggedIn() {
			dispatchSignedIn(ctx, a, cmd)
		} else {
			dispatchSignedOut(ctx, a, cmd)
		}
	}
}

func dispatchSignedOut(ctx context.Context, a execIface, cmd string) {
	switch cmd {
	case "help":
		printlnFn(helpSignedOut)
	case "login":
		_ = a.Login(ctx)
	case "register":
		_ = a.Register(ctx)
	case "forgot":
		_ = a.Forgot(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}

func dispatchSignedIn(ctx context.Context, a execIface, cmd string) {
	switch cmd {
	case "help":
		printlnFn(helpSignedIn)
	case "home":
		_ = a.Home(ctx)
	case "profile":
		_ = a.Profile(ctx)
	case "edit":
		_ = a.Edit(ctx)
	case "refresh":
		_ = a.Refresh(ctx)
	case "logout":
		_ = a.Logout(ctx)
	case "notifications":
		_ = a.Notifications(ctx)
	case "stats":
		_ = a.Stats(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}
