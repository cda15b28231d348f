package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/myreport/reportcycle/internal/client/api"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to. The real
// App satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignIn(ctx context.Context) error
	SignUp(ctx context.Context) error
	SignOut(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Refresh(ctx context.Context) error
	ForgotUsername(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	ResendActivation(ctx context.Context) error
	Profile(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Ticket(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: signin, signup, forgot-username, forgot-password, reset-password, resend-activation, exit"
	helpSignedIn  = "Available commands: whoami, profile, upload <path>, ticket, refresh, signout, exit"
)

// runREPL reads one command per line from r and dispatches it to a. The
// loop ends on EOF or when the user types "exit" or "quit".
//
// Errors returned by commands are shown to the user with the message the
// service supplied; the loop keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("rc %s> ", statusFn()))

		line, err := r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
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
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "signin", "login":
			cmdErr = a.SignIn(ctx)
		case "signup", "register":
			cmdErr = a.SignUp(ctx)
		case "signout", "logout":
			cmdErr = a.SignOut(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "refresh":
			cmdErr = a.Refresh(ctx)
		case "forgot-username":
			cmdErr = a.ForgotUsername(ctx)
		case "forgot-password":
			cmdErr = a.ForgotPassword(ctx)
		case "reset-password":
			cmdErr = a.ResetPassword(ctx)
		case "resend-activation":
			cmdErr = a.ResendActivation(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "ticket":
			cmdErr = a.Ticket(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path>")
				continue
			}
			cmdErr = a.Upload(ctx, strings.Join(args, " "))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", api.Message(cmdErr))
		}
		if err == io.EOF {
			return
		}
	}
}
