package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.sessions != nil {
		if cur := a.sessions.Current(); cur != nil {
			s = cur.Username + " "
		}
	}
	if m := a.mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the user and runs the REPL on the app's input.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to reportcycle (type 'help' for commands)")
	if cur := a.sessions.Current(); cur != nil {
		printlnFn(fmt.Sprintf("Signed in as %s until %s", cur.Username, cur.ExpiresAt().Format("2006-01-02 15:04")))
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}
