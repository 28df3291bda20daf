package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mindeducation/internal/common"
)

func (a *App) getStatus() string {
	st := a.session.State()
	if !st.Authenticated() {
		return ""
	}
	if st.User != nil {
		if name := common.FirstName(st.User.Name); name != "" {
			return fmt.Sprintf("(%s)", name)
		}
	}
	return "(signed in)"
}

// Root waits for the saved session to be restored, routes to the home view
// or the login menu, then runs the REPL.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to Mindeducation (type 'help' for commands)")
	printlnFn("Loading...")

	if err := a.session.WaitReady(ctx); err != nil {
		a.logger.Error(ctx, "session restore did not finish", "error", err)
		return
	}

	if a.isLoggedIn() {
		_ = a.Home(ctx)
	} else {
		printlnFn(helpSignedOut)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
