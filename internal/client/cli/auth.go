package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/client/router"
	"github.com/dmitrijs2005/recipebook/internal/client/services"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type submitFunc func(ctx context.Context, email, password string) (<-chan services.Outcome, error)

// Signup prompts for an email and password and creates an account. On
// success the new session becomes current.
func (a *App) Signup(ctx context.Context) error {
	return a.authenticate(ctx, a.auth.Signup)
}

// Login prompts for credentials and signs in, replacing any current session.
func (a *App) Login(ctx context.Context) error {
	return a.authenticate(ctx, a.auth.Login)
}

// authenticate reads credentials, submits them and waits for the outcome.
// The password buffer is wiped before returning. A failed attempt is
// reported to the user with its message and returned as the error.
func (a *App) authenticate(ctx context.Context, submit submitFunc) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	reply, err := submit(ctx, email, string(password))
	if err != nil {
		return err
	}

	o, ok := awaitOutcome(ctx, reply)
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	switch o.Kind {
	case services.OutcomeAuthenticated:
		fmt.Fprintf(a.out, "Signed in as %s\n", o.Session.Email())
	case services.OutcomeFailed:
		fmt.Fprintln(a.out, o.Reason)
		return o.Err
	}
	return nil
}

// Logout ends the current session and removes the stored record.
func (a *App) Logout(ctx context.Context) error {
	reply, err := a.auth.Logout(ctx)
	if err != nil {
		return err
	}
	if _, ok := awaitOutcome(ctx, reply); ok {
		fmt.Fprintln(a.out, "Logged out")
	}
	return nil
}

// Whoami prints the current session.
func (a *App) Whoami(ctx context.Context) error {
	s, ok := a.auth.Current()
	if !ok {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	fmt.Fprintf(a.out, "%s (id %s), session expires at %s\n",
		s.Email(), s.UserID(), s.ExpiresAt().Local().Format(time.RFC1123))
	return nil
}

// Recipes opens the recipe book, or sends the user to sign in first.
func (a *App) Recipes(ctx context.Context) error {
	route, ok := a.guard.CanActivate(router.RouteRecipes)
	a.navigator.Navigate(ctx, route)
	if !ok {
		fmt.Fprintln(a.out, "Sign in to open your recipe book")
		return nil
	}
	fmt.Fprintln(a.out, "Your recipe book is empty")
	return nil
}

// restore brings back a stored session that is still valid.
func (a *App) restore(ctx context.Context) {
	reply, err := a.auth.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "session restore not started", "error", err)
		return
	}
	if o, ok := awaitOutcome(ctx, reply); ok && o.Kind == services.OutcomeAuthenticated {
		fmt.Fprintf(a.out, "Welcome back, %s\n", o.Session.Email())
	}
}

// awaitOutcome waits for an intent's outcome. ok is false when the intent
// finished without one or ctx ended first.
func awaitOutcome(ctx context.Context, reply <-chan services.Outcome) (services.Outcome, bool) {
	select {
	case o, ok := <-reply:
		return o, ok
	case <-ctx.Done():
		return services.Outcome{}, false
	}
}
