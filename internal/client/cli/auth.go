package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mindeducation/internal/client/models"
	"github.com/dmitrijs2005/mindeducation/internal/client/services"
	"github.com/dmitrijs2005/mindeducation/internal/client/session"
	"github.com/dmitrijs2005/mindeducation/internal/client/validation"
	"github.com/dmitrijs2005/mindeducation/internal/common"
)

// getSimpleText, getTextWithDefault and getPassword are indirections used
// to facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
)

// Login prompts for an e-mail or CPF and a password and signs in. On
// success the home view is shown.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter email or CPF", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.session.SignIn(ctx, models.Credentials{Identifier: identifier, Password: string(password)}); err != nil {
		a.report(ctx, "login", err)
		return err
	}

	return a.Home(ctx)
}

// Register collects the signup form and creates the account. The user signs
// in separately afterwards.
func (a *App) Register(ctx context.Context) error {
	var form models.RegisterForm
	var err error

	if form.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if form.Name, err = getSimpleText(a.reader, "Enter full name", a.out); err != nil {
		return err
	}
	if form.Cpf, err = getSimpleText(a.reader, "Enter CPF", a.out); err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	form.Password, form.ConfirmPassword = string(password), string(confirm)

	if err := a.account.Register(ctx, form); err != nil {
		a.report(ctx, "register", err)
		return err
	}

	printlnFn("You can now log in.")
	return nil
}

func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	err = a.account.RequestPasswordReset(ctx, email)
	if errors.Is(err, services.ErrRecoveryUnavailable) {
		printlnFn("Password recovery is not available yet.")
		return nil
	}
	if err != nil {
		a.report(ctx, "forgot", err)
	}
	return err
}

func (a *App) Logout(ctx context.Context) error {
	a.session.SignOut(ctx)
	printlnFn("Signed out.")
	return nil
}

// report prints what the user can act on. Remote failures have already been
// shown as notifications and are only logged.
func (a *App) report(ctx context.Context, op string, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		for _, f := range verr.Fields {
			printlnFn(" -", f.Message)
		}
	case errors.Is(err, session.ErrNotAuthenticated):
		printlnFn("You are not signed in.")
	case errors.Is(err, services.ErrUnknownUser):
		printlnFn("Profile not loaded yet, type 'refresh' first.")
	}
	a.logger.Warn(ctx, op+" failed", "error", err)
}
