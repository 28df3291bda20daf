package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mindeducation/internal/client/models"
	"github.com/dmitrijs2005/mindeducation/internal/client/session"
	"github.com/dmitrijs2005/mindeducation/internal/common"
)

// Home reloads the profile and greets the user, as the home screen does on
// every visit.
func (a *App) Home(ctx context.Context) error {
	err := a.refresh(ctx)

	greeting := "Hello!"
	if u := a.session.State().User; u != nil {
		if name := common.FirstName(u.Name); name != "" {
			greeting = "Hello, " + name + "!"
		}
	}
	printlnFn(greeting)
	return err
}

func (a *App) Profile(ctx context.Context) error {
	u := a.session.State().User
	if u == nil {
		printlnFn("Profile not loaded yet, type 'refresh' first.")
		return nil
	}
	printUser(u)
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.refresh(ctx); err != nil {
		return err
	}
	return a.Profile(ctx)
}

// Edit prompts for every profile field, offering the cached values as
// defaults. An empty password keeps the current one.
func (a *App) Edit(ctx context.Context) error {
	current := a.session.State().User
	if current == nil {
		if err := a.refresh(ctx); err != nil {
			return err
		}
		current = a.session.State().User
	}
	if current == nil {
		current = &models.User{}
	}

	var form models.ProfileForm
	var err error

	if form.Email, err = getTextWithDefault(a.reader, "Email", current.Email, a.out); err != nil {
		return err
	}
	if form.Name, err = getTextWithDefault(a.reader, "Full name", current.Name, a.out); err != nil {
		return err
	}
	if form.Cpf, err = getTextWithDefault(a.reader, "CPF", current.Cpf, a.out); err != nil {
		return err
	}

	password, err := getPassword("New password (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if len(password) > 0 {
		confirm, err := getPassword("Confirm new password", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(confirm)
		form.Password, form.ConfirmPassword = string(password), string(confirm)
	}

	if err := a.account.UpdateProfile(ctx, form); err != nil {
		a.report(ctx, "edit profile", err)
		return err
	}
	return a.Profile(ctx)
}

func (a *App) refresh(ctx context.Context) error {
	var id models.UserID
	if u := a.session.State().User; u != nil {
		id = u.ID
	}

	err := a.session.RefreshUser(ctx, id)
	if errors.Is(err, session.ErrSessionChanged) {
		return nil
	}
	if err != nil {
		a.report(ctx, "refresh", err)
	}
	return err
}

func printUser(u *models.User) {
	printlnFn("Name: ", u.Name)
	printlnFn("Email:", u.Email)
	printlnFn("CPF:  ", u.Cpf)
}
