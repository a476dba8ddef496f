package cli

import (
	"context"

	"github.com/dmitrijs2005/brainswap/internal/client/forms"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
	"github.com/dmitrijs2005/brainswap/internal/client/skills"
)

// Register runs the two registration steps: credentials, then skills.
// Credentials are validated before the catalog is fetched.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}

	creds := forms.RegisterForm{Username: username, Email: email, Password: password}
	if err := creds.Validate(); err != nil {
		return a.report(err, "Registration failed")
	}

	catalog, err := a.loadCatalog(ctx)
	if err != nil {
		return a.report(err, "Registration failed")
	}
	sel := skills.NewSelector(catalog)
	a.println("Now pick the skills you can teach.")
	if err := a.pickSkills(sel); err != nil {
		return err
	}

	if _, err := a.authService.Register(ctx, creds, sel.Selected()); err != nil {
		return a.report(err, "Registration failed")
	}
	// custom skills are persisted by the backend on registration
	a.catalog = nil

	a.printf("Welcome to BrainSwap, %s! Balance: %s\n", a.username(), models.FormatBalance(a.session.CurrentUser()))
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}

	if _, err := a.authService.Login(ctx, username, password); err != nil {
		return a.report(err, "Login failed. Please check your credentials.")
	}

	a.printf("Logged in as %s (%s)\n", a.username(), models.FormatBalance(a.session.CurrentUser()))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout failed", "error", err)
		return a.report(err, "Logout failed")
	}
	a.println("Logged out.")
	return nil
}
