package cli

import (
	"context"

	"github.com/dmitrijs2005/brainswap/internal/client/models"
	"github.com/dmitrijs2005/brainswap/internal/client/services"
	"github.com/dmitrijs2005/brainswap/internal/client/skills"
)

func (a *App) Profile(ctx context.Context) error {
	u, err := a.profileService.Profile(ctx)
	if err != nil {
		return a.report(err, "Failed to load profile")
	}
	a.printProfile(u)
	return nil
}

func (a *App) printProfile(u *models.User) {
	a.println("Username:", u.Username)
	a.println("Email:   ", u.Email)
	a.println("Balance: ", models.FormatBalance(u))
	if len(u.Skills) == 0 {
		a.println("Skills:   none")
	} else {
		a.println("Skills:  ", joinSkillNames(u.Skills))
	}
	if len(u.ScheduledCalls) == 0 {
		return
	}
	a.println("Scheduled calls:")
	for _, c := range u.ScheduledCalls {
		a.printf("  #%d %s with %s (%s)\n",
			c.ID, c.ScheduledTime.In(a.loc).Format(clockLayout), c.Owner.Username, models.FormatEnum(string(c.Status)))
	}
}

// EditProfile prompts for each field with the current value as default. An
// empty password keeps the current one.
func (a *App) EditProfile(ctx context.Context) error {
	u, err := a.profileService.Profile(ctx)
	if err != nil {
		return a.report(err, "Failed to load profile")
	}

	upd := services.ProfileUpdate{Username: u.Username, Email: u.Email}
	if upd.Username, err = a.askWithDefault("Username", u.Username); err != nil {
		return err
	}
	if upd.Email, err = a.askWithDefault("Email", u.Email); err != nil {
		return err
	}
	if upd.Password, err = getPassword("New password (empty keeps the current one)", a.out); err != nil {
		return err
	}

	catalog, err := a.loadCatalog(ctx)
	if err != nil {
		return a.report(err, "Failed to load skills")
	}
	sel := skills.NewSelector(catalog)
	sel.Set(u.Skills)
	if err := a.pickSkills(sel); err != nil {
		return err
	}
	upd.Skills = sel.Selected()

	updated, err := a.profileService.Update(ctx, upd)
	if err != nil {
		return a.report(err, "Failed to update profile")
	}
	a.catalog = nil
	a.println("Profile updated.")
	a.printProfile(updated)
	return nil
}

func (a *App) askWithDefault(label, current string) (string, error) {
	v, err := getSimpleText(a.reader, label+" ["+current+"]", a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

func (a *App) AddBalance(ctx context.Context) error {
	amount, err := getSimpleText(a.reader, "Amount of BS to add", a.out)
	if err != nil {
		return err
	}
	u, err := a.profileService.AddBalance(ctx, amount)
	if err != nil {
		return a.report(err, "Failed to add balance. Please try again.")
	}
	a.println("Balance:", models.FormatBalance(u))
	return nil
}
