package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/brainswap/internal/client/forms"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
	"github.com/dmitrijs2005/brainswap/internal/client/skills"
)

const pickSkillsHelp = "Type a number to toggle a skill, +name to add your own, /text to search, or press Enter when done."

// Skills prints the catalog, optionally filtered by a search query.
func (a *App) Skills(ctx context.Context, args []string) error {
	catalog, err := a.loadCatalog(ctx)
	if err != nil {
		return a.report(err, "Failed to load skills")
	}

	sel := skills.NewSelector(catalog)
	if u := a.session.CurrentUser(); u != nil {
		sel.Set(u.Skills)
	}
	query := strings.Join(args, " ")
	predefined, custom := sel.Grouped(query)
	if len(predefined)+len(custom) == 0 {
		a.println("No skills found.")
		return nil
	}
	a.printSkillGroups(sel, predefined, custom, false)
	return nil
}

// pickSkills lets the user edit the selection of sel until an empty line.
func (a *App) pickSkills(sel *skills.Selector) error {
	query := ""
	for {
		predefined, custom := sel.Grouped(query)
		shown := a.printSkillGroups(sel, predefined, custom, true)
		if chosen := sel.Selected(); len(chosen) > 0 {
			a.println("Selected:", joinSkillNames(chosen))
		}

		in, err := getSimpleText(a.reader, pickSkillsHelp, a.out)
		if err != nil {
			return err
		}

		switch {
		case in == "":
			return nil
		case strings.HasPrefix(in, "+"):
			if _, err := sel.AddCustom(in[1:]); err != nil {
				msg, _ := forms.Message(err)
				a.println(msg)
			}
		case strings.HasPrefix(in, "/"):
			query = strings.TrimSpace(in[1:])
		default:
			n, err := strconv.Atoi(in)
			if err != nil || n < 1 || n > len(shown) {
				a.println("Unknown choice:", in)
				continue
			}
			sel.Toggle(shown[n-1].Name)
		}
	}
}

// printSkillGroups lists predefined skills, then custom ones, numbered
// across both groups. It returns the skills in the order they were numbered.
func (a *App) printSkillGroups(sel *skills.Selector, predefined, custom []models.Skill, numbered bool) []models.Skill {
	shown := make([]models.Skill, 0, len(predefined)+len(custom))
	group := func(title string, list []models.Skill) {
		if len(list) == 0 {
			return
		}
		a.println(title + ":")
		for _, sk := range list {
			shown = append(shown, sk)
			mark := " "
			if sel.IsSelected(sk.Name) {
				mark = "x"
			}
			if numbered {
				a.printf("  [%s] %d. %s\n", mark, len(shown), sk.Name)
			} else {
				a.printf("  [%s] %s\n", mark, sk.Name)
			}
		}
	}
	group("Predefined skills", predefined)
	group("Custom skills", custom)
	return shown
}

func joinSkillNames(refs []models.SkillRef) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}
