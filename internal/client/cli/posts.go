package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/brainswap/internal/client/forms"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "2006-01-02 15:04"
)

func tabLabel(t models.Tab) string {
	if t == models.TabLearn {
		return "Learn Together"
	}
	return "Teaching"
}

// Posts lists the posts of the current tab. An argument switches the tab
// first.
func (a *App) Posts(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if err := a.switchTab(args[0]); err != nil {
			return err
		}
	}

	posts, err := a.postService.List(ctx, a.tab)
	if err != nil {
		return a.report(err, "Failed to load posts")
	}
	a.printf("%s posts:\n", tabLabel(a.tab))
	a.printPostList(ctx, posts)
	return nil
}

func (a *App) SetTab(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: tab teaching|learn")
		return nil
	}
	if err := a.switchTab(args[0]); err != nil {
		return err
	}
	a.printf("Switched to the %s tab.\n", tabLabel(a.tab))
	return nil
}

func (a *App) switchTab(arg string) error {
	tab, ok := models.ParseTab(arg)
	if !ok {
		a.println("Unknown tab:", arg+". Use teaching or learn.")
		return fmt.Errorf("unknown tab %q", arg)
	}
	a.tab = tab
	return nil
}

func (a *App) printPostList(ctx context.Context, posts []models.Post) {
	if len(posts) == 0 {
		a.println("No posts yet.")
		return
	}
	// names fall back to "Skill" when the catalog is unavailable
	catalog, _ := a.loadCatalog(ctx)
	for _, p := range posts {
		a.printf("  #%d %s [%s] by %s, %d call(s)\n",
			p.ID, p.Title, models.SkillName(catalog, p.SkillID), p.Owner.Username, len(p.Calls))
	}
}

func parseID(args []string, usage string, w func(...any)) (int64, bool) {
	if len(args) != 1 {
		w(usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		w(usage)
		return 0, false
	}
	return id, true
}

func (a *App) ShowPost(ctx context.Context, args []string) error {
	id, ok := parseID(args, "Usage: post <id>", a.println)
	if !ok {
		return nil
	}
	p, err := a.postService.Get(ctx, id)
	if err != nil {
		return a.report(err, "Failed to load post")
	}
	a.current = p
	a.printPost(ctx, p)
	return nil
}

func (a *App) printPost(ctx context.Context, p *models.Post) {
	catalog, _ := a.loadCatalog(ctx)

	a.printf("#%d %s\n", p.ID, p.Title)
	a.printf("%s post, skill: %s\n", tabLabel(tabOf(p)), models.SkillName(catalog, p.SkillID))
	a.printf("%s: %s\n", p.OwnerLabel(), p.Owner.Username)
	if p.LearningType != models.LearningTypeNone {
		a.printf("Learning type: %s\n", models.FormatEnum(string(p.LearningType)))
	}
	if p.Price > 0 {
		a.printf("Price: %d BS\n", p.Price)
	}
	if p.Description != "" {
		a.println(p.Description)
	}

	if len(p.Calls) == 0 {
		a.println("No calls scheduled.")
		return
	}

	var viewer int64
	claims, loggedIn := a.session.Claims()
	if loggedIn {
		viewer = claims.UserID
	}
	a.println("Calls:")
	for _, c := range p.Calls {
		line := fmt.Sprintf("  #%d %s  Available seats: %d / %d",
			c.ID, c.ScheduledTime.In(a.loc).Format(clockLayout), c.AvailableSeats(), c.MaxParticipants)
		switch {
		case loggedIn && c.HasParticipant(viewer):
			line += "  (scheduled)"
		case loggedIn && c.CanSchedule(viewer, p.Owner.ID):
			line += fmt.Sprintf("  (schedule %d)", c.ID)
		}
		a.println(line)
		if loggedIn && c.ZoomJoinURL != "" && (viewer == p.Owner.ID || c.HasParticipant(viewer)) {
			a.println("    Join:", c.ZoomJoinURL)
		}
	}
}

func tabOf(p *models.Post) models.Tab {
	if p.InTab(models.TabTeaching) {
		return models.TabTeaching
	}
	return models.TabLearn
}

// Schedule joins a call of the post shown last and shows it again.
func (a *App) Schedule(ctx context.Context, args []string) error {
	callID, ok := parseID(args, "Usage: schedule <callId>", a.println)
	if !ok {
		return nil
	}
	if a.current == nil {
		a.println("Open a post first with: post <id>")
		return nil
	}

	p, err := a.postService.Schedule(ctx, a.current, callID)
	if err != nil {
		return a.report(err, "Failed to schedule call. Please try again.")
	}
	a.current = p
	if _, err := a.session.RefreshProfile(ctx); err != nil {
		a.log.Warn(ctx, "profile refresh after scheduling failed", "error", err)
	}
	a.println("Call scheduled!")
	a.printPost(ctx, p)
	return nil
}

func (a *App) AddPost(ctx context.Context) error {
	draft := forms.NewPostDraft(a.tab)
	draft.Location = a.loc
	a.printf("New %s post\n", tabLabel(a.tab))

	var err error
	if draft.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if draft.Description, err = getMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}

	catalog, err := a.loadCatalog(ctx)
	if err != nil {
		return a.report(err, "Failed to load skills")
	}
	skill, err := a.pickPostSkill(catalog, draft.Type)
	if err != nil {
		return err
	}
	draft.SkillID = skill.ID

	if draft.LearningType, err = a.askLearningType(); err != nil {
		return err
	}

	sched := forms.NewCallSchedule(a.loc)
	if err := a.stageCalls(sched, draft.Type); err != nil {
		return err
	}
	draft.Calls = sched.Calls()

	p, err := a.postService.Create(ctx, draft)
	if err != nil {
		if p != nil {
			a.current = p
		}
		return a.report(err, "Failed to create post")
	}
	a.current = p
	a.printf("Post #%d created.\n", p.ID)
	a.printPost(ctx, p)
	return nil
}

// pickPostSkill chooses the skill of a new post. Teaching posts only offer
// skills from the profile. An empty answer leaves the skill unset.
func (a *App) pickPostSkill(catalog []models.Skill, postType models.PostType) (models.Skill, error) {
	user := a.session.CurrentUser()
	query := ""
	for {
		choices := forms.SelectableSkills(catalog, user, postType, query)
		if len(choices) == 0 {
			if postType == models.PostTypeTeaching && query == "" {
				a.println("Add skills to your profile to create teaching posts.")
				return models.Skill{}, nil
			}
			a.println("No skills found.")
		}
		for i, sk := range choices {
			a.printf("  %d. %s\n", i+1, sk.Name)
		}

		in, err := getSimpleText(a.reader, "Skill number (/text to search)", a.out)
		if err != nil {
			return models.Skill{}, err
		}
		switch {
		case in == "":
			return models.Skill{}, nil
		case strings.HasPrefix(in, "/"):
			query = strings.TrimSpace(in[1:])
		default:
			n, err := strconv.Atoi(in)
			if err != nil || n < 1 || n > len(choices) {
				a.println("Unknown choice:", in)
				continue
			}
			return choices[n-1], nil
		}
	}
}

func (a *App) askLearningType() (models.LearningType, error) {
	for {
		in, err := getSimpleText(a.reader, "Learning type (visual, auditory, physical, social; empty for none)", a.out)
		if err != nil {
			return models.LearningTypeNone, err
		}
		if lt, ok := models.ParseLearningType(in); ok {
			return lt, nil
		}
		a.println("Unknown learning type:", in)
	}
}

// stageCalls collects calls until an empty date. "-N" drops staged call N.
// Learn Together posts stop after their single call.
func (a *App) stageCalls(sched *forms.CallSchedule, postType models.PostType) error {
	for {
		if postType == models.PostTypeLearnTogether && sched.Len() == 1 {
			return nil
		}
		in, err := getSimpleText(a.reader, "Call date (YYYY-MM-DD, -N removes call N, empty to finish)", a.out)
		if err != nil {
			return err
		}
		if in == "" {
			return nil
		}
		if strings.HasPrefix(in, "-") {
			n, err := strconv.Atoi(in[1:])
			if err != nil || !sched.Remove(n-1) {
				a.println("No such call:", in[1:])
			}
			a.printStaged(sched)
			continue
		}

		date, err := time.ParseInLocation(dateLayout, in, a.loc)
		if err != nil {
			a.println("Please enter the date as YYYY-MM-DD")
			continue
		}
		clock, err := getSimpleText(a.reader, "Time (HH:MM)", a.out)
		if err != nil {
			return err
		}
		maxRaw, err := getSimpleText(a.reader, "Max participants", a.out)
		if err != nil {
			return err
		}
		seats, _ := strconv.Atoi(maxRaw)

		if _, err := sched.Add(date, clock, seats); err != nil {
			msg, _ := forms.Message(err)
			a.println(msg)
			continue
		}
		a.printStaged(sched)
	}
}

func (a *App) printStaged(sched *forms.CallSchedule) {
	for i, c := range sched.Calls() {
		a.printf("  %d. %s, up to %d participant(s)\n",
			i+1, c.ScheduledTime.In(sched.Location()).Format(clockLayout), c.MaxParticipants)
	}
}

func (a *App) MyPosts(ctx context.Context) error {
	posts, err := a.postService.Mine(ctx)
	if err != nil {
		return a.report(err, "Failed to load posts")
	}
	a.println("Your posts:")
	a.printPostList(ctx, posts)
	return nil
}

func (a *App) DeletePost(ctx context.Context, args []string) error {
	id, ok := parseID(args, "Usage: deletepost <id>", a.println)
	if !ok {
		return nil
	}
	yes, err := confirm(a.reader, fmt.Sprintf("Delete post #%d?", id), a.out)
	if err != nil {
		return err
	}
	if !yes {
		a.println("Cancelled.")
		return nil
	}

	if err := a.postService.Delete(ctx, id); err != nil {
		return a.report(err, "Failed to delete post. Please try again.")
	}
	if a.current != nil && a.current.ID == id {
		a.current = nil
	}
	a.println("Post deleted.")
	return nil
}
