package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/brainswap/internal/client/client"
	"github.com/dmitrijs2005/brainswap/internal/client/forms"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
	"github.com/dmitrijs2005/brainswap/internal/client/session"
	"github.com/dmitrijs2005/brainswap/internal/fakeapi"
)

type env struct {
	api     *fakeapi.Server
	mgr     *session.Manager
	auth    AuthService
	profile ProfileService
	posts   PostService
	skills  SkillService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	api := fakeapi.New()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "brainswap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hc := client.NewHTTPClient(srv.URL, client.WithTimeout(time.Second))
	mgr := session.NewManager(session.NewSQLiteStore(db), hc, session.WithCheckInterval(time.Hour))
	hc.SetTokenSource(mgr.Token)
	hc.SetOnUnavailable(mgr.HandleUnavailable)
	require.NoError(t, mgr.Start(context.Background()))
	t.Cleanup(mgr.Stop)

	return &env{
		api:     api,
		mgr:     mgr,
		auth:    NewAuthService(mgr),
		profile: NewProfileService(hc, mgr),
		posts:   NewPostService(hc, mgr),
		skills:  NewSkillService(hc),
	}
}

func (e *env) login(t *testing.T, username string) {
	t.Helper()
	_, err := e.auth.Login(context.Background(), username, "passw0rd!")
	require.NoError(t, err)
}

func requireUserMessage(t *testing.T, err error, want string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, UserMessage(err, "fallback"))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "x", UserMessage(&Error{Message: "x"}, "fb"))
	assert.Equal(t, "v", UserMessage(&forms.ValidationError{Message: "v"}, "fb"))
	assert.Equal(t, client.UnavailableMessage, UserMessage(client.ErrUnavailable, "fb"))
	assert.Equal(t, "server says", UserMessage(&client.APIError{Status: 400, Message: "server says"}, "fb"))
	assert.Equal(t, "fb", UserMessage(&client.APIError{Status: 500}, "fb"))
	assert.Equal(t, "fb", UserMessage(errors.New("boom"), "fb"))
	assert.Equal(t, MsgLoginRequired, UserMessage(session.ErrNotAuthenticated, "fb"))
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	e.api.SeedUser("alice", "a@x.io", "passw0rd!")
	ctx := context.Background()

	_, err := e.auth.Login(ctx, "alice", "")
	requireUserMessage(t, err, "Please fill in all fields")
	assert.Empty(t, e.api.Requests(), "validation blocks the request")

	_, err = e.auth.Login(ctx, "alice", "wrong")
	requireUserMessage(t, err, "Login failed. Please check your credentials.")

	u, err := e.auth.Login(ctx, "alice", "passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "0.00 BS", models.FormatBalance(e.mgr.CurrentUser()))
}

func TestLogin_ProfileFailureStillLogsIn(t *testing.T) {
	e := newEnv(t)
	e.api.SeedUser("alice", "a@x.io", "passw0rd!")
	e.api.FailNext(http.MethodGet, "/users/1", http.StatusInternalServerError, "")

	u, err := e.auth.Login(context.Background(), "alice", "passw0rd!")
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.True(t, e.mgr.IsAuthenticated())
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	e.api.SeedUser("taken", "t@x.io", "passw0rd!")
	ctx := context.Background()

	_, err := e.auth.Register(ctx, forms.RegisterForm{Username: "bob", Email: "bob@x", Password: "passw0rd!"}, nil)
	requireUserMessage(t, err, "Please enter a valid email address.")

	_, err = e.auth.Register(ctx, forms.RegisterForm{Username: "taken", Email: "b@x.io", Password: "passw0rd!"}, nil)
	requireUserMessage(t, err, "Username is already taken")

	e.api.FailNext(http.MethodPost, "/auth/register", http.StatusInternalServerError, "")
	_, err = e.auth.Register(ctx, forms.RegisterForm{Username: "bob", Email: "b@x.io", Password: "passw0rd!"}, nil)
	requireUserMessage(t, err, "Registration failed")

	u, err := e.auth.Register(ctx, forms.RegisterForm{Username: "bob", Email: "b@x.io", Password: "passw0rd!"},
		[]models.SkillRef{{Name: "Chess"}})
	require.NoError(t, err)
	assert.Equal(t, []models.SkillRef{{Name: "Chess"}}, u.Skills)
	assert.True(t, e.mgr.IsAuthenticated())

	require.NoError(t, e.auth.Logout(ctx))
	assert.False(t, e.mgr.IsAuthenticated())
}

func TestProfile_UpdateAndRefetch(t *testing.T) {
	e := newEnv(t)
	e.api.SeedUser("alice", "a@x.io", "passw0rd!")
	e.login(t, "alice")
	ctx := context.Background()
	e.api.ResetRequests()

	u, err := e.profile.Update(ctx, ProfileUpdate{Username: "alice2", Email: "a2@x.io", Skills: []models.SkillRef{{Name: "Go"}}})
	require.NoError(t, err)
	assert.Equal(t, "alice2", u.Username)
	assert.Equal(t, "alice2", e.mgr.CurrentUser().Username)

	reqs := e.api.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, http.MethodGet, reqs[1].Method)

	// password unchanged because it was not sent
	stored, _ := e.api.User(1)
	assert.Equal(t, "alice2", stored.Username)
	_, err = e.auth.Login(ctx, "alice2", "passw0rd!")
	require.NoError(t, err)
}

func TestProfile_UpdateErrors(t *testing.T) {
	e := newEnv(t)
	e.api.SeedUser("alice", "a@x.io", "passw0rd!")
	ctx := context.Background()

	_, err := e.profile.Update(ctx, ProfileUpdate{Username: "x", Email: "y"})
	requireUserMessage(t, err, MsgLoginRequired)

	e.login(t, "alice")
	_, err = e.profile.Update(ctx, ProfileUpdate{Username: "", Email: "a@x.io"})
	requireUserMessage(t, err, "Username and email are required")

	e.api.FailNext(http.MethodPut, "/users/1", http.StatusInternalServerError, "")
	_, err = e.profile.Update(ctx, ProfileUpdate{Username: "a", Email: "a@x.io"})
	requireUserMessage(t, err, "Failed to update profile")

	e.api.FailNext(http.MethodPut, "/users/1", http.StatusUnauthorized, "")
	_, err = e.profile.Update(ctx, ProfileUpdate{Username: "a", Email: "a@x.io"})
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, e.mgr.IsAuthenticated())
}

func TestAddBalance(t *testing.T) {
	e := newEnv(t)
	e.api.SeedUser("alice", "a@x.io", "passw0rd!")
	e.login(t, "alice")
	ctx := context.Background()

	_, err := e.profile.AddBalance(ctx, "-3")
	requireUserMessage(t, err, "Please enter a valid amount")

	u, err := e.profile.AddBalance(ctx, "25")
	require.NoError(t, err)
	assert.Equal(t, 25.0, u.Balance)
	assert.Equal(t, "25.00 BS", models.FormatBalance(e.mgr.CurrentUser()))

	e.api.FailNext(http.MethodPost, "/users/add-balance", http.StatusBadRequest, "nope")
	_, err = e.profile.AddBalance(ctx, "5")
	requireUserMessage(t, err, "Failed to add balance. Please try again.")
}

func seedSkillsAndLogin(t *testing.T, e *env) models.Skill {
	t.Helper()
	sk := e.api.SeedSkill("Go")
	e.api.SeedUser("alice", "a@x.io", "passw0rd!", "Go")
	e.login(t, "alice")
	return sk
}

func TestCreatePost_WithCalls(t *testing.T) {
	e := newEnv(t)
	sk := seedSkillsAndLogin(t, e)
	ctx := context.Background()

	sched := forms.NewCallSchedule(time.UTC)
	day := time.Now().UTC().AddDate(0, 0, 1)
	_, err := sched.Add(day, "10:00", 2)
	require.NoError(t, err)
	_, err = sched.Add(day, "11:00", 3)
	require.NoError(t, err)

	draft := forms.NewPostDraft(models.TabTeaching)
	draft.Title, draft.Description, draft.SkillID = "Go 101", "basics", sk.ID
	draft.Calls, draft.Location = sched.Calls(), time.UTC

	post, err := e.posts.Create(ctx, draft)
	require.NoError(t, err)
	assert.Len(t, post.Calls, 2)

	stored, ok := e.api.Post(post.ID)
	require.True(t, ok)
	assert.Len(t, stored.Calls, 2)
	assert.Equal(t, models.PostTypeTeaching, stored.Type)
}

func TestCreatePost_ValidationBlocksRequests(t *testing.T) {
	e := newEnv(t)
	seedSkillsAndLogin(t, e)
	e.api.ResetRequests()

	draft := forms.NewPostDraft(models.TabLearn)
	draft.Title, draft.Description, draft.SkillID = "t", "d", 1

	_, err := e.posts.Create(context.Background(), draft)
	requireUserMessage(t, err, "Learn Together posts must have exactly one scheduled call")
	assert.Empty(t, e.api.Requests())
}

func TestCreatePost_PartialCallFailure(t *testing.T) {
	e := newEnv(t)
	sk := seedSkillsAndLogin(t, e)

	at := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	draft := forms.NewPostDraft(models.TabTeaching)
	draft.Title, draft.Description, draft.SkillID = "Go 101", "basics", sk.ID
	draft.Location = time.UTC
	draft.Calls = []forms.StagedCall{
		{ScheduledTime: at, MaxParticipants: 1},
		{ScheduledTime: at.Add(time.Hour), MaxParticipants: 1},
	}
	e.api.FailNext(http.MethodPost, "/calls", http.StatusInternalServerError, "db down")

	post, err := e.posts.Create(context.Background(), draft)
	require.Error(t, err)
	require.NotNil(t, post)

	var perr *PartialCreateError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Total)
	require.Len(t, perr.Failed, 1)
	assert.Len(t, post.Calls, 1)
	assert.Equal(t, "Post created, but 1 of 2 calls could not be scheduled", UserMessage(err, "fb"))

	stored, _ := e.api.Post(post.ID)
	assert.Len(t, stored.Calls, 1, "no rollback")
}

func TestListPosts_ByTab(t *testing.T) {
	e := newEnv(t)
	owner := e.api.SeedUser("teacher", "t@x.io", "passw0rd!")
	bu := models.BasicUser{ID: owner.ID, Username: owner.Username}
	e.api.SeedPost(models.Post{Title: "T", Description: "d", Owner: bu, Type: models.PostTypeTeaching})
	e.api.SeedPost(models.Post{Title: "L", Description: "d", Owner: bu, Type: models.PostTypeLearnTogether})
	e.login(t, "teacher")

	teaching, err := e.posts.List(context.Background(), models.TabTeaching)
	require.NoError(t, err)
	require.Len(t, teaching, 1)
	assert.Equal(t, "T", teaching[0].Title)

	learn, err := e.posts.List(context.Background(), models.TabLearn)
	require.NoError(t, err)
	require.Len(t, learn, 1)
	assert.Equal(t, "L", learn[0].Title)
}

func TestSchedule(t *testing.T) {
	e := newEnv(t)
	owner := e.api.SeedUser("teacher", "t@x.io", "passw0rd!")
	e.api.SeedUser("bob", "b@x.io", "passw0rd!")
	post := e.api.SeedPost(models.Post{
		Title: "T", Description: "d", Owner: models.BasicUser{ID: owner.ID, Username: owner.Username},
		Type:  models.PostTypeTeaching,
		Calls: []models.Call{{MaxParticipants: 2, IsActive: true, ScheduledTime: models.NewDateTime(time.Now().Add(time.Hour))}},
	})
	callID := post.Calls[0].ID
	e.login(t, "bob")
	ctx := context.Background()

	updated, err := e.posts.Schedule(ctx, &post, callID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Calls[0].CurrentParticipants)
	assert.Equal(t, 1, updated.Calls[0].AvailableSeats())

	// second attempt with the fresh post: backend answers 409
	again, err := e.posts.Schedule(ctx, updated, callID)
	requireUserMessage(t, err, "You have already scheduled this call")
	assert.Nil(t, again)
	assert.Equal(t, 1, updated.Calls[0].CurrentParticipants, "local state unchanged")
	assert.True(t, e.mgr.IsAuthenticated())

	e.api.FailNext(http.MethodPost, "/calls/schedule", http.StatusInternalServerError, "")
	_, err = e.posts.Schedule(ctx, updated, callID)
	requireUserMessage(t, err, "Failed to schedule call. Please try again.")

	_, err = e.posts.Schedule(ctx, updated, 999)
	requireUserMessage(t, err, "Call not found")
}

func TestSchedule_OwnerCannotJoin(t *testing.T) {
	e := newEnv(t)
	owner := e.api.SeedUser("teacher", "t@x.io", "passw0rd!")
	post := e.api.SeedPost(models.Post{
		Title: "T", Description: "d", Owner: models.BasicUser{ID: owner.ID, Username: owner.Username},
		Type:  models.PostTypeTeaching,
		Calls: []models.Call{{MaxParticipants: 2, IsActive: true}},
	})
	e.login(t, "teacher")
	e.api.ResetRequests()

	_, err := e.posts.Schedule(context.Background(), &post, post.Calls[0].ID)
	requireUserMessage(t, err, "This call cannot be scheduled")
	assert.Empty(t, e.api.Requests())
}

func TestSchedule_UnauthorizedEndsSession(t *testing.T) {
	e := newEnv(t)
	owner := e.api.SeedUser("teacher", "t@x.io", "passw0rd!")
	e.api.SeedUser("bob", "b@x.io", "passw0rd!")
	post := e.api.SeedPost(models.Post{
		Title: "T", Description: "d", Owner: models.BasicUser{ID: owner.ID, Username: owner.Username},
		Type:  models.PostTypeTeaching,
		Calls: []models.Call{{MaxParticipants: 2, IsActive: true}},
	})
	e.login(t, "bob")

	e.api.FailNext(http.MethodPost, "/calls/schedule", http.StatusUnauthorized, "")
	_, err := e.posts.Schedule(context.Background(), &post, post.Calls[0].ID)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, e.mgr.IsAuthenticated())
}

func TestMineAndDelete(t *testing.T) {
	e := newEnv(t)
	sk := seedSkillsAndLogin(t, e)
	ctx := context.Background()
	other := e.api.SeedUser("other", "o@x.io", "passw0rd!")
	e.api.SeedPost(models.Post{Title: "theirs", Description: "d", SkillID: sk.ID,
		Owner: models.BasicUser{ID: other.ID, Username: other.Username}, Type: models.PostTypeTeaching})
	mine := e.api.SeedPost(models.Post{Title: "mine", Description: "d", SkillID: sk.ID,
		Owner: models.BasicUser{ID: 2, Username: "alice"}, Type: models.PostTypeTeaching})

	posts, err := e.posts.Mine(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "mine", posts[0].Title)

	require.NoError(t, e.posts.Delete(ctx, mine.ID))
	err = e.posts.Delete(ctx, mine.ID)
	requireUserMessage(t, err, "Failed to delete post. Please try again.")
}

func TestCatalog(t *testing.T) {
	e := newEnv(t)
	e.api.SeedSkill("Go")

	list, err := e.skills.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Predefined)

	e.api.FailNext(http.MethodGet, "/skills/public", http.StatusInternalServerError, "")
	_, err = e.skills.Catalog(context.Background())
	requireUserMessage(t, err, client.UnavailableMessage)
}
