package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  map[string][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Posts(ctx context.Context, args []string) error { return f.record("posts", args) }
func (f *fakeExec) SetTab(ctx context.Context, args []string) error {
	return f.record("tab", args)
}
func (f *fakeExec) ShowPost(ctx context.Context, args []string) error {
	return f.record("post", args)
}
func (f *fakeExec) Schedule(ctx context.Context, args []string) error {
	return f.record("schedule", args)
}
func (f *fakeExec) AddPost(ctx context.Context) error { return f.record("addpost", nil) }
func (f *fakeExec) MyPosts(ctx context.Context) error { return f.record("myposts", nil) }
func (f *fakeExec) DeletePost(ctx context.Context, args []string) error {
	return f.record("deletepost", args)
}
func (f *fakeExec) Profile(ctx context.Context) error     { return f.record("profile", nil) }
func (f *fakeExec) EditProfile(ctx context.Context) error { return f.record("editprofile", nil) }
func (f *fakeExec) AddBalance(ctx context.Context) error  { return f.record("addbalance", nil) }
func (f *fakeExec) Skills(ctx context.Context, args []string) error {
	return f.record("skills", args)
}

// captureREPL swaps the output seams for a buffer of printed lines.
func captureREPL(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrintln, origPrint := printlnFn, printFn
	printlnFn = func(_ io.Writer, a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	printFn = func(io.Writer, ...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn, printFn = origPrintln, origPrint })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	captureREPL(t)

	input := bufio.NewReader(strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"posts learn",
		"post 7",
		"schedule 3",
		"addpost",
		"deletepost 7",
		"foobar",
		"exit",
	}, "\n")))

	exec := &fakeExec{loggedIn: false}
	runREPL(context.Background(), exec, func() string { return "status" }, input, io.Discard)

	require.Equal(t, []string{"login", "posts", "post", "schedule", "addpost", "deletepost"}, exec.calls)
	assert.Equal(t, []string{"learn"}, exec.args["posts"])
	assert.Equal(t, []string{"7"}, exec.args["post"])
	assert.Equal(t, []string{"3"}, exec.args["schedule"])
}

func TestRunREPL_GuardsSessionCommands(t *testing.T) {
	lines := captureREPL(t)

	input := bufio.NewReader(strings.NewReader("profile\naddbalance\nlogout\nposts\nl learn\npost 3\nshow 3\nskills go\ntab learn\nquit\n"))
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, input, io.Discard)

	assert.Equal(t, []string{"skills", "tab"}, exec.calls)
	assert.Equal(t, []string{"go"}, exec.args["skills"])
	require.Len(t, *lines, 8)
	for _, l := range (*lines)[:7] {
		assert.Equal(t, "Please log in first.", l)
	}
	assert.Equal(t, "Bye!", (*lines)[7])
}

func TestRunREPL_AlreadyLoggedIn(t *testing.T) {
	lines := captureREPL(t)

	input := bufio.NewReader(strings.NewReader("login\nregister\n"))
	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, input, io.Discard)

	assert.Empty(t, exec.calls)
	assert.Equal(t, []string{"You are already logged in.", "You are already logged in."}, *lines)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := captureREPL(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("help\nlogin\nhelp")), io.Discard)

	require.Len(t, *lines, 2)
	assert.Equal(t, helpLoggedOut, (*lines)[0])
	assert.Equal(t, helpLoggedIn, (*lines)[1])
}

func TestRunREPL_PromptFromStatus(t *testing.T) {
	captureREPL(t)
	var prompts []string
	printFn = func(_ io.Writer, a ...any) (int, error) {
		prompts = append(prompts, fmt.Sprint(a...))
		return 0, nil
	}

	exec := &fakeExec{}
	n := 0
	status := func() string {
		n++
		return fmt.Sprintf("p%d> ", n)
	}
	runREPL(context.Background(), exec, status, bufio.NewReader(strings.NewReader("\nunknown\n")), io.Discard)

	assert.Equal(t, []string{"p1> ", "p2> ", "p3> "}, prompts)
}

func TestRunREPL_WritesToGivenWriter(t *testing.T) {
	var out strings.Builder
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "p> " }, bufio.NewReader(strings.NewReader("posts\nexit\n")), &out)

	assert.Equal(t, "p> Please log in first.\np> Bye!\n", out.String())
}
