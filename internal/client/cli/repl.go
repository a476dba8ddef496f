package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/brainswap/internal/client/services"
)

// printlnFn and printFn are test seams for REPL output. In tests, replace
// them with stubs.
var (
	printlnFn = fmt.Fprintln
	printFn   = fmt.Fprint
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Posts(ctx context.Context, args []string) error
	SetTab(ctx context.Context, args []string) error
	ShowPost(ctx context.Context, args []string) error
	Schedule(ctx context.Context, args []string) error
	AddPost(ctx context.Context) error
	MyPosts(ctx context.Context) error
	DeletePost(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	AddBalance(ctx context.Context) error
	Skills(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, tab teaching|learn, skills [query], exit"
	helpLoggedIn  = "Available commands: posts [teaching|learn], tab teaching|learn, post <id>, schedule <callId>, addpost, myposts, deletepost <id>, profile, editprofile, addbalance, skills [query], logout, exit"
)

// runREPL starts a simple read–eval–print loop for the BrainSwap CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Unknown commands are reported back to the user. The loop exits on EOF or
// when the user types "exit" or "quit". Everything it prints goes to w.
//
// Prompt & Commands
//
// The prompt is produced by statusFn and shows the user and balance while
// logged in. Without a session only register, login, tab and skills work;
// the commands below need one:
//
//	posts [tab]        list the posts of a tab (alias l)
//	post <id>          show a post and its calls (alias show)
//	schedule <callId>  join a call of the post shown last
//	addpost            create a post in the current tab
//	myposts            list own posts
//	deletepost <id>    delete an own post
//	profile            show the profile
//	editprofile        change username, email, password or skills
//	addbalance         top up the BS balance
//	logout             end the session
//
// Errors returned by command handlers are ignored here; handlers print
// their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		printFn(w, statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if needsSession(cmd) && !a.isLoggedIn() {
			printlnFn(w, services.MsgLoginRequired)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(w, helpLoggedIn)
			} else {
				printlnFn(w, helpLoggedOut)
			}

		case "register":
			if a.isLoggedIn() {
				printlnFn(w, "You are already logged in.")
				continue
			}
			_ = a.Register(ctx)

		case "login":
			if a.isLoggedIn() {
				printlnFn(w, "You are already logged in.")
				continue
			}
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "posts", "l":
			_ = a.Posts(ctx, args)

		case "tab":
			_ = a.SetTab(ctx, args)

		case "post", "show":
			_ = a.ShowPost(ctx, args)

		case "schedule":
			_ = a.Schedule(ctx, args)

		case "addpost":
			_ = a.AddPost(ctx)

		case "myposts":
			_ = a.MyPosts(ctx)

		case "deletepost":
			_ = a.DeletePost(ctx, args)

		case "profile":
			_ = a.Profile(ctx)

		case "editprofile":
			_ = a.EditProfile(ctx)

		case "addbalance":
			_ = a.AddBalance(ctx)

		case "skills":
			_ = a.Skills(ctx, args)

		case "exit", "quit":
			printlnFn(w, "Bye!")
			return

		default:
			printlnFn(w, "Unknown command:", cmd)
		}
	}
}

func needsSession(cmd string) bool {
	switch cmd {
	case "logout", "posts", "l", "post", "show", "schedule", "addpost",
		"myposts", "deletepost", "profile", "editprofile", "addbalance":
		return true
	}
	return false
}
