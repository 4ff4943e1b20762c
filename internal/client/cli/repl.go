package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/mention"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/pagination"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/session"
)

// command is one REPL verb.
type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	auth    bool
	run     func(ctx context.Context, args []string) error
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	expire(ctx context.Context) bool
	lookup(name string) (command, bool)
	available(loggedIn bool) []command
}

// usageError reports wrong arguments for a command.
type usageError struct{ usage string }

func (e usageError) Error() string { return "usage: " + e.usage }

// runREPL starts a read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command and
// dispatches it. Commands that need an identity are refused while signed
// out or once the stored token has expired. Everything is printed to out.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are rendered for the user and never
// end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "chirp %s> \n", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		case "help":
			printHelp(out, a.available(a.isLoggedIn()))
			continue
		}

		cmd, ok := a.lookup(name)
		if !ok {
			fmt.Fprintln(out, "Unknown command:", name)
			continue
		}
		if cmd.auth && a.expire(ctx) {
			fmt.Fprintln(out, "Your session has expired. Please log in again.")
			continue
		}
		if cmd.auth && !a.isLoggedIn() {
			fmt.Fprintln(out, "Please log in first (login or signup).")
			continue
		}
		if err := cmd.run(ctx, args); err != nil {
			fmt.Fprintln(out, describe(err))
		}
	}
}

func printHelp(out io.Writer, cmds []command) {
	fmt.Fprintln(out, "Available commands:")
	for _, c := range cmds {
		fmt.Fprintf(out, "  %-28s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(out, "  %-28s %s\n", "help", "show this list")
	fmt.Fprintf(out, "  %-28s %s\n", "exit | quit", "leave the program")
}

// describe turns a command error into the line shown to the user.
func describe(err error) string {
	var ue usageError
	switch {
	case errors.As(err, &ue):
		return "Usage: " + ue.usage
	case errors.Is(err, pagination.ErrNoMorePages):
		return "No more items."
	case errors.Is(err, pagination.ErrLoadInProgress):
		return "Still loading, try again in a moment."
	case errors.Is(err, mention.ErrTextTooLong):
		return "Text is too long."
	case errors.Is(err, session.ErrNotAuthenticated):
		return "Please log in first (login or signup)."
	}
	return "Error: " + api.Message(err)
}

func (a *App) lookup(name string) (command, bool) {
	for _, c := range a.commands {
		if c.name == name {
			return c, true
		}
		for _, al := range c.aliases {
			if al == name {
				return c, true
			}
		}
	}
	return command{}, false
}

func (a *App) available(loggedIn bool) []command {
	var out []command
	for _, c := range a.commands {
		if c.auth && !loggedIn {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (a *App) buildCommands() []command {
	return []command{
		{name: "signup", aliases: []string{"register"}, usage: "signup", help: "create an account", run: a.Signup},
		{name: "login", usage: "login", help: "sign in", run: a.Login},
		{name: "logout", usage: "logout", help: "sign out", auth: true, run: a.Logout},
		{name: "whoami", usage: "whoami", help: "show the signed-in user", auth: true, run: a.Whoami},
		{name: "home", usage: "home", help: "load feed, users and your posts", auth: true, run: a.Home},
		{name: "feed", aliases: []string{"l", "list"}, usage: "feed", help: "community posts", auth: true, run: a.Feed},
		{name: "more", aliases: []string{"m"}, usage: "more", help: "next page of the last list", auth: true, run: a.More},
		{name: "myposts", usage: "myposts", help: "your own posts", auth: true, run: a.MyPosts},
		{name: "post", aliases: []string{"show"}, usage: "post <id>", help: "show a post with its comments", auth: true, run: a.ShowPost},
		{name: "create", usage: "create", help: "write a new post", auth: true, run: a.CreatePost},
		{name: "edit", usage: "edit <id>", help: "edit one of your posts", auth: true, run: a.EditPost},
		{name: "delete", usage: "delete <id>", help: "delete one of your posts", auth: true, run: a.DeletePost},
		{name: "like", usage: "like <id>", help: "like or unlike a post", auth: true, run: a.LikePost},
		{name: "repost", usage: "repost <id>", help: "repost a post", auth: true, run: a.Repost},
		{name: "mentions", usage: "mentions [username]", help: "posts mentioning a user (default: you)", auth: true, run: a.Mentions},
		{name: "users", usage: "users", help: "list users", auth: true, run: a.Users},
		{name: "user", usage: "user <username|id>", help: "show a profile and its posts", auth: true, run: a.ShowUser},
		{name: "comments", usage: "comments [post id]", help: "comments of a post", auth: true, run: a.Comments},
		{name: "comment", usage: "comment [post id]", help: "comment on a post, @ to mention", auth: true, run: a.Comment},
		{name: "reply", usage: "reply <comment id>", help: "reply to a comment of the open post", auth: true, run: a.Reply},
		{name: "likecomment", usage: "likecomment <id>", help: "like or unlike a comment", auth: true, run: a.LikeComment},
		{name: "delcomment", usage: "delcomment <id>", help: "delete one of your comments", auth: true, run: a.DeleteComment},
		{name: "health", usage: "health", help: "check the server", run: a.Health},
	}
}
