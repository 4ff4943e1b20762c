package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/config"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/pagination"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/session"
	"github.com/dmitrijs2005/chirpkeeper/internal/logging"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// Backend is the part of the API gateway the commands use.
type Backend interface {
	ListPosts(ctx context.Context, page, limit int) (api.Page[api.Post], error)
	GetPost(ctx context.Context, id string) (api.Post, error)
	CreatePost(ctx context.Context, in api.PostInput) (api.Post, error)
	UpdatePost(ctx context.Context, id string, in api.PostInput) (api.Post, error)
	DeletePost(ctx context.Context, id string) error
	ToggleLikePost(ctx context.Context, id string) (api.Post, error)
	Repost(ctx context.Context, id string) (api.Post, error)
	PostsByMention(ctx context.Context, username string, page, limit int) (api.Page[api.Post], error)

	ListUsers(ctx context.Context, page, limit int) (api.Page[api.User], error)
	GetUser(ctx context.Context, idOrUsername string) (api.User, error)
	UserPosts(ctx context.Context, idOrUsername string, page, limit int) (api.Page[api.Post], error)
	SearchUsers(ctx context.Context, query string, limit int) ([]api.User, error)

	CreateComment(ctx context.Context, in api.CommentInput) (api.Comment, error)
	CommentsByPost(ctx context.Context, postID string, page, limit int) (api.Page[api.Comment], error)
	ToggleLikeComment(ctx context.Context, id string) (api.Comment, error)
	DeleteComment(ctx context.Context, id string) error

	Health(ctx context.Context) (api.Health, error)
}

type App struct {
	config  *config.Config
	api     Backend
	session *session.Session
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	modeMu sync.Mutex
	mode   Mode

	feed     *pagination.Collection[api.Post]
	mine     *pagination.Collection[api.Post]
	users    *pagination.Collection[api.User]
	listed   *pagination.Collection[api.Post]
	comments *pagination.Collection[api.Comment]
	postID   string

	// more pages the list shown last.
	more func(ctx context.Context) error

	commands []command
}

// NewApp builds the REPL application on top of an already wired backend and
// session. Input is read from in and everything user-facing goes to out.
func NewApp(cfg *config.Config, backend Backend, sess *session.Session, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	a := &App{
		config:  cfg,
		api:     backend,
		session: sess,
		log:     log,
		reader:  bufio.NewReader(in),
		out:     out,
	}

	a.resetLists()
	a.commands = a.buildCommands()
	return a
}

func (a *App) fetchFeed(ctx context.Context, page int) (api.Page[api.Post], error) {
	return a.api.ListPosts(ctx, page, a.config.PageSize)
}

// isMine reports whether p was written by the signed-in user.
func (a *App) isMine(p api.Post) bool {
	u, err := a.session.User()
	return err == nil && p.Author.ID == u.ID
}

func (a *App) me() string {
	u, err := a.session.User()
	if err != nil {
		return ""
	}
	return u.ID
}

func (a *App) isLoggedIn() bool {
	return a.session.State().IsAuthenticated
}

// expire signs out when the stored token has run out and drops the lists
// loaded for that identity.
func (a *App) expire(ctx context.Context) bool {
	if !a.session.Expire(ctx) {
		return false
	}
	a.resetLists()
	return true
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) getStatus() string {
	s := "guest"
	if u, err := a.session.User(); err == nil {
		s = "@" + u.Username
	}
	if m := a.Mode(); m != "" {
		s += " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

// Run restores the previous session and serves the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to chirpkeeper (type 'help' for commands)")

	a.session.Initialize(ctx)
	if u, err := a.session.User(); err == nil {
		fmt.Fprintf(a.out, "Signed in as @%s\n", u.Username)
	}

	if a.config.HealthCheckInterval > 0 {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.StartOnlineStatusWatcher(watchCtx, a.config.HealthCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// StartOnlineStatusWatcher probes the health endpoint every interval and
// flips the mode shown in the prompt. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	if _, err := a.api.Health(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// resetLists drops everything loaded for the previous identity.
func (a *App) resetLists() {
	a.feed = pagination.New(a.fetchFeed, pagination.WithLogger[api.Post](a.log))
	a.mine = pagination.New(a.fetchFeed, pagination.WithFilter(a.isMine), pagination.WithLogger[api.Post](a.log))
	a.users = pagination.New(func(ctx context.Context, page int) (api.Page[api.User], error) {
		return a.api.ListUsers(ctx, page, a.config.UsersPageSize)
	}, pagination.WithLogger[api.User](a.log))
	a.listed, a.comments = nil, nil
	a.postID = ""
	a.more = nil
}
