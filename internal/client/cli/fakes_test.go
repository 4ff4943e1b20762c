package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/config"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/session"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/tokens"
)

// fakeBackend is an in-memory blogging service.
type fakeBackend struct {
	mu       sync.Mutex
	me       api.User
	users    []api.User
	posts    []api.Post
	comments []api.Comment
	failAll  error
	seq      int

	calls     []string
	lastLimit int
	lastQuery string
}

func newFakeBackend() *fakeBackend {
	ann := api.User{ID: "u1", Username: "ann", Email: "ann@x.io"}
	bob := api.User{ID: "u2", Username: "bob", Email: "bob@x.io"}
	joan := api.User{ID: "u3", Username: "joan", Email: "joan@x.io"}
	return &fakeBackend{
		me:    ann,
		users: []api.User{ann, bob, joan},
		posts: []api.Post{
			{ID: "p1", Title: "Hello", Content: "first post @bob", Author: ann},
			{ID: "p2", Title: "Bob here", Content: "hi", Author: bob},
			{ID: "p3", Title: "Again", Content: "more", Author: ann},
		},
	}
}

func (f *fakeBackend) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.failAll
}

func paged[T any](items []T, page, limit int) api.Page[T] {
	if limit <= 0 {
		limit = 10
	}
	start := (page - 1) * limit
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	out := append([]T(nil), items[start:end]...)
	return api.Page[T]{Data: out, Pagination: api.Pagination{Page: page, Limit: limit, Total: len(items), HasNext: end < len(items)}}
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (api.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("login %s", email); err != nil {
		return api.AuthResult{}, err
	}
	if password != "pw" {
		return api.AuthResult{}, &api.Error{Kind: api.ErrUnauthorized, Status: 401, Message: "Invalid credentials"}
	}
	return api.AuthResult{Token: "jwt", User: f.me}, nil
}

func (f *fakeBackend) Signup(_ context.Context, username, email, _ string) (api.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("signup %s %s", username, email); err != nil {
		return api.AuthResult{}, err
	}
	u := api.User{ID: "u9", Username: username, Email: email}
	f.users = append(f.users, u)
	f.me = u
	return api.AuthResult{Token: "jwt", User: u}, nil
}

func (f *fakeBackend) Me(context.Context) (api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.me, f.record("me")
}

func (f *fakeBackend) ListPosts(_ context.Context, page, limit int) (api.Page[api.Post], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if err := f.record("posts %d", page); err != nil {
		return api.Page[api.Post]{}, err
	}
	return paged(f.posts, page, limit), nil
}

func (f *fakeBackend) findPost(id string) int {
	for i, p := range f.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

var errNotFound = &api.Error{Kind: api.ErrClient, Status: 404, Message: "Post not found"}

func (f *fakeBackend) GetPost(_ context.Context, id string) (api.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("get %s", id); err != nil {
		return api.Post{}, err
	}
	i := f.findPost(id)
	if i < 0 {
		return api.Post{}, errNotFound
	}
	return f.posts[i], nil
}

func (f *fakeBackend) CreatePost(_ context.Context, in api.PostInput) (api.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create %s", in.Title); err != nil {
		return api.Post{}, err
	}
	f.seq++
	p := api.Post{ID: fmt.Sprintf("n%d", f.seq), Title: in.Title, Content: in.Content, Author: f.me}
	f.posts = append([]api.Post{p}, f.posts...)
	return p, nil
}

func (f *fakeBackend) UpdatePost(_ context.Context, id string, in api.PostInput) (api.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update %s", id); err != nil {
		return api.Post{}, err
	}
	i := f.findPost(id)
	if i < 0 {
		return api.Post{}, errNotFound
	}
	f.posts[i].Title, f.posts[i].Content = in.Title, in.Content
	return f.posts[i], nil
}

func (f *fakeBackend) DeletePost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete %s", id); err != nil {
		return err
	}
	i := f.findPost(id)
	if i < 0 {
		return errNotFound
	}
	f.posts = append(f.posts[:i], f.posts[i+1:]...)
	return nil
}

func toggle(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return append(ids, id)
}

func (f *fakeBackend) ToggleLikePost(_ context.Context, id string) (api.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("like %s", id); err != nil {
		return api.Post{}, err
	}
	i := f.findPost(id)
	if i < 0 {
		return api.Post{}, errNotFound
	}
	f.posts[i].Likes = toggle(f.posts[i].Likes, f.me.ID)
	return f.posts[i], nil
}

func (f *fakeBackend) Repost(_ context.Context, id string) (api.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("repost %s", id); err != nil {
		return api.Post{}, err
	}
	i := f.findPost(id)
	if i < 0 {
		return api.Post{}, errNotFound
	}
	f.posts[i].RePosts = append(f.posts[i].RePosts, f.me.ID)
	return f.posts[i], nil
}

func (f *fakeBackend) PostsByMention(_ context.Context, username string, page, limit int) (api.Page[api.Post], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("mentions %s %d", username, page); err != nil {
		return api.Page[api.Post]{}, err
	}
	var out []api.Post
	for _, p := range f.posts {
		if strings.Contains(p.Content, "@"+username) {
			out = append(out, p)
		}
	}
	return paged(out, page, limit), nil
}

func (f *fakeBackend) ListUsers(_ context.Context, page, limit int) (api.Page[api.User], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("users %d %d", page, limit); err != nil {
		return api.Page[api.User]{}, err
	}
	return paged(f.users, page, limit), nil
}

func (f *fakeBackend) GetUser(_ context.Context, key string) (api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("user %s", key); err != nil {
		return api.User{}, err
	}
	for _, u := range f.users {
		if u.ID == key || u.Username == key {
			return u, nil
		}
	}
	return api.User{}, &api.Error{Kind: api.ErrClient, Status: 404, Message: "User not found"}
}

func (f *fakeBackend) UserPosts(_ context.Context, key string, page, limit int) (api.Page[api.Post], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("userposts %s %d", key, page); err != nil {
		return api.Page[api.Post]{}, err
	}
	var out []api.Post
	for _, p := range f.posts {
		if p.Author.ID == key || p.Author.Username == key {
			out = append(out, p)
		}
	}
	return paged(out, page, limit), nil
}

func (f *fakeBackend) SearchUsers(_ context.Context, q string, limit int) ([]api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery, f.lastLimit = q, limit
	if err := f.record("search %s", q); err != nil {
		return nil, err
	}
	var out []api.User
	for _, u := range f.users {
		if strings.HasPrefix(u.Username, q) && len(out) < limit {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeBackend) CreateComment(_ context.Context, in api.CommentInput) (api.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("comment %s %q %s", in.PostID, in.Content, in.ParentCommentID); err != nil {
		return api.Comment{}, err
	}
	f.seq++
	c := api.Comment{ID: fmt.Sprintf("c%d", f.seq), Post: in.PostID, Content: in.Content, ParentComment: in.ParentCommentID, Author: f.me}
	f.comments = append(f.comments, c)
	return c, nil
}

func (f *fakeBackend) CommentsByPost(_ context.Context, postID string, page, limit int) (api.Page[api.Comment], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("comments %s %d", postID, page); err != nil {
		return api.Page[api.Comment]{}, err
	}
	var out []api.Comment
	for _, c := range f.comments {
		if c.Post == postID {
			out = append(out, c)
		}
	}
	return paged(out, page, limit), nil
}

func (f *fakeBackend) ToggleLikeComment(_ context.Context, id string) (api.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("likecomment %s", id); err != nil {
		return api.Comment{}, err
	}
	for i := range f.comments {
		if f.comments[i].ID == id {
			f.comments[i].Likes = toggle(f.comments[i].Likes, f.me.ID)
			return f.comments[i], nil
		}
	}
	return api.Comment{}, &api.Error{Kind: api.ErrClient, Status: 404, Message: "Comment not found"}
}

func (f *fakeBackend) DeleteComment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delcomment %s", id); err != nil {
		return err
	}
	for i := range f.comments {
		if f.comments[i].ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return nil
		}
	}
	return &api.Error{Kind: api.ErrClient, Status: 404, Message: "Comment not found"}
}

func (f *fakeBackend) Health(context.Context) (api.Health, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("health"); err != nil {
		return api.Health{}, err
	}
	return api.Health{Success: true, Message: "OK", Uptime: 90}, nil
}

func (f *fakeBackend) called(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// memTokens is a TokenStore whose expiry is switched by hand.
type memTokens struct {
	mu      sync.Mutex
	token   string
	expired bool
}

func (m *memTokens) Check(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", tokens.ErrNoToken
	}
	return m.token, nil
}

func (m *memTokens) Valid(context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != "" && !m.expired
}

func (m *memTokens) expire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expired = true
}

func (m *memTokens) Set(_ context.Context, t string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = t
	return nil
}

func (m *memTokens) Remove(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.PageSize = 2
	cfg.HealthCheckInterval = 0
	cfg.MentionDebounce = time.Hour
	return cfg
}

// newTestApp wires an App over a fake backend. input feeds the prompts;
// the returned buffer collects everything printed.
func newTestApp(t *testing.T, fb *fakeBackend, input string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	sess := session.New(fb, &memTokens{}, nil)
	a := NewApp(testConfig(), fb, sess, nil, strings.NewReader(input), &out)
	return a, &out
}

// loggedInApp is newTestApp with ann already signed in.
func loggedInApp(t *testing.T, fb *fakeBackend, input string) (*App, *bytes.Buffer) {
	t.Helper()
	a, out := newTestApp(t, fb, input)
	if err := a.session.Login(context.Background(), "ann@x.io", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return a, out
}

// stubPasswords replaces the password prompt with successive answers; text
// prompts keep reading from the App's reader.
func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	getPassword = func(io.Writer) ([]byte, error) {
		if len(answers) == 0 {
			return nil, io.EOF
		}
		pw := answers[0]
		answers = answers[1:]
		return []byte(pw), nil
	}
}

// outputLines splits printed output into trimmed, non-empty lines.
func outputLines(out *bytes.Buffer) []string {
	var lines []string
	for _, l := range strings.Split(out.String(), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func reader(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}
