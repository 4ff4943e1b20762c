package cli

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/pagination"
)

const homePreview = 5

// Home loads the community feed, the user list and the user's own posts
// side by side and prints a short preview of each. One failing list does
// not stop the others.
func (a *App) Home(ctx context.Context, _ []string) error {
	var g errgroup.Group
	g.Go(func() error { return a.feed.Refresh(ctx) })
	g.Go(func() error { return a.users.Refresh(ctx) })
	g.Go(func() error { return a.mine.Refresh(ctx) })
	// each list keeps its own failure in State().Err, shown below
	if err := g.Wait(); err != nil {
		a.log.Warn(ctx, "home: not every list loaded", "err", err)
	}

	render := a.postRenderer()

	fmt.Fprintln(a.out, "== Community ==")
	feed := a.feed.State()
	if feed.Err != "" {
		fmt.Fprintln(a.out, "  could not load:", feed.Err)
	}
	for i, p := range feed.Items {
		if i == homePreview {
			break
		}
		render(a.out, p)
	}

	fmt.Fprintln(a.out, "== Your posts ==")
	mine := a.mine.State()
	if mine.Err != "" {
		fmt.Fprintln(a.out, "  could not load:", mine.Err)
	}
	fmt.Fprintf(a.out, "  %d on the first page of the feed\n", len(mine.Items))

	fmt.Fprintln(a.out, "== People ==")
	users := a.users.State()
	if users.Err != "" {
		fmt.Fprintln(a.out, "  could not load:", users.Err)
	}
	names := make([]string, 0, len(users.Items))
	for _, u := range users.Items {
		names = append(names, "@"+u.Username)
	}
	fmt.Fprintln(a.out, " ", strings.Join(names, " "))

	a.more = nil
	return nil
}

func (a *App) Feed(ctx context.Context, _ []string) error {
	return showList(ctx, a, a.feed, a.postRenderer(), "No posts yet.")
}

// MyPosts shows the community feed filtered down to the user's own posts.
func (a *App) MyPosts(ctx context.Context, _ []string) error {
	return showList(ctx, a, a.mine, a.postRenderer(), "You have not posted on this page of the feed.")
}

func (a *App) ShowPost(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"post <id>"}
	}
	p, err := a.api.GetPost(ctx, args[0])
	if err != nil {
		return err
	}
	renderPost(a.out, p, a.me())

	a.openPost(p.ID)
	fmt.Fprintln(a.out, "Comments:")
	return showList(ctx, a, a.comments, a.commentRenderer(), "  No comments yet.")
}

func (a *App) CreatePost(ctx context.Context, _ []string) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	if title == "" || content == "" {
		return usageError{"create (title and content are required)"}
	}

	p, err := a.api.CreatePost(ctx, api.PostInput{Title: title, Content: content})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created post %s\n", p.ID)

	if err := a.feed.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "refreshing feed after create failed", "err", err)
	}
	return nil
}

// EditPost prompts for a new title and content; empty answers keep the
// current values.
func (a *App) EditPost(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"edit <id>"}
	}
	cur, err := a.api.GetPost(ctx, args[0])
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", cur.Title), a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}
	if title == "" {
		title = cur.Title
	}
	if content == "" {
		content = cur.Content
	}

	p, err := a.api.UpdatePost(ctx, cur.ID, api.PostInput{Title: title, Content: content})
	if err != nil {
		return err
	}
	a.replacePost(p)
	fmt.Fprintf(a.out, "Updated post %s\n", p.ID)
	return nil
}

func (a *App) DeletePost(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"delete <id>"}
	}
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete post %s? (y/N)", args[0]), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.api.DeletePost(ctx, args[0]); err != nil {
		return err
	}
	id := args[0]
	byID := func(p api.Post) bool { return p.ID == id }
	a.feed.Remove(byID)
	a.mine.Remove(byID)
	if a.listed != nil {
		a.listed.Remove(byID)
	}
	if a.postID == id {
		a.postID, a.comments = "", nil
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) LikePost(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"like <id>"}
	}
	p, err := a.api.ToggleLikePost(ctx, args[0])
	if err != nil {
		return err
	}
	a.replacePost(p)
	if p.LikedBy(a.me()) {
		fmt.Fprintf(a.out, "Liked (%d likes)\n", len(p.Likes))
	} else {
		fmt.Fprintf(a.out, "Unliked (%d likes)\n", len(p.Likes))
	}
	return nil
}

func (a *App) Repost(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"repost <id>"}
	}
	p, err := a.api.Repost(ctx, args[0])
	if err != nil {
		return err
	}
	a.replacePost(p)
	fmt.Fprintf(a.out, "Reposted (%d reposts)\n", len(p.RePosts))
	return nil
}

// Mentions lists posts that mention username, the signed-in user by
// default.
func (a *App) Mentions(ctx context.Context, args []string) error {
	var username string
	switch len(args) {
	case 0:
		u, err := a.session.User()
		if err != nil {
			return err
		}
		username = u.Username
	case 1:
		username = strings.TrimPrefix(args[0], "@")
	default:
		return usageError{"mentions [username]"}
	}

	a.listed = pagination.New(func(ctx context.Context, page int) (api.Page[api.Post], error) {
		return a.api.PostsByMention(ctx, username, page, a.config.PageSize)
	}, pagination.WithLogger[api.Post](a.log))

	fmt.Fprintf(a.out, "Posts mentioning @%s:\n", username)
	return showList(ctx, a, a.listed, a.postRenderer(), "  None.")
}

// replacePost swaps the fresh copy of p into every loaded list.
func (a *App) replacePost(p api.Post) {
	byID := func(x api.Post) bool { return x.ID == p.ID }
	a.feed.Replace(byID, p)
	a.mine.Replace(byID, p)
	if a.listed != nil {
		a.listed.Replace(byID, p)
	}
}
