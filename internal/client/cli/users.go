package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/pagination"
)

func (a *App) Users(ctx context.Context, _ []string) error {
	return showList(ctx, a, a.users, func(w io.Writer, u api.User) { renderUser(w, u) }, "No users.")
}

// ShowUser prints a profile, looked up by id or username, followed by the
// user's posts.
func (a *App) ShowUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"user <username|id>"}
	}
	key := strings.TrimPrefix(args[0], "@")

	u, err := a.api.GetUser(ctx, key)
	if err != nil {
		return err
	}
	renderUser(a.out, u)

	a.listed = pagination.New(func(ctx context.Context, page int) (api.Page[api.Post], error) {
		return a.api.UserPosts(ctx, key, page, a.config.PageSize)
	}, pagination.WithLogger[api.Post](a.log))

	fmt.Fprintf(a.out, "Posts by @%s:\n", u.Username)
	return showList(ctx, a, a.listed, a.postRenderer(), "  None.")
}
