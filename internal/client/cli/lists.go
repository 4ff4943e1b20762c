package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/pagination"
)

// showList reloads c from the first page, prints it and makes it the
// target of "more".
func showList[T any](ctx context.Context, a *App, c *pagination.Collection[T], render func(io.Writer, T), empty string) error {
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	st := c.State()
	if len(st.Items) == 0 {
		fmt.Fprintln(a.out, empty)
	}
	for _, it := range st.Items {
		render(a.out, it)
	}
	renderFooter(a.out, st.Page, st.HasNext)

	a.more = func(ctx context.Context) error {
		prev := c.Len()
		if err := c.LoadMore(ctx); err != nil {
			return err
		}
		st := c.State()
		if prev > len(st.Items) {
			prev = 0
		}
		for _, it := range st.Items[prev:] {
			render(a.out, it)
		}
		renderFooter(a.out, st.Page, st.HasNext)
		return nil
	}
	return nil
}

// More pages the list shown last.
func (a *App) More(ctx context.Context, _ []string) error {
	if a.more == nil {
		fmt.Fprintln(a.out, "Nothing to page yet; open a list first.")
		return nil
	}
	return a.more(ctx)
}

func (a *App) postRenderer() func(io.Writer, api.Post) {
	me := a.me()
	return func(w io.Writer, p api.Post) { renderPost(w, p, me) }
}
