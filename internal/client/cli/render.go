package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/mention"
)

const timeLayout = "2006-01-02 15:04"

func renderPost(w io.Writer, p api.Post, me string) {
	fmt.Fprintf(w, "[%s] %s\n", p.ID, p.Title)

	liked := ""
	if me != "" && p.LikedBy(me) {
		liked = " (liked)"
	}
	fmt.Fprintf(w, "  by @%s · %s · likes %d%s · reposts %d · comments %d\n",
		p.Author.Username, when(p.CreatedAt), len(p.Likes), liked, len(p.RePosts), len(p.Comments))

	for _, line := range strings.Split(p.Content, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	renderMentions(w, p.Content)
}

func renderComment(w io.Writer, c api.Comment, me string) {
	indent := "  "
	if c.ParentComment != "" {
		indent = "    ↳ "
	}
	liked := ""
	if me != "" && c.LikedBy(me) {
		liked = ", liked"
	}
	fmt.Fprintf(w, "%s[%s] @%s: %s (likes %d%s)\n", indent, c.ID, c.Author.Username, c.Content, len(c.Likes), liked)
}

func renderUser(w io.Writer, u api.User) {
	fmt.Fprintf(w, "[%s] @%s", u.ID, u.Username)
	if u.Email != "" {
		fmt.Fprintf(w, " <%s>", u.Email)
	}
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(w, " joined %s", u.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintln(w)
}

// renderMentions lists the users a text mentions, the way the web client
// turns them into profile links.
func renderMentions(w io.Writer, text string) {
	names := mention.Mentions(text)
	if len(names) == 0 {
		return
	}
	for i, n := range names {
		names[i] = "@" + n
	}
	fmt.Fprintf(w, "  mentions: %s\n", strings.Join(names, " "))
}

func renderFooter(w io.Writer, page int, hasNext bool) {
	if hasNext {
		fmt.Fprintf(w, "-- page %d, type 'more' for the next one --\n", page)
		return
	}
	fmt.Fprintf(w, "-- page %d, end of list --\n", page)
}

func when(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Local().Format(timeLayout)
}
