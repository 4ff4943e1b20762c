package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/mention"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/pagination"
)

var errNoPost = errors.New("no post open; use 'post <id>' or pass a post id")

// openPost makes postID the target of the comment commands.
func (a *App) openPost(postID string) {
	if a.postID == postID && a.comments != nil {
		return
	}
	a.postID = postID
	a.comments = pagination.New(func(ctx context.Context, page int) (api.Page[api.Comment], error) {
		return a.api.CommentsByPost(ctx, postID, page, a.config.PageSize)
	}, pagination.WithLogger[api.Comment](a.log))
}

func (a *App) commentRenderer() func(io.Writer, api.Comment) {
	me := a.me()
	return func(w io.Writer, c api.Comment) { renderComment(w, c, me) }
}

// targetPost resolves the optional post id argument of a comment command.
func (a *App) targetPost(args []string, usage string) error {
	switch {
	case len(args) == 1:
		a.openPost(args[0])
	case len(args) > 1:
		return usageError{usage}
	case a.postID == "":
		return errNoPost
	}
	return nil
}

func (a *App) Comments(ctx context.Context, args []string) error {
	if err := a.targetPost(args, "comments [post id]"); err != nil {
		return err
	}
	return showList(ctx, a, a.comments, a.commentRenderer(), "No comments yet.")
}

func (a *App) Comment(ctx context.Context, args []string) error {
	if err := a.targetPost(args, "comment [post id]"); err != nil {
		return err
	}
	return a.postComment(ctx, "")
}

// Reply answers a comment of the open post.
func (a *App) Reply(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"reply <comment id>"}
	}
	if a.postID == "" {
		return errNoPost
	}
	return a.postComment(ctx, args[0])
}

func (a *App) postComment(ctx context.Context, parentID string) error {
	text, err := a.composeComment(ctx)
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Fprintln(a.out, "Empty comment, nothing sent.")
		return nil
	}

	c, err := a.api.CreateComment(ctx, api.CommentInput{PostID: a.postID, Content: text, ParentCommentID: parentID})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Comment %s posted.\n", c.ID)

	return showList(ctx, a, a.comments, a.commentRenderer(), "No comments yet.")
}

// composeComment reads a comment line by line. When a line ends in an
// @word, matching users are offered and the chosen one is spliced in. An
// empty line finishes the comment.
func (a *App) composeComment(ctx context.Context) (string, error) {
	in := mention.NewInput(a.api.SearchUsers,
		mention.WithDebounce(a.config.MentionDebounce),
		mention.WithLimit(a.config.MentionLimit),
		mention.WithMaxLength(a.config.MaxCommentLength),
		mention.WithLogger(a.log),
		mention.WithContext(ctx),
	)
	defer in.Close()

	fmt.Fprintf(a.out, "Write your comment (max %d characters). End a line with @name for suggestions.\n", a.config.MaxCommentLength)
	for {
		line, err := getSimpleText(a.reader, "Text (empty line sends)", a.out)
		if err != nil {
			return "", err
		}
		if line == "" {
			break
		}

		next := line
		if cur := in.Snapshot().Text; cur != "" {
			next = cur + line
			if !strings.HasSuffix(cur, " ") {
				next = cur + "\n" + line
			}
		}
		if err := in.OnTextChange(next, utf8.RuneCountInString(next)); err != nil {
			if errors.Is(err, mention.ErrTextTooLong) {
				fmt.Fprintf(a.out, "That would exceed %d characters; line dropped.\n", a.config.MaxCommentLength)
				continue
			}
			return "", err
		}

		if err := a.suggest(ctx, in); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(in.Snapshot().Text), nil
}

// suggest offers candidates for an open mention and splices the pick.
func (a *App) suggest(ctx context.Context, in *mention.Input) error {
	snap := in.Snapshot()
	if !snap.Open || snap.Query == "" {
		return nil
	}

	snap = a.awaitCandidates(ctx, in)
	if len(snap.Candidates) == 0 {
		fmt.Fprintf(a.out, "No users match @%s.\n", snap.Query)
		return nil
	}
	for i, u := range snap.Candidates {
		fmt.Fprintf(a.out, "  %d) @%s\n", i+1, u.Username)
	}

	pick, err := getSimpleText(a.reader, "Pick a number to insert (Enter to keep typing)", a.out)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(pick)
	if err != nil || n < 1 || n > len(snap.Candidates) {
		return nil
	}

	text, _, err := in.Select(snap.Candidates[n-1].Username)
	if err != nil {
		fmt.Fprintln(a.out, describe(err))
		return nil
	}
	fmt.Fprintf(a.out, "Draft: %s\n", text)
	return nil
}

// awaitCandidates skips the quiet interval and waits until the search for
// the open query has settled.
func (a *App) awaitCandidates(ctx context.Context, in *mention.Input) mention.Snapshot {
	in.Flush()

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		snap := in.Snapshot()
		if !snap.Loading {
			return snap
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return in.Snapshot()
		}
	}
}

func (a *App) LikeComment(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"likecomment <id>"}
	}
	c, err := a.api.ToggleLikeComment(ctx, args[0])
	if err != nil {
		return err
	}
	if c.LikedBy(a.me()) {
		fmt.Fprintln(a.out, "Comment liked.")
	} else {
		fmt.Fprintln(a.out, "Comment unliked.")
	}

	if a.comments == nil {
		return nil
	}
	return showList(ctx, a, a.comments, a.commentRenderer(), "No comments yet.")
}

func (a *App) DeleteComment(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"delcomment <id>"}
	}
	if err := a.api.DeleteComment(ctx, args[0]); err != nil {
		return err
	}
	if a.comments != nil {
		id := args[0]
		a.comments.Remove(func(c api.Comment) bool { return c.ID == id })
	}
	fmt.Fprintln(a.out, "Comment deleted.")
	return nil
}
