package api

import (
	"context"
	"net/http"
)

func (g *Gateway) CreateComment(ctx context.Context, in CommentInput) (Comment, error) {
	return Call[Comment](ctx, g, http.MethodPost, PathComments, in)
}

func (g *Gateway) CommentsByPost(ctx context.Context, postID string, page, limit int) (Page[Comment], error) {
	return Call[Page[Comment]](ctx, g, http.MethodGet, withPage(postCommentsPath(postID), page, limit), nil)
}

func (g *Gateway) ToggleLikeComment(ctx context.Context, id string) (Comment, error) {
	return Call[Comment](ctx, g, http.MethodPost, commentLikePath(id), nil)
}

func (g *Gateway) DeleteComment(ctx context.Context, id string) error {
	_, err := g.Do(ctx, http.MethodDelete, commentPath(id), nil)
	return err
}
