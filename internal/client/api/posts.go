package api

import (
	"context"
	"net/http"
)

func (g *Gateway) ListPosts(ctx context.Context, page, limit int) (Page[Post], error) {
	return Call[Page[Post]](ctx, g, http.MethodGet, withPage(PathPosts, page, limit), nil)
}

func (g *Gateway) GetPost(ctx context.Context, id string) (Post, error) {
	return Call[Post](ctx, g, http.MethodGet, postPath(id), nil)
}

func (g *Gateway) CreatePost(ctx context.Context, in PostInput) (Post, error) {
	return Call[Post](ctx, g, http.MethodPost, PathPosts, in)
}

func (g *Gateway) UpdatePost(ctx context.Context, id string, in PostInput) (Post, error) {
	return Call[Post](ctx, g, http.MethodPut, postPath(id), in)
}

func (g *Gateway) DeletePost(ctx context.Context, id string) error {
	_, err := g.Do(ctx, http.MethodDelete, postPath(id), nil)
	return err
}

// ToggleLikePost likes or unlikes the post and returns its new state.
func (g *Gateway) ToggleLikePost(ctx context.Context, id string) (Post, error) {
	return Call[Post](ctx, g, http.MethodPost, postLikePath(id), nil)
}

func (g *Gateway) Repost(ctx context.Context, id string) (Post, error) {
	return Call[Post](ctx, g, http.MethodPost, postRepostPath(id), nil)
}

// PostsByMention lists posts that mention username.
func (g *Gateway) PostsByMention(ctx context.Context, username string, page, limit int) (Page[Post], error) {
	return Call[Page[Post]](ctx, g, http.MethodGet, withPage(mentionPath(username), page, limit), nil)
}
