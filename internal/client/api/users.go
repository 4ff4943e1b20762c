package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

func (g *Gateway) ListUsers(ctx context.Context, page, limit int) (Page[User], error) {
	return Call[Page[User]](ctx, g, http.MethodGet, withPage(PathUsers, page, limit), nil)
}

// GetUser fetches a profile by document id or, for anything that is not an
// object id, by username.
func (g *Gateway) GetUser(ctx context.Context, idOrUsername string) (User, error) {
	path := usernamePath(idOrUsername)
	if IsObjectID(idOrUsername) {
		path = userPath(idOrUsername)
	}
	return Call[User](ctx, g, http.MethodGet, path, nil)
}

// UserPosts lists the posts of a user given by id or username.
func (g *Gateway) UserPosts(ctx context.Context, idOrUsername string, page, limit int) (Page[Post], error) {
	path := usernamePath(idOrUsername) + "/posts"
	if IsObjectID(idOrUsername) {
		path = userPath(idOrUsername) + "/posts"
	}
	return Call[Page[Post]](ctx, g, http.MethodGet, withPage(path, page, limit), nil)
}

// SearchUsers returns at most limit users matching query. Both a bare array
// and the paginated shape are accepted.
func (g *Gateway) SearchUsers(ctx context.Context, query string, limit int) ([]User, error) {
	if limit < 1 {
		limit = DefaultLimit
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	path := PathUsersSearch + "?" + q.Encode()

	payload, err := g.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	users, err := decodeList[User](payload)
	if err != nil {
		return nil, &Error{Kind: ErrBadResponse, Method: http.MethodGet, Path: path, Cause: err}
	}
	return users, nil
}

func decodeList[T any](payload json.RawMessage) ([]T, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	if isArray(payload) {
		var out []T
		err := json.Unmarshal(payload, &out)
		return out, err
	}
	var page Page[T]
	err := json.Unmarshal(payload, &page)
	return page.Data, err
}
