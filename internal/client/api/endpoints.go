package api

import (
	"fmt"
	"net/url"
)

const (
	PathSignup      = "/auth/signup"
	PathLogin       = "/auth/login"
	PathMe          = "/auth/me"
	PathPosts       = "/posts"
	PathUsers       = "/users"
	PathUsersSearch = "/users/search"
	PathComments    = "/comments"
	PathHealth      = "/health"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

func postPath(id string) string        { return PathPosts + "/" + url.PathEscape(id) }
func postLikePath(id string) string    { return postPath(id) + "/like" }
func postRepostPath(id string) string  { return postPath(id) + "/repost" }
func mentionPath(user string) string   { return PathPosts + "/mention/" + url.PathEscape(user) }
func userPath(id string) string        { return PathUsers + "/" + url.PathEscape(id) }
func usernamePath(name string) string  { return PathUsers + "/username/" + url.PathEscape(name) }
func commentPath(id string) string     { return PathComments + "/" + url.PathEscape(id) }
func commentLikePath(id string) string { return commentPath(id) + "/like" }
func postCommentsPath(postID string) string {
	return PathComments + "/post/" + url.PathEscape(postID)
}

// withPage appends page and limit query parameters, clamping both into
// their valid ranges.
func withPage(path string, page, limit int) string {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return fmt.Sprintf("%s?page=%d&limit=%d", path, page, limit)
}

// IsObjectID reports whether s looks like a 24-hex-digit document id, which
// decides between the by-id and by-username user routes.
func IsObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
