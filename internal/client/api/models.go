package api

import (
	"encoding/json"
	"maps"
	"slices"
	"time"
)

// User is the public profile of an account.
type User struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts both "_id" and "id" as the identifier.
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var aux struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.ID == "" {
		u.ID = aux.AltID
	}
	return nil
}

// UserPatch carries the fields of a local profile update; nil means keep.
type UserPatch struct {
	Username *string
	Email    *string
}

// Apply returns u with the non-nil fields of p applied.
func (p UserPatch) Apply(u User) User {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	return u
}

type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    User      `json:"author"`
	Likes     []string  `json:"likes"`
	Comments  []string  `json:"comments"`
	RePosts   []string  `json:"rePosts"`
	Mentions  []string  `json:"mentions"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LikedBy reports whether userID is among the post's likes.
func (p Post) LikedBy(userID string) bool {
	return contains(p.Likes, userID)
}

type Comment struct {
	ID            string    `json:"_id"`
	Content       string    `json:"content"`
	Author        User      `json:"author"`
	Post          string    `json:"post"`
	ParentComment string    `json:"parentComment,omitempty"`
	Mentions      []string  `json:"mentions"`
	Likes         []string  `json:"likes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (c Comment) LikedBy(userID string) bool {
	return contains(c.Likes, userID)
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Page is the paginated-list shape {data: T[], pagination}.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// UnmarshalJSON also accepts a bare array, and an object whose items sit
// under a named key such as "posts" instead of "data".
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	if isArray(b) {
		*p = Page[T]{}
		return json.Unmarshal(b, &p.Data)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	*p = Page[T]{}
	if v, ok := fields["pagination"]; ok && truthy(v) {
		if err := json.Unmarshal(v, &p.Pagination); err != nil {
			return err
		}
	}
	for _, k := range itemKeys {
		if v, ok := fields[k]; ok && isArray(v) {
			return json.Unmarshal(v, &p.Data)
		}
	}
	// any other array field, picked by name so the choice is stable
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		if v := fields[k]; k != "pagination" && isArray(v) {
			return json.Unmarshal(v, &p.Data)
		}
	}
	return nil
}

// itemKeys are the names list payloads carry their items under, in the
// order they are tried.
var itemKeys = []string{"data", "posts", "users", "comments"}

// HasMore reports whether a page after this one exists.
func (p Page[T]) HasMore() bool {
	if p.Pagination.HasNext {
		return true
	}
	return p.Pagination.TotalPages > 0 && p.Pagination.Page < p.Pagination.TotalPages
}

type Health struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AuthResult is what login and signup hand back.
type AuthResult struct {
	Token string
	User  User
}

type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CommentInput struct {
	PostID          string `json:"postId"`
	Content         string `json:"content"`
	ParentCommentID string `json:"parentCommentId,omitempty"`
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
