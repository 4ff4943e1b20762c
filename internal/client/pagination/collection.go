// Package pagination holds the incremental list loader shared by every list
// the client shows.
package pagination

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
	"github.com/dmitrijs2005/chirpkeeper/internal/logging"
)

var (
	ErrLoadInProgress = errors.New("load already in progress")
	ErrNoMorePages    = errors.New("no more pages")
)

// FetchFunc loads one page of items.
type FetchFunc[T any] func(ctx context.Context, page int) (api.Page[T], error)

// State is a snapshot of a collection. Page is the last page loaded
// successfully, 0 before the first load.
type State[T any] struct {
	Items   []T
	Page    int
	HasNext bool
	Loading bool
	Err     string
}

type Option[T any] func(*Collection[T])

// WithFilter keeps only the fetched items for which keep returns true.
func WithFilter[T any](keep func(T) bool) Option[T] {
	return func(c *Collection[T]) { c.keep = keep }
}

func WithLogger[T any](l logging.Logger) Option[T] {
	return func(c *Collection[T]) { c.log = l }
}

// Collection accumulates pages from a FetchFunc. At most one load runs at a
// time; a load requested while another is running is dropped.
type Collection[T any] struct {
	fetch FetchFunc[T]
	keep  func(T) bool
	log   logging.Logger

	mu    sync.Mutex
	state State[T]
}

func New[T any](fetch FetchFunc[T], opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{fetch: fetch, log: logging.Nop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns a snapshot; the Items slice is a copy.
func (c *Collection[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	st.Items = slices.Clone(c.state.Items)
	return st
}

// Load fetches page; pages below 1 are read as 1. Page 1 replaces the
// items, any other page appends. Err is cleared when the load starts. On
// failure the items and page are kept and Err is set to the user-facing
// message; the error is returned as well.
func (c *Collection[T]) Load(ctx context.Context, page int) error {
	page = max(page, 1)

	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return ErrLoadInProgress
	}
	c.state.Loading = true
	c.state.Err = ""
	c.mu.Unlock()

	res, err := c.fetch(ctx, page)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false

	if err != nil {
		c.state.Err = api.Message(err)
		c.log.Warn(ctx, "page load failed", "page", page, "err", err)
		return err
	}

	items := slices.Clone(res.Data)
	if c.keep != nil {
		items = slices.DeleteFunc(items, func(v T) bool { return !c.keep(v) })
	}

	if page == 1 {
		c.state.Items = items
	} else {
		c.state.Items = append(c.state.Items, items...)
	}
	c.state.Page = page
	c.state.HasNext = res.HasMore()
	return nil
}

// LoadMore loads the page after the current one if the server reported one.
func (c *Collection[T]) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()

	switch {
	case st.Loading:
		return ErrLoadInProgress
	case !st.HasNext:
		return ErrNoMorePages
	}
	return c.Load(ctx, st.Page+1)
}

// Refresh reloads from the first page, discarding appended pages.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	return c.Load(ctx, 1)
}

// Replace swaps the first item matching match for item and reports whether
// one was found.
func (c *Collection[T]) Replace(match func(T) bool, item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.state.Items, match)
	if i < 0 {
		return false
	}
	c.state.Items[i] = item
	return true
}

// Remove drops every item matching match and returns how many were removed.
func (c *Collection[T]) Remove(match func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.state.Items)
	c.state.Items = slices.DeleteFunc(c.state.Items, match)
	return before - len(c.state.Items)
}

// Len returns the number of loaded items.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.state.Items)
}
