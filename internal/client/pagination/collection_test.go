package pagination

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
)

func seq(from, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = from + i
	}
	return out
}

// pages serves fixed pages; a missing page fails with a server error.
func pages(m map[int]api.Page[int]) FetchFunc[int] {
	return func(_ context.Context, page int) (api.Page[int], error) {
		p, ok := m[page]
		if !ok {
			return api.Page[int]{}, &api.Error{Kind: api.ErrServer, Status: 500, Message: "boom"}
		}
		return p, nil
	}
}

func TestLoad_AppendLaw(t *testing.T) {
	c := New(pages(map[int]api.Page[int]{
		1: {Data: seq(0, 10), Pagination: api.Pagination{Page: 1, HasNext: true}},
		2: {Data: seq(10, 7), Pagination: api.Pagination{Page: 2}},
	}))
	ctx := context.Background()

	require.NoError(t, c.Load(ctx, 1))
	assert.Equal(t, 10, c.Len())

	require.NoError(t, c.Load(ctx, 2))
	want := State[int]{Items: seq(0, 17), Page: 2}
	if diff := cmp.Diff(want, c.State()); diff != "" {
		t.Errorf("State() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_GuardLaw(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	c := New(func(_ context.Context, page int) (api.Page[int], error) {
		calls++
		if page == 2 {
			close(started)
			<-release
		}
		return api.Page[int]{Data: seq(page*100, 3), Pagination: api.Pagination{HasNext: true}}, nil
	})
	ctx := context.Background()
	require.NoError(t, c.Load(ctx, 1))

	done := make(chan error, 1)
	go func() { done <- c.Load(ctx, 2) }()
	<-started

	before := c.State()
	require.True(t, before.Loading)

	assert.ErrorIs(t, c.Load(ctx, 5), ErrLoadInProgress)
	assert.ErrorIs(t, c.LoadMore(ctx), ErrLoadInProgress)
	assert.ErrorIs(t, c.Refresh(ctx), ErrLoadInProgress)

	after := c.State()
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Page, after.Page)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 6, c.Len())
	assert.False(t, c.State().Loading)
}

func TestLoad_StartClearsPreviousError(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fail := true
	c := New(func(_ context.Context, page int) (api.Page[int], error) {
		if fail {
			return api.Page[int]{}, &api.Error{Kind: api.ErrServer, Message: "boom"}
		}
		close(started)
		<-release
		return api.Page[int]{Data: seq(0, 2)}, nil
	})
	ctx := context.Background()

	require.Error(t, c.Load(ctx, 1))
	require.Equal(t, "boom", c.State().Err)

	fail = false
	done := make(chan error, 1)
	go func() { done <- c.Load(ctx, 1) }()
	<-started

	st := c.State()
	assert.True(t, st.Loading)
	assert.Empty(t, st.Err)

	close(release)
	require.NoError(t, <-done)
}

func TestLoad_PageBelowOneReadsAsFirst(t *testing.T) {
	var asked []int
	c := New(func(_ context.Context, page int) (api.Page[int], error) {
		asked = append(asked, page)
		return api.Page[int]{Data: seq(page*10, 2), Pagination: api.Pagination{HasNext: true}}, nil
	})
	ctx := context.Background()

	require.NoError(t, c.Load(ctx, 0))
	assert.Equal(t, 1, c.State().Page)

	require.NoError(t, c.LoadMore(ctx))

	assert.Equal(t, []int{1, 2}, asked)
	assert.Equal(t, []int{10, 11, 20, 21}, c.State().Items)
	assert.Equal(t, 2, c.State().Page)
}

func TestLoad_FailureIsolation(t *testing.T) {
	c := New(pages(map[int]api.Page[int]{
		1: {Data: seq(0, 10), Pagination: api.Pagination{HasNext: true}},
	}))
	ctx := context.Background()
	require.NoError(t, c.Load(ctx, 1))

	err := c.Load(ctx, 2)
	require.ErrorIs(t, err, api.ErrServer)

	st := c.State()
	assert.Equal(t, seq(0, 10), st.Items)
	assert.Equal(t, 1, st.Page)
	assert.True(t, st.HasNext)
	assert.False(t, st.Loading)
	assert.Equal(t, "boom", st.Err)
}

func TestLoad_SuccessClearsError(t *testing.T) {
	fail := true
	c := New(func(context.Context, int) (api.Page[int], error) {
		if fail {
			return api.Page[int]{}, &api.Error{Kind: api.ErrUnreachable, Cause: errors.New("refused")}
		}
		return api.Page[int]{Data: []int{1}}, nil
	})
	ctx := context.Background()

	require.Error(t, c.Load(ctx, 1))
	assert.NotEmpty(t, c.State().Err)

	fail = false
	require.NoError(t, c.Load(ctx, 1))
	assert.Empty(t, c.State().Err)
}

func TestLoadMore(t *testing.T) {
	c := New(pages(map[int]api.Page[int]{
		1: {Data: seq(0, 2), Pagination: api.Pagination{HasNext: true}},
		2: {Data: seq(2, 2), Pagination: api.Pagination{HasNext: false}},
	}))
	ctx := context.Background()

	assert.ErrorIs(t, c.LoadMore(ctx), ErrNoMorePages, "nothing loaded yet")

	require.NoError(t, c.Load(ctx, 1))
	require.NoError(t, c.LoadMore(ctx))
	assert.Equal(t, seq(0, 4), c.State().Items)

	assert.ErrorIs(t, c.LoadMore(ctx), ErrNoMorePages)
	assert.Equal(t, 2, c.State().Page)
}

func TestHasNext_FallsBackToTotalPages(t *testing.T) {
	c := New(pages(map[int]api.Page[int]{
		1: {Data: seq(0, 1), Pagination: api.Pagination{Page: 1, TotalPages: 2}},
	}))
	require.NoError(t, c.Load(context.Background(), 1))
	assert.True(t, c.State().HasNext)
}

func TestRefresh_ReplacesAppendedPages(t *testing.T) {
	c := New(pages(map[int]api.Page[int]{
		1: {Data: seq(0, 3), Pagination: api.Pagination{HasNext: true}},
		2: {Data: seq(3, 3)},
	}))
	ctx := context.Background()
	require.NoError(t, c.Load(ctx, 1))
	require.NoError(t, c.LoadMore(ctx))
	require.Equal(t, 6, c.Len())

	require.NoError(t, c.Refresh(ctx))

	st := c.State()
	assert.Equal(t, seq(0, 3), st.Items)
	assert.Equal(t, 1, st.Page)
	assert.True(t, st.HasNext)
}

func TestWithFilter(t *testing.T) {
	even := func(v int) bool { return v%2 == 0 }
	c := New(pages(map[int]api.Page[int]{
		1: {Data: seq(0, 6)},
	}), WithFilter(even))

	require.NoError(t, c.Load(context.Background(), 1))
	assert.Equal(t, []int{0, 2, 4}, c.State().Items)
}

func TestReplaceAndRemove(t *testing.T) {
	c := New(pages(map[int]api.Page[int]{1: {Data: []int{1, 2, 3, 2}}}))
	require.NoError(t, c.Load(context.Background(), 1))

	is := func(n int) func(int) bool { return func(v int) bool { return v == n } }

	assert.True(t, c.Replace(is(2), 20))
	assert.False(t, c.Replace(is(9), 90))
	assert.Equal(t, []int{1, 20, 3, 2}, c.State().Items)

	assert.Equal(t, 1, c.Remove(is(2)))
	assert.Equal(t, 0, c.Remove(is(9)))
	assert.Equal(t, []int{1, 20, 3}, c.State().Items)
}

func TestState_IsACopy(t *testing.T) {
	c := New(pages(map[int]api.Page[int]{1: {Data: []int{1, 2}}}))
	require.NoError(t, c.Load(context.Background(), 1))

	st := c.State()
	st.Items[0] = 99

	assert.Equal(t, []int{1, 2}, c.State().Items)
}

func TestConcurrentLoadsAreSerialized(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		maxSeen  int
	)
	c := New(func(context.Context, int) (api.Page[int], error) {
		mu.Lock()
		inFlight++
		if inFlight > maxSeen {
			maxSeen = inFlight
		}
		mu.Unlock()

		mu.Lock()
		inFlight--
		mu.Unlock()
		return api.Page[int]{Data: []int{1}}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.Load(context.Background(), 1)
			if err != nil {
				assert.ErrorIs(t, err, ErrLoadInProgress)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.False(t, c.State().Loading)
}
