// Package mention implements @mention editing: spotting the word being
// typed after an @, searching for matching users after a quiet interval,
// and splicing the chosen username back into the text.
package mention

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
	"github.com/dmitrijs2005/chirpkeeper/internal/logging"
)

const (
	DefaultDebounce  = 300 * time.Millisecond
	DefaultLimit     = 8
	DefaultMaxLength = 500
)

var (
	ErrTextTooLong     = errors.New("text exceeds the maximum length")
	ErrNoActiveMention = errors.New("no active mention")
)

// SearchFunc looks up users whose name matches query.
type SearchFunc func(ctx context.Context, query string, limit int) ([]api.User, error)

// Snapshot is what a renderer needs to draw the composer.
type Snapshot struct {
	Text       string
	Caret      int
	Query      string
	Open       bool
	Loading    bool
	Candidates []api.User
}

type Option func(*Input)

func WithScheduler(s Scheduler) Option { return func(in *Input) { in.sched = s } }

func WithDebounce(d time.Duration) Option {
	return func(in *Input) {
		if d >= 0 {
			in.debounce = d
		}
	}
}

func WithLimit(n int) Option {
	return func(in *Input) {
		if n > 0 {
			in.limit = n
		}
	}
}

// WithMaxLength sets the character budget, counted in runes.
func WithMaxLength(n int) Option {
	return func(in *Input) {
		if n > 0 {
			in.maxLen = n
		}
	}
}

func WithLogger(l logging.Logger) Option { return func(in *Input) { in.log = l } }

// WithContext sets the context searches run under.
func WithContext(ctx context.Context) Option { return func(in *Input) { in.ctx = ctx } }

// OnUpdate registers fn to be called, outside the lock, after every state
// change.
func OnUpdate(fn func(Snapshot)) Option { return func(in *Input) { in.onUpdate = fn } }

// Input is the state of one comment composer.
type Input struct {
	search   SearchFunc
	sched    Scheduler
	debounce time.Duration
	limit    int
	maxLen   int
	log      logging.Logger
	ctx      context.Context
	onUpdate func(Snapshot)

	mu         sync.Mutex
	text       string
	caret      int
	query      Query
	open       bool
	loading    bool
	candidates []api.User
	gen        uint64
	armed      bool
	pending    Handle
	pendingFn  func()
}

func NewInput(search SearchFunc, opts ...Option) *Input {
	in := &Input{
		search:   search,
		sched:    TimerScheduler{},
		debounce: DefaultDebounce,
		limit:    DefaultLimit,
		maxLen:   DefaultMaxLength,
		log:      logging.Nop(),
		ctx:      context.Background(),
	}
	for _, o := range opts {
		o(in)
	}
	return in
}

// OnTextChange records an edit. Text over the budget is rejected and the
// state is left alone.
func (in *Input) OnTextChange(text string, caret int) error {
	if utf8.RuneCountInString(text) > in.maxLen {
		return ErrTextTooLong
	}

	in.mu.Lock()
	in.cancelPendingLocked()
	in.gen++
	in.loading = false
	in.text = text

	q, ok := ExtractQuery(text, caret)
	in.caret = q.Caret
	if !ok {
		in.caret = clamp(caret, 0, utf8.RuneCountInString(text))
		in.query = Query{}
		in.open = false
		in.candidates = nil
		in.mu.Unlock()
		in.notify()
		return nil
	}

	in.query = q
	in.open = true
	if q.Text != "" {
		gen := in.gen
		fn := func() { in.runSearch(gen, q.Text) }
		in.armed = true
		in.pendingFn = fn
		in.pending = in.sched.Schedule(in.debounce, fn)
	}
	in.mu.Unlock()
	in.notify()
	return nil
}

// Flush runs a scheduled search now, on the calling goroutine, instead of
// waiting out the quiet interval. Without a scheduled search it does
// nothing.
func (in *Input) Flush() {
	in.mu.Lock()
	fn := in.pendingFn
	if in.pending != nil {
		in.pending.Cancel()
	}
	in.pending, in.pendingFn = nil, nil
	in.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Select splices "@username " over the open query and closes it.
func (in *Input) Select(username string) (string, int, error) {
	in.mu.Lock()
	if !in.open {
		in.mu.Unlock()
		return "", 0, ErrNoActiveMention
	}

	text, caret := Splice(in.query, username)
	if utf8.RuneCountInString(text) > in.maxLen {
		in.mu.Unlock()
		return "", 0, ErrTextTooLong
	}

	in.cancelPendingLocked()
	in.gen++
	in.text, in.caret = text, caret
	in.query = Query{}
	in.open = false
	in.loading = false
	in.candidates = nil
	in.mu.Unlock()

	in.notify()
	return text, caret, nil
}

func (in *Input) Snapshot() Snapshot {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.snapshotLocked()
}

// Close drops any scheduled search.
func (in *Input) Close() {
	in.mu.Lock()
	in.cancelPendingLocked()
	in.gen++
	in.mu.Unlock()
}

func (in *Input) runSearch(gen uint64, query string) {
	in.mu.Lock()
	if gen != in.gen || !in.armed {
		in.mu.Unlock()
		return
	}
	in.armed = false
	in.pending, in.pendingFn = nil, nil
	in.loading = true
	in.mu.Unlock()
	in.notify()

	users, err := in.search(in.ctx, query, in.limit)

	in.mu.Lock()
	if gen != in.gen {
		in.mu.Unlock()
		in.log.Debug(in.ctx, "discarding stale mention results", "query", query)
		return
	}
	in.loading = false
	if err != nil {
		in.log.Warn(in.ctx, "mention search failed", "query", query, "err", err)
		in.candidates = nil
	} else {
		in.candidates = users
	}
	in.mu.Unlock()
	in.notify()
}

func (in *Input) cancelPendingLocked() {
	if in.pending != nil {
		in.pending.Cancel()
	}
	in.armed = false
	in.pending, in.pendingFn = nil, nil
}

func (in *Input) snapshotLocked() Snapshot {
	return Snapshot{
		Text:       in.text,
		Caret:      in.caret,
		Query:      in.query.Text,
		Open:       in.open,
		Loading:    in.loading,
		Candidates: slices.Clone(in.candidates),
	}
}

func (in *Input) notify() {
	if in.onUpdate == nil {
		return
	}
	in.onUpdate(in.Snapshot())
}
