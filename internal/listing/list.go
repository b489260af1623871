// Package listing holds the state of one remote, paginated collection: the
// filters the operator picked, the last page the server returned, and whether
// a fetch is in flight or failed.
package listing

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/investdesk/desk/internal/model"
)

// ErrStale is returned for a fetch whose response was discarded because a
// newer fetch was started or the list was closed.
var ErrStale = errors.New("listing: response superseded")

// ErrClosed is returned by operations on a closed List.
var ErrClosed = errors.New("listing: closed")

// State is the lifecycle of the most recent fetch.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Fetcher loads one page for the given filters.
type Fetcher[T any] func(ctx context.Context, f Filters) (model.Page[T], error)

// Snapshot is a consistent copy of a List's state.
type Snapshot[T any] struct {
	Items      []T
	Loading    bool
	Err        error
	Pagination model.Pagination
	Filters    Filters
	State      State
}

// Option configures a List.
type Option[T any] func(*List[T])

// WithFilters sets the initial filters.
func WithFilters[T any](opts ...FilterOption) Option[T] {
	return func(l *List[T]) { l.filters = l.filters.apply(opts...) }
}

// WithDebouncer sets the debouncer used by Search.
func WithDebouncer[T any](d *Debouncer) Option[T] {
	return func(l *List[T]) { l.debounce = d }
}

// OnChange registers a callback invoked with a snapshot after every state change.
func OnChange[T any](fn func(Snapshot[T])) Option[T] {
	return func(l *List[T]) { l.onChange = fn }
}

// WithLogger sets the logger.
func WithLogger[T any](lg zerolog.Logger) Option[T] {
	return func(l *List[T]) { l.logger = lg }
}

// List is a controller over a remote collection. It is safe for concurrent use.
type List[T any] struct {
	fetch    Fetcher[T]
	debounce *Debouncer
	onChange func(Snapshot[T])
	logger   zerolog.Logger

	life     context.Context
	shutdown context.CancelFunc

	mu         sync.Mutex
	seq        uint64
	inflight   context.CancelFunc
	closed     bool
	filters    Filters
	items      []T
	pagination model.Pagination
	err        error
	state      State
}

// New creates an idle List. The list stops fetching when ctx is done or Close is called.
func New[T any](ctx context.Context, fetch Fetcher[T], opts ...Option[T]) *List[T] {
	life, cancel := context.WithCancel(ctx)
	l := &List[T]{
		fetch:    fetch,
		logger:   zerolog.Nop(),
		life:     life,
		shutdown: cancel,
		filters:  Filters{Page: 1, Limit: DefaultLimit},
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.debounce == nil {
		l.debounce = NewDebouncer(DefaultDebounce)
	}
	return l
}

// Snapshot returns the current state.
func (l *List[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *List[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Items:      slices.Clone(l.items),
		Loading:    l.state == StateLoading,
		Err:        l.err,
		Pagination: l.pagination,
		Filters:    l.filters.clone(),
		State:      l.state,
	}
}

// SetFilters patches the filters and fetches once.
func (l *List[T]) SetFilters(ctx context.Context, opts ...FilterOption) error {
	return l.load(ctx, opts...)
}

// Refetch reloads the current page with unchanged filters.
func (l *List[T]) Refetch(ctx context.Context) error {
	return l.load(ctx)
}

// Search updates the search term after the debounce delay. Errors are
// reported through the snapshot.
func (l *List[T]) Search(term string) {
	l.debounce.Do(func() {
		if err := l.load(l.life, WithSearch(term)); err != nil && !errors.Is(err, ErrStale) {
			l.logger.Debug().Err(err).Str("search", term).Msg("search fetch failed")
		}
	})
}

// Close cancels any in-flight fetch. Responses that arrive later are discarded.
func (l *List[T]) Close() {
	l.debounce.Stop()
	l.mu.Lock()
	l.closed = true
	if l.inflight != nil {
		l.inflight()
		l.inflight = nil
	}
	l.mu.Unlock()
	l.shutdown()
}

func (l *List[T]) load(ctx context.Context, opts ...FilterOption) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if l.inflight != nil {
		l.inflight()
	}
	l.seq++
	seq := l.seq
	l.filters = l.filters.apply(opts...)
	filters := l.filters.clone()
	l.state = StateLoading
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.life, cancel)
	l.inflight = cancel
	snap := l.snapshotLocked()
	l.mu.Unlock()
	l.notify(snap)

	page, err := l.fetch(reqCtx, filters)
	stop()
	cancel()

	l.mu.Lock()
	if l.closed || seq != l.seq {
		l.mu.Unlock()
		l.logger.Debug().Uint64("seq", seq).Msg("discarding stale list response")
		return ErrStale
	}
	l.inflight = nil
	if err != nil {
		l.err = err
		l.state = StateError
	} else {
		l.items = page.Items
		l.pagination = page.Pagination
		if l.pagination.CurrentPage == 0 {
			l.pagination.CurrentPage = filters.Page
		}
		if l.pagination.Limit == 0 {
			l.pagination.Limit = filters.Limit
		}
		l.err = nil
		l.state = StateSuccess
	}
	snap = l.snapshotLocked()
	l.mu.Unlock()
	l.notify(snap)
	return err
}

func (l *List[T]) notify(s Snapshot[T]) {
	if l.onChange != nil {
		l.onChange(s)
	}
}
