// Package pager implements the pagination state machine driven by the
// mobile shell: first-page loads, guarded load-more on scroll, debounced
// search input, and a generation counter that drops stale responses when
// a newer load has superseded an in-flight one.
package pager

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cinescope/cinescope/internal/models"
)

// State represents where a feed is in its loading lifecycle
type State string

const (
	StateIdle         State = "idle"
	StateLoadingFirst State = "loading"
	StateReady        State = "ready"
	StateLoadingMore  State = "loadingMore"
)

// DefaultQuiet is the debounce interval for search input
const DefaultQuiet = 300 * time.Millisecond

// FetchFunc loads one page for a feed. It follows the fail-soft contract:
// it never errors, returning an empty single-page result on failure.
type FetchFunc func(ctx context.Context, page int) *models.MoviesResponse

// Snapshot is the feed state handed back to the shell for rendering
type Snapshot struct {
	State       State          `json:"state"`
	Movies      []models.Movie `json:"movies"`
	CurrentPage int            `json:"current_page"`
	TotalPages  int            `json:"total_pages"`
}

// Feed accumulates pages of one list. Loads run in their own goroutine;
// every reset bumps the generation so a response from a superseded load
// is discarded instead of clobbering newer state.
type Feed struct {
	mu          sync.Mutex
	fetch       FetchFunc
	state       State
	movies      []models.Movie
	currentPage int
	totalPages  int
	gen         uint64
}

// NewFeed creates a feed in the Idle state
func NewFeed(fetch FetchFunc) *Feed {
	return &Feed{
		fetch:      fetch,
		state:      StateIdle,
		totalPages: 1,
	}
}

// Reset discards pagination progress and starts a fresh first-page load.
// Accumulated movies stay visible until the new page arrives, matching
// how the shell keeps stale rows under a spinner.
func (f *Feed) Reset(ctx context.Context) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.state = StateLoadingFirst
	f.currentPage = 0
	fetch := f.fetch
	f.mu.Unlock()

	go f.load(ctx, fetch, gen, 1)
}

// Restart swaps the fetch function (e.g. a new genre filter) and resets
func (f *Feed) Restart(ctx context.Context, fetch FetchFunc) {
	f.mu.Lock()
	f.fetch = fetch
	f.mu.Unlock()
	f.Reset(ctx)
}

// LoadMore requests the next page. It is a no-op unless the feed is Ready
// with pages left, which collapses duplicate requests from rapid scroll
// events into one fetch. Reports whether a load was started.
func (f *Feed) LoadMore(ctx context.Context) bool {
	f.mu.Lock()
	if f.state != StateReady || f.currentPage >= f.totalPages {
		f.mu.Unlock()
		return false
	}
	f.state = StateLoadingMore
	gen := f.gen
	page := f.currentPage + 1
	fetch := f.fetch
	f.mu.Unlock()

	go f.load(ctx, fetch, gen, page)
	return true
}

// Clear empties the feed without fetching, superseding any in-flight load
func (f *Feed) Clear() {
	f.mu.Lock()
	f.gen++
	f.state = StateIdle
	f.movies = nil
	f.currentPage = 0
	f.totalPages = 1
	f.mu.Unlock()
}

// load fetches one page and applies it if the feed has not moved on. The
// fetch outlives the triggering request, so cancelation is stripped from
// the context while its values are kept.
func (f *Feed) load(ctx context.Context, fetch FetchFunc, gen uint64, page int) {
	res := fetch(context.WithoutCancel(ctx), page)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		// A reset or clear superseded this load; drop the result.
		return
	}

	if page == 1 {
		f.movies = res.Movies
	} else {
		f.movies = append(f.movies, res.Movies...)
	}
	f.currentPage = res.CurrentPage
	f.totalPages = res.TotalPages
	f.state = StateReady
}

// Snapshot returns a copy of the feed's current state
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	movies := make([]models.Movie, len(f.movies))
	copy(movies, f.movies)

	return Snapshot{
		State:       f.state,
		Movies:      movies,
		CurrentPage: f.currentPage,
		TotalPages:  f.totalPages,
	}
}

// SearchFunc loads one page of results for a query, fail-soft
type SearchFunc func(ctx context.Context, query string, page int) *models.MoviesResponse

// SearchFeed wraps a Feed with debounced query input: a first-page load is
// issued only once the query has been stable for the quiet interval, and
// only for the latest value typed. Load-more passes straight through.
type SearchFeed struct {
	feed   *Feed
	search SearchFunc
	quiet  time.Duration

	mu    sync.Mutex
	query string
	timer *time.Timer
}

// NewSearchFeed creates a search feed with the given debounce interval.
// A non-positive quiet interval falls back to DefaultQuiet.
func NewSearchFeed(search SearchFunc, quiet time.Duration) *SearchFeed {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	s := &SearchFeed{
		search: search,
		quiet:  quiet,
	}
	s.feed = NewFeed(func(ctx context.Context, page int) *models.MoviesResponse {
		s.mu.Lock()
		query := s.query
		s.mu.Unlock()
		return search(ctx, query, page)
	})
	return s
}

// SetQuery records the latest input and (re)arms the debounce timer. Each
// call supersedes the previous pending one, so a burst of keystrokes ends
// in a single fetch for the final value.
func (s *SearchFeed) SetQuery(ctx context.Context, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, func() {
		s.commit(ctx, query)
	})
}

// commit applies a debounced query once the input has gone quiet
func (s *SearchFeed) commit(ctx context.Context, query string) {
	s.mu.Lock()
	s.query = strings.TrimSpace(query)
	empty := s.query == ""
	s.mu.Unlock()

	if empty {
		s.feed.Clear()
		return
	}
	s.feed.Reset(ctx)
}

// LoadMore requests the next page of results for the current query
func (s *SearchFeed) LoadMore(ctx context.Context) bool {
	return s.feed.LoadMore(ctx)
}

// Snapshot returns the underlying feed state
func (s *SearchFeed) Snapshot() Snapshot {
	return s.feed.Snapshot()
}

// Query returns the last committed query
func (s *SearchFeed) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}
