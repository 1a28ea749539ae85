package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/cinescope/cinescope/internal/middleware"
	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/pager"
	"github.com/cinescope/cinescope/internal/services"
)

// Feed names addressable through the feed endpoints. The three section
// feeds paginate derived views locally; explore and search paginate
// against the catalog API.
const (
	FeedExplore = "explore"
	FeedSearch  = "search"
)

// FeedHandler exposes the per-session pagination state machines to the
// mobile shell. The shell forwards raw interaction events (screen opened,
// end of list reached, search text changed, genre tapped) and renders
// whatever snapshot comes back; all pagination rules live server-side.
type FeedHandler struct {
	registry *pager.Registry
	catalog  *services.CatalogService
	views    *services.ViewService
	logger   *log.Logger
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(registry *pager.Registry, catalog *services.CatalogService, views *services.ViewService, logger *log.Logger) *FeedHandler {
	return &FeedHandler{
		registry: registry,
		catalog:  catalog,
		views:    views,
		logger:   logger,
	}
}

// Open handles POST /api/feeds/{name}/open: reset the feed and start its
// first-page load
func (h *FeedHandler) Open(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if name == FeedSearch {
		feed, ok := h.searchFeed(w, r)
		if !ok {
			return
		}
		// Opening the search screen shows an empty prompt; fetching waits
		// for input.
		writeSnapshot(w, http.StatusOK, feed.Snapshot())
		return
	}

	feed, ok := h.feed(w, r, name)
	if !ok {
		return
	}
	feed.Reset(r.Context())
	writeSnapshot(w, http.StatusAccepted, feed.Snapshot())
}

// Get handles GET /api/feeds/{name}: the current snapshot
func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if name == FeedSearch {
		feed, ok := h.searchFeed(w, r)
		if !ok {
			return
		}
		writeSnapshot(w, http.StatusOK, feed.Snapshot())
		return
	}

	feed, ok := h.feed(w, r, name)
	if !ok {
		return
	}
	writeSnapshot(w, http.StatusOK, feed.Snapshot())
}

// More handles POST /api/feeds/{name}/more: the shell reached the end of
// the list. Duplicate events while a load is in flight, or past the last
// page, are absorbed here as no-ops.
func (h *FeedHandler) More(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if name == FeedSearch {
		feed, ok := h.searchFeed(w, r)
		if !ok {
			return
		}
		feed.LoadMore(r.Context())
		writeSnapshot(w, http.StatusOK, feed.Snapshot())
		return
	}

	feed, ok := h.feed(w, r, name)
	if !ok {
		return
	}
	feed.LoadMore(r.Context())
	writeSnapshot(w, http.StatusOK, feed.Snapshot())
}

// SearchQuery handles POST /api/feeds/search/query: one keystroke's worth
// of search input. The fetch fires only after input has been quiet for the
// debounce interval, and only for the latest value.
func (h *FeedHandler) SearchQuery(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	feed, ok := h.searchFeed(w, r)
	if !ok {
		return
	}
	feed.SetQuery(r.Context(), input.Query)
	writeSnapshot(w, http.StatusAccepted, feed.Snapshot())
}

// ExploreGenre handles POST /api/feeds/explore/genre: a genre tap. The
// explore feed resets and reloads page 1 under the new filter.
func (h *FeedHandler) ExploreGenre(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Genre string `json:"genre"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	genre := input.Genre
	if genre == "" {
		genre = services.GenreAll
	}

	feed, ok := h.feed(w, r, FeedExplore)
	if !ok {
		return
	}
	feed.Restart(r.Context(), h.exploreFetch(genre))
	writeSnapshot(w, http.StatusAccepted, feed.Snapshot())
}

// feed resolves a non-search feed for the current session, creating it on
// first use
func (h *FeedHandler) feed(w http.ResponseWriter, r *http.Request, name string) (*pager.Feed, bool) {
	sessionID, ok := middleware.GetSessionIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return nil, false
	}

	var fetch pager.FetchFunc
	switch name {
	case FeedExplore:
		fetch = h.exploreFetch(services.GenreAll)
	default:
		view, err := h.views.ByName(name)
		if err != nil {
			http.Error(w, `{"error":"Unknown feed"}`, http.StatusNotFound)
			return nil, false
		}
		fetch = pager.FetchFunc(view)
	}

	key := sessionID + "/" + name
	return h.registry.Feed(key, func() *pager.Feed {
		return pager.NewFeed(fetch)
	}), true
}

// searchFeed resolves the session's search feed
func (h *FeedHandler) searchFeed(w http.ResponseWriter, r *http.Request) (*pager.SearchFeed, bool) {
	sessionID, ok := middleware.GetSessionIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return nil, false
	}

	key := sessionID + "/" + FeedSearch
	return h.registry.Search(key, func() *pager.SearchFeed {
		search := func(ctx context.Context, query string, page int) *models.MoviesResponse {
			return h.catalog.FetchMovies(ctx, services.GenreAll, query, page)
		}
		return pager.NewSearchFeed(search, pager.DefaultQuiet)
	}), true
}

// exploreFetch builds the fetch function for the explore grid under a
// genre filter
func (h *FeedHandler) exploreFetch(genre string) pager.FetchFunc {
	return func(ctx context.Context, page int) *models.MoviesResponse {
		return h.catalog.FetchMovies(ctx, genre, "", page)
	}
}

// writeSnapshot renders a feed snapshot as JSON
func writeSnapshot(w http.ResponseWriter, status int, snapshot pager.Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(snapshot)
}
