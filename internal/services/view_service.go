package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/cinescope/cinescope/internal/models"
)

// ViewPageSize is the fixed page size for locally paginated derived views
const ViewPageSize = 10

// View names understood by ByName and the feed endpoints
const (
	ViewTrending     = "trending"
	ViewFanFavourite = "fanfavourite"
	ViewNewReleases  = "newrelease"
)

// ViewService computes the derived home-screen views (trending, fan
// favourite, new releases) from the full catalog snapshot. Each view is a
// predicate plus a sort order, recomputed from the snapshot on every call
// and paginated locally.
type ViewService struct {
	cache *CatalogCache
}

// NewViewService creates a new view service
func NewViewService(cache *CatalogCache) *ViewService {
	return &ViewService{cache: cache}
}

// Trending returns movies rated above 7.5, highest rating first
func (s *ViewService) Trending(ctx context.Context, page int) *models.MoviesResponse {
	return s.derive(ctx, page,
		func(m models.Movie) bool { return m.Rating > 7.5 },
		func(a, b models.Movie) bool { return a.Rating > b.Rating },
	)
}

// FanFavourite returns movies rated above 8.0, highest rating first
func (s *ViewService) FanFavourite(ctx context.Context, page int) *models.MoviesResponse {
	return s.derive(ctx, page,
		func(m models.Movie) bool { return m.Rating > 8.0 },
		func(a, b models.Movie) bool { return a.Rating > b.Rating },
	)
}

// NewReleases returns movies released after 2015, newest first
func (s *ViewService) NewReleases(ctx context.Context, page int) *models.MoviesResponse {
	return s.derive(ctx, page,
		func(m models.Movie) bool { return m.ReleaseYear > 2015 },
		func(a, b models.Movie) bool { return a.ReleaseYear > b.ReleaseYear },
	)
}

// ByName resolves a view name to its accessor
func (s *ViewService) ByName(name string) (func(context.Context, int) *models.MoviesResponse, error) {
	switch name {
	case ViewTrending:
		return s.Trending, nil
	case ViewFanFavourite:
		return s.FanFavourite, nil
	case ViewNewReleases:
		return s.NewReleases, nil
	default:
		return nil, fmt.Errorf("unknown view %q", name)
	}
}

// derive filters and sorts the snapshot, then paginates the result. The
// sort is stable so ties keep their original catalog order and pages
// 2..N slice the same sequence page 1 was computed from.
func (s *ViewService) derive(ctx context.Context, page int, keep func(models.Movie) bool, less func(a, b models.Movie) bool) *models.MoviesResponse {
	if page < 1 {
		page = 1
	}

	all := s.cache.FullCatalog(ctx)

	filtered := make([]models.Movie, 0, len(all))
	for _, m := range all {
		if keep(m) {
			filtered = append(filtered, m)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return less(filtered[i], filtered[j])
	})

	return paginate(filtered, page)
}

// paginate slices an ordered, fully materialized result into one page.
// A page past the end yields an empty movie list with TotalPages left
// intact; callers detect the end of a view by comparing CurrentPage to
// TotalPages, not by checking for emptiness.
func paginate(movies []models.Movie, page int) *models.MoviesResponse {
	totalPages := (len(movies) + ViewPageSize - 1) / ViewPageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * ViewPageSize
	end := start + ViewPageSize
	if start > len(movies) {
		start = len(movies)
	}
	if end > len(movies) {
		end = len(movies)
	}

	pageItems := make([]models.Movie, end-start)
	copy(pageItems, movies[start:end])

	return &models.MoviesResponse{
		Movies:      pageItems,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}
