package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinescope/cinescope/internal/models"
)

// viewsOver builds a view service over a pre-populated snapshot, skipping
// the network entirely
func viewsOver(movies []models.Movie) *ViewService {
	return NewViewService(&CatalogCache{snapshot: movies})
}

func TestTrendingPredicateAndOrder(t *testing.T) {
	views := viewsOver([]models.Movie{
		movie(1, "Low", "Drama", 2020, 5.0),
		movie(2, "Mid", "Drama", 2020, 7.6),
		movie(3, "High", "Drama", 2020, 9.1),
		movie(4, "Edge", "Drama", 2020, 7.5), // not strictly above the cutoff
		movie(5, "Top", "Drama", 2020, 8.4),
	})

	res := views.Trending(context.Background(), 1)

	require.Len(t, res.Movies, 3)
	for _, m := range res.Movies {
		assert.Greater(t, m.Rating, 7.5)
	}
	for i := 1; i < len(res.Movies); i++ {
		assert.GreaterOrEqual(t, res.Movies[i-1].Rating, res.Movies[i].Rating)
	}
	assert.Equal(t, []int{3, 5, 2}, movieIDs(res.Movies))
}

func TestFanFavouritePredicate(t *testing.T) {
	views := viewsOver([]models.Movie{
		movie(1, "A", "Drama", 2020, 8.0), // not strictly above the cutoff
		movie(2, "B", "Drama", 2020, 8.1),
		movie(3, "C", "Drama", 2020, 9.9),
	})

	res := views.FanFavourite(context.Background(), 1)

	assert.Equal(t, []int{3, 2}, movieIDs(res.Movies))
}

func TestNewReleasesPredicateAndOrder(t *testing.T) {
	views := viewsOver([]models.Movie{
		movie(1, "Old", "Drama", 2010, 9.0),
		movie(2, "Edge", "Drama", 2015, 9.0), // not strictly after the cutoff
		movie(3, "Recent", "Drama", 2019, 4.0),
		movie(4, "Latest", "Drama", 2024, 6.0),
	})

	res := views.NewReleases(context.Background(), 1)

	require.Len(t, res.Movies, 2)
	assert.Equal(t, []int{4, 3}, movieIDs(res.Movies))
}

func TestViewSortIsStableOnTies(t *testing.T) {
	// Three movies with identical ratings must keep their catalog order.
	views := viewsOver([]models.Movie{
		movie(10, "First", "Drama", 2020, 8.8),
		movie(11, "Second", "Drama", 2020, 8.8),
		movie(12, "Third", "Drama", 2020, 8.8),
		movie(13, "Higher", "Drama", 2020, 9.0),
	})

	res := views.Trending(context.Background(), 1)

	assert.Equal(t, []int{13, 10, 11, 12}, movieIDs(res.Movies))
}

func TestViewPagination(t *testing.T) {
	// 25 movies above the trending cutoff: pages of 10, 10 and 5.
	var all []models.Movie
	for i := 1; i <= 25; i++ {
		all = append(all, movie(i, fmt.Sprintf("Movie %d", i), "Drama", 2020, 8.0+float64(i)*0.01))
	}
	views := viewsOver(all)

	page1 := views.Trending(context.Background(), 1)
	page2 := views.Trending(context.Background(), 2)
	page3 := views.Trending(context.Background(), 3)

	assert.Equal(t, 3, page1.TotalPages)
	assert.Len(t, page1.Movies, 10)
	assert.Len(t, page2.Movies, 10)
	assert.Len(t, page3.Movies, 5)

	// Ordering holds across page boundaries.
	assert.GreaterOrEqual(t, page1.Movies[9].Rating, page2.Movies[0].Rating)
	assert.GreaterOrEqual(t, page2.Movies[9].Rating, page3.Movies[0].Rating)

	// No movie appears twice.
	seen := make(map[int]bool)
	for _, m := range append(append(page1.Movies, page2.Movies...), page3.Movies...) {
		assert.False(t, seen[m.ID], "movie %d served twice", m.ID)
		seen[m.ID] = true
	}
}

func TestViewPageBeyondEnd(t *testing.T) {
	views := viewsOver([]models.Movie{
		movie(1, "Only", "Drama", 2020, 9.0),
	})

	res := views.Trending(context.Background(), 5)

	assert.Empty(t, res.Movies)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 5, res.CurrentPage, "requested page must be echoed back")
}

func TestViewEmptyCatalog(t *testing.T) {
	views := viewsOver([]models.Movie{})

	res := views.Trending(context.Background(), 1)

	assert.Empty(t, res.Movies)
	assert.Equal(t, 1, res.TotalPages, "total pages is never zero")
	assert.Equal(t, 1, res.CurrentPage)
}

func TestViewByName(t *testing.T) {
	views := viewsOver([]models.Movie{
		movie(1, "A", "Drama", 2024, 9.5),
	})

	for _, name := range []string{ViewTrending, ViewFanFavourite, ViewNewReleases} {
		view, err := views.ByName(name)
		require.NoError(t, err, name)

		res := view(context.Background(), 1)
		if diff := cmp.Diff([]int{1}, movieIDs(res.Movies)); diff != "" {
			t.Errorf("%s (-want +got):\n%s", name, diff)
		}
	}

	_, err := views.ByName("watchlist")
	assert.Error(t, err)
}

func movieIDs(movies []models.Movie) []int {
	ids := make([]int, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}
