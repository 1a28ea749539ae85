package services

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinescope/cinescope/internal/models"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func movie(id int, title, genre string, year int, rating float64) models.Movie {
	return models.Movie{
		ID:          id,
		Title:       title,
		Genre:       genre,
		ReleaseYear: year,
		Rating:      rating,
		Plan:        models.PlanBasic,
	}
}

func newTestCatalog(t *testing.T, handler http.Handler) (*CatalogService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewCatalogService(CatalogServiceConfig{BaseURL: server.URL}, testLogger())
	return svc, server
}

func TestListMoviesQueryParameters(t *testing.T) {
	tests := []struct {
		name       string
		genre      string
		search     string
		page       int
		wantQuery  map[string]string
		wantAbsent []string
	}{
		{
			name:       "no filters",
			genre:      "",
			search:     "",
			page:       1,
			wantQuery:  map[string]string{"page": "1"},
			wantAbsent: []string{"genre", "search"},
		},
		{
			name:       "genre all is omitted",
			genre:      "all",
			search:     "",
			page:       2,
			wantQuery:  map[string]string{"page": "2"},
			wantAbsent: []string{"genre", "search"},
		},
		{
			name:       "explicit genre",
			genre:      "Horror",
			search:     "",
			page:       1,
			wantQuery:  map[string]string{"page": "1", "genre": "Horror"},
			wantAbsent: []string{"search"},
		},
		{
			name:       "search text",
			genre:      "",
			search:     "dune",
			page:       3,
			wantQuery:  map[string]string{"page": "3", "search": "dune"},
			wantAbsent: []string{"genre"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery map[string][]string
			svc, _ := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query()
				json.NewEncoder(w).Encode(models.MoviesResponse{
					Movies:      []models.Movie{},
					TotalPages:  1,
					CurrentPage: 1,
				})
			}))

			_, err := svc.ListMovies(context.Background(), tt.genre, tt.search, tt.page)
			require.NoError(t, err)

			for key, want := range tt.wantQuery {
				require.Len(t, gotQuery[key], 1)
				assert.Equal(t, want, gotQuery[key][0])
			}
			for _, key := range tt.wantAbsent {
				assert.NotContains(t, gotQuery, key)
			}
		})
	}
}

func TestListMoviesClampsPagination(t *testing.T) {
	svc, _ := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A response claiming zero pages must not reach callers as-is.
		w.Write([]byte(`{"movies": null, "total_pages": 0, "current_page": 0}`))
	}))

	res, err := svc.ListMovies(context.Background(), "", "", 4)
	require.NoError(t, err)

	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 4, res.CurrentPage)
	assert.NotNil(t, res.Movies)
	assert.Empty(t, res.Movies)
}

func TestListMoviesErrorCategories(t *testing.T) {
	t.Run("remote status", func(t *testing.T) {
		svc, _ := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		_, err := svc.ListMovies(context.Background(), "", "", 1)
		require.ErrorIs(t, err, ErrRemoteStatus)
	})

	t.Run("undecodable body", func(t *testing.T) {
		svc, _ := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))

		_, err := svc.ListMovies(context.Background(), "", "", 1)
		require.ErrorIs(t, err, ErrDecodeResponse)
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		svc := NewCatalogService(CatalogServiceConfig{BaseURL: server.URL}, testLogger())
		_, err := svc.ListMovies(context.Background(), "", "", 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrRemoteStatus)
		assert.NotErrorIs(t, err, ErrDecodeResponse)
	})
}

func TestFetchMoviesFailSoft(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
		},
		{
			name: "malformed response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{truncated"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestCatalog(t, tt.handler)

			res := svc.FetchMovies(context.Background(), "Drama", "ring", 7)

			require.NotNil(t, res)
			assert.Empty(t, res.Movies)
			assert.Equal(t, 1, res.TotalPages)
			assert.Equal(t, 7, res.CurrentPage)
		})
	}

	t.Run("unreachable host", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		svc := NewCatalogService(CatalogServiceConfig{BaseURL: server.URL}, testLogger())
		res := svc.FetchMovies(context.Background(), "", "", 2)

		assert.Empty(t, res.Movies)
		assert.Equal(t, 1, res.TotalPages)
		assert.Equal(t, 2, res.CurrentPage)
	})
}

func TestFetchMoviesPassesThroughSuccess(t *testing.T) {
	want := models.MoviesResponse{
		Movies:      []models.Movie{movie(1, "Heat", "Thriller", 1995, 8.3)},
		TotalPages:  5,
		CurrentPage: 2,
	}
	svc, _ := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(want)
	}))

	res := svc.FetchMovies(context.Background(), "", "", 2)

	assert.Equal(t, want.Movies, res.Movies)
	assert.Equal(t, 5, res.TotalPages)
	assert.Equal(t, 2, res.CurrentPage)
}

func TestGetMovie(t *testing.T) {
	svc, _ := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/movies/42", r.URL.Path)
		json.NewEncoder(w).Encode(movie(42, "Arrival", "Sci-Fi", 2016, 8.0))
	}))

	got, err := svc.GetMovie(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 42, got.ID)
	assert.Equal(t, "Arrival", got.Title)
}
