package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/services"
)

// newTestMovieHandler wires a movie handler against a fake catalog API
func newTestMovieHandler(t *testing.T, remote http.Handler) (*MovieHandler, *http.ServeMux) {
	t.Helper()

	server := httptest.NewServer(remote)
	t.Cleanup(server.Close)

	logger := log.New(io.Discard, "", 0)
	cfg := services.CatalogServiceConfig{BaseURL: server.URL}
	catalog := services.NewCatalogService(cfg, logger)
	cache := services.NewCatalogCache(catalog, logger)
	views := services.NewViewService(cache)
	admin := services.NewAdminService(cfg)
	validate := validator.New(validator.WithRequiredStructEnabled())

	h := NewMovieHandler(catalog, views, cache, admin, validate, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/movies", h.List)
	mux.HandleFunc("GET /api/movies/{id}", h.Get)
	mux.HandleFunc("GET /api/trending", h.Trending)
	mux.HandleFunc("GET /api/fanfavourite", h.FanFavourite)
	mux.HandleFunc("GET /api/newreleases", h.NewReleases)
	mux.HandleFunc("GET /api/home", h.Home)

	return h, mux
}

// fixtureRemote serves a one-page catalog plus a detail endpoint
func fixtureRemote(movies []models.Movie) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.MoviesResponse{
			Movies:      movies,
			TotalPages:  1,
			CurrentPage: 1,
		})
	})
	mux.HandleFunc("/movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		for _, m := range movies {
			if m.ID == id {
				json.NewEncoder(w).Encode(m)
				return
			}
		}
		http.NotFound(w, r)
	})
	return mux
}

func fixtureMovies() []models.Movie {
	return []models.Movie{
		{ID: 1, Title: "Alien", Genre: "Horror", ReleaseYear: 1979, Rating: 8.5, Plan: models.PlanBasic},
		{ID: 2, Title: "Gravity", Genre: "Sci-Fi", ReleaseYear: 2013, Rating: 7.7, Plan: models.PlanGold},
		{ID: 3, Title: "Dune", Genre: "Sci-Fi", ReleaseYear: 2021, Rating: 8.2, Plan: models.PlanPlatinum},
		{ID: 4, Title: "Cats", Genre: "Musical", ReleaseYear: 2019, Rating: 2.8, Plan: models.PlanBasic},
	}
}

func decodePage(t *testing.T, body io.Reader) models.MoviesResponse {
	t.Helper()
	var page models.MoviesResponse
	require.NoError(t, json.NewDecoder(body).Decode(&page))
	return page
}

func TestListEndpointPassesThrough(t *testing.T) {
	_, mux := newTestMovieHandler(t, fixtureRemote(fixtureMovies()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/movies?genre=Sci-Fi&page=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	page := decodePage(t, rec.Body)
	assert.Len(t, page.Movies, 4)
	assert.Equal(t, 1, page.CurrentPage)
}

func TestListEndpointFailSoft(t *testing.T) {
	_, mux := newTestMovieHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/movies?page=3", nil))

	// Remote failure surfaces as an empty page, never as an error status.
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodePage(t, rec.Body)
	assert.Empty(t, page.Movies)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 3, page.CurrentPage)
}

func TestDetailEndpoint(t *testing.T) {
	_, mux := newTestMovieHandler(t, fixtureRemote(fixtureMovies()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/movies/3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Movie
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Dune", got.Title)
}

func TestDetailEndpointRemoteFailure(t *testing.T) {
	_, mux := newTestMovieHandler(t, fixtureRemote(fixtureMovies()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/movies/99", nil))

	// Detail is strict: the shell renders a real error state for it.
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSectionEndpoints(t *testing.T) {
	_, mux := newTestMovieHandler(t, fixtureRemote(fixtureMovies()))

	t.Run("trending", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/trending", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		page := decodePage(t, rec.Body)
		require.Len(t, page.Movies, 3)
		assert.Equal(t, "Alien", page.Movies[0].Title)
		for _, m := range page.Movies {
			assert.Greater(t, m.Rating, 7.5)
		}
	})

	t.Run("fanfavourite", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/fanfavourite", nil))

		page := decodePage(t, rec.Body)
		require.Len(t, page.Movies, 2)
		for _, m := range page.Movies {
			assert.Greater(t, m.Rating, 8.0)
		}
	})

	t.Run("newreleases", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/newreleases", nil))

		page := decodePage(t, rec.Body)
		require.Len(t, page.Movies, 2)
		assert.Equal(t, "Dune", page.Movies[0].Title)
		assert.Equal(t, "Cats", page.Movies[1].Title)
	})
}

func TestHomeEndpoint(t *testing.T) {
	_, mux := newTestMovieHandler(t, fixtureRemote(fixtureMovies()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/home", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var home map[string]models.MoviesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&home))

	require.Contains(t, home, services.ViewTrending)
	require.Contains(t, home, services.ViewFanFavourite)
	require.Contains(t, home, services.ViewNewReleases)
	assert.Len(t, home[services.ViewTrending].Movies, 3)
	assert.Len(t, home[services.ViewFanFavourite].Movies, 2)
	assert.Len(t, home[services.ViewNewReleases].Movies, 2)
}
