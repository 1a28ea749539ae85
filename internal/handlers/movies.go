package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/cinescope/cinescope/internal/middleware"
	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/services"
)

// MovieHandler handles catalog browsing and movie creation
type MovieHandler struct {
	catalog  *services.CatalogService
	views    *services.ViewService
	cache    *services.CatalogCache
	admin    *services.AdminService
	validate *validator.Validate
	logger   *log.Logger
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(
	catalog *services.CatalogService,
	views *services.ViewService,
	cache *services.CatalogCache,
	admin *services.AdminService,
	validate *validator.Validate,
	logger *log.Logger,
) *MovieHandler {
	return &MovieHandler{
		catalog:  catalog,
		views:    views,
		cache:    cache,
		admin:    admin,
		validate: validate,
		logger:   logger,
	}
}

// List handles GET /api/movies with optional genre, search and page
// parameters. It follows the fail-soft contract: remote failures come back
// as an empty page, never as an error status.
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	genre := query.Get("genre")
	search := query.Get("search")

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}

	result := h.catalog.FetchMovies(r.Context(), genre, search, page)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Get handles GET /api/movies/{id}
func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	movieID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, `{"error":"Invalid movie ID"}`, http.StatusBadRequest)
		return
	}

	movie, err := h.catalog.GetMovie(r.Context(), movieID)
	if err != nil {
		h.logger.Printf("Failed to fetch movie %d: %v", movieID, err)
		http.Error(w, `{"error":"Failed to fetch movie"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(movie)
}

// Trending handles GET /api/trending
func (h *MovieHandler) Trending(w http.ResponseWriter, r *http.Request) {
	h.section(w, r, h.views.Trending)
}

// FanFavourite handles GET /api/fanfavourite
func (h *MovieHandler) FanFavourite(w http.ResponseWriter, r *http.Request) {
	h.section(w, r, h.views.FanFavourite)
}

// NewReleases handles GET /api/newreleases
func (h *MovieHandler) NewReleases(w http.ResponseWriter, r *http.Request) {
	h.section(w, r, h.views.NewReleases)
}

// section serves one derived view page
func (h *MovieHandler) section(w http.ResponseWriter, r *http.Request, view func(context.Context, int) *models.MoviesResponse) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	result := view(r.Context(), page)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Home handles GET /api/home: the first page of all three home sections,
// fetched concurrently. The first section to touch the cache triggers the
// catalog fan-out; the other two share its snapshot.
func (h *MovieHandler) Home(w http.ResponseWriter, r *http.Request) {
	var trending, fanFavourite, newReleases *models.MoviesResponse

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		trending = h.views.Trending(ctx, 1)
		return nil
	})
	g.Go(func() error {
		fanFavourite = h.views.FanFavourite(ctx, 1)
		return nil
	})
	g.Go(func() error {
		newReleases = h.views.NewReleases(ctx, 1)
		return nil
	})
	g.Wait()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]*models.MoviesResponse{
		services.ViewTrending:     trending,
		services.ViewFanFavourite: fanFavourite,
		services.ViewNewReleases:  newReleases,
	})
}

// Create handles POST /api/movies (supervisor only): a multipart form with
// the movie fields plus poster and banner images, streamed through to the
// catalog API with the session's bearer token.
func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, `{"error":"Invalid multipart form"}`, http.StatusBadRequest)
		return
	}

	input := models.CreateMovieInput{
		Title:       r.FormValue("title"),
		Genre:       r.FormValue("genre"),
		Director:    r.FormValue("director"),
		Description: r.FormValue("description"),
		Plan:        models.Plan(r.FormValue("plan")),
	}
	input.ReleaseYear, _ = strconv.Atoi(r.FormValue("release_year"))
	input.Rating, _ = strconv.ParseFloat(r.FormValue("rating"), 64)
	input.Duration, _ = strconv.Atoi(r.FormValue("duration"))

	if err := h.validate.Struct(input); err != nil {
		h.logger.Printf("Movie creation validation failed: %v", err)
		http.Error(w, `{"error":"Invalid movie details"}`, http.StatusUnprocessableEntity)
		return
	}

	poster, err := formFile(r, "poster")
	if err != nil {
		http.Error(w, `{"error":"Poster image is required"}`, http.StatusBadRequest)
		return
	}
	defer poster.close()

	banner, err := formFile(r, "banner")
	if err != nil {
		http.Error(w, `{"error":"Banner image is required"}`, http.StatusBadRequest)
		return
	}
	defer banner.close()

	movie, err := h.admin.CreateMovie(r.Context(), session.Token, input, poster.upload, banner.upload)
	if err != nil {
		h.logger.Printf("Failed to create movie: %v", err)
		http.Error(w, `{"error":"Failed to create movie"}`, http.StatusBadGateway)
		return
	}

	// The new record should show up in the derived views without waiting
	// for a restart.
	h.cache.Invalidate()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(movie)
}

// openedFile pairs an upload with its close function
type openedFile struct {
	upload services.UploadFile
	close  func() error
}

// formFile extracts one uploaded file from the parsed multipart form
func formFile(r *http.Request, field string) (*openedFile, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	return &openedFile{
		upload: services.UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
		},
		close: file.Close,
	}, nil
}
