package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/cinescope/cinescope/internal/models"
)

// GenreAll is the sentinel genre meaning "no genre constraint". The catalog
// API expects the genre parameter to be omitted entirely in that case.
const GenreAll = "all"

var (
	// ErrRemoteStatus indicates the catalog API answered with a non-2xx status
	ErrRemoteStatus = errors.New("catalog API returned an error status")
	// ErrDecodeResponse indicates the catalog API answered with undecodable JSON
	ErrDecodeResponse = errors.New("failed to decode catalog API response")
)

// CatalogService handles interactions with the remote catalog API
type CatalogService struct {
	client  *http.Client
	baseURL string
	logger  *log.Logger
}

// CatalogServiceConfig holds catalog service configuration
type CatalogServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewCatalogService creates a new catalog service
func NewCatalogService(cfg CatalogServiceConfig, logger *log.Logger) *CatalogService {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &CatalogService{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

// doRequest performs a GET against the catalog API
func (s *CatalogService) doRequest(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s%s", s.baseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	for key, value := range params {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrRemoteStatus, resp.StatusCode, string(body))
	}

	return body, nil
}

// ListMovies retrieves one page of movies, optionally filtered by genre
// and free-text search. The genre parameter is omitted from the request
// when empty or "all"; search is omitted when empty. Errors are real and
// distinguishable here; use FetchMovies for the fail-soft contract.
func (s *CatalogService) ListMovies(ctx context.Context, genre, search string, page int) (*models.MoviesResponse, error) {
	if page < 1 {
		page = 1
	}

	params := map[string]string{
		"page": strconv.Itoa(page),
	}
	if genre != "" && genre != GenreAll {
		params["genre"] = genre
	}
	if search != "" {
		params["search"] = search
	}

	body, err := s.doRequest(ctx, "/movies", params)
	if err != nil {
		return nil, err
	}

	var response models.MoviesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}

	// A page count of zero would make "current_page < total_pages" loops
	// spin forever on the client; clamp it.
	if response.TotalPages < 1 {
		response.TotalPages = 1
	}
	if response.CurrentPage < 1 {
		response.CurrentPage = page
	}
	if response.Movies == nil {
		response.Movies = []models.Movie{}
	}

	return &response, nil
}

// FetchMovies is the fail-soft variant of ListMovies consumed by the feed
// and view layers: any transport, status or decode failure collapses into
// an empty page so those callers never branch on errors. A network outage
// is therefore indistinguishable from "no matches" by design.
func (s *CatalogService) FetchMovies(ctx context.Context, genre, search string, page int) *models.MoviesResponse {
	if page < 1 {
		page = 1
	}

	response, err := s.ListMovies(ctx, genre, search, page)
	if err != nil {
		s.logger.Printf("Catalog fetch failed (genre=%q search=%q page=%d): %v", genre, search, page, err)
		return models.EmptyPage(page)
	}

	return response
}

// GetMovie retrieves a single movie by ID
func (s *CatalogService) GetMovie(ctx context.Context, movieID int) (*models.Movie, error) {
	endpoint := fmt.Sprintf("/movies/%d", movieID)
	body, err := s.doRequest(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var movie models.Movie
	if err := json.Unmarshal(body, &movie); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}

	return &movie, nil
}
