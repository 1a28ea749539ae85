package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"github.com/cinescope/cinescope/internal/models"
)

// UploadFile is a file field for a multipart movie creation request
type UploadFile struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// AdminService handles supervisor-only operations against the catalog API,
// currently just movie creation
type AdminService struct {
	client  *http.Client
	baseURL string
}

// NewAdminService creates a new admin service
func NewAdminService(cfg CatalogServiceConfig) *AdminService {
	timeout := cfg.Timeout
	if timeout == 0 {
		// Uploads carry two images; give them more room than catalog reads.
		timeout = 60 * time.Second
	}
	return &AdminService{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.BaseURL,
	}
}

// CreateMovie posts a new movie record with its poster and banner images
// to the catalog API. Optional fields are omitted from the form when empty,
// matching what the API expects.
func (s *AdminService) CreateMovie(ctx context.Context, token string, input models.CreateMovieInput, poster, banner UploadFile) (*models.Movie, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":        input.Title,
		"genre":        input.Genre,
		"release_year": strconv.Itoa(input.ReleaseYear),
		"rating":       strconv.FormatFloat(input.Rating, 'f', -1, 64),
		"plan":         input.Plan.String(),
	}
	if input.Director != "" {
		fields["director"] = input.Director
	}
	if input.Duration > 0 {
		fields["duration"] = strconv.Itoa(input.Duration)
	}
	if input.Description != "" {
		fields["description"] = input.Description
	}

	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	if err := writeFilePart(form, "poster", poster); err != nil {
		return nil, err
	}
	if err := writeFilePart(form, "banner", banner); err != nil {
		return nil, err
	}

	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/movies", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrRemoteStatus, resp.StatusCode, string(body))
	}

	var movie models.Movie
	if err := json.Unmarshal(body, &movie); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}

	return &movie, nil
}

// writeFilePart adds a file field with an explicit content type
func writeFilePart(form *multipart.Writer, field string, file UploadFile) error {
	name := file.Name
	if name == "" {
		name = field + ".jpg"
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name))
	header.Set("Content-Type", contentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", field, err)
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return fmt.Errorf("failed to write %s data: %w", field, err)
	}
	return nil
}
