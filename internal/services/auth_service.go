package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cinescope/cinescope/internal/models"
)

// AuthService proxies account operations to the catalog API. The API owns
// all account state; this service only exchanges credentials for a bearer
// token and forwards authenticated profile updates.
type AuthService struct {
	client  *http.Client
	baseURL string
}

// NewAuthService creates a new auth service
func NewAuthService(cfg CatalogServiceConfig) *AuthService {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &AuthService{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.BaseURL,
	}
}

// doPost performs a JSON POST against the catalog API, attaching the
// bearer token when one is provided
func (s *AuthService) doPost(ctx context.Context, endpoint, token string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrRemoteStatus, resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// Signup registers a new account and returns the bearer token plus user
func (s *AuthService) Signup(ctx context.Context, input models.SignupInput) (*models.AuthResponse, error) {
	body, err := s.doPost(ctx, "/signup", "", input)
	if err != nil {
		return nil, err
	}

	var auth models.AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}

	return &auth, nil
}

// Login exchanges credentials for a bearer token plus user
func (s *AuthService) Login(ctx context.Context, input models.LoginInput) (*models.AuthResponse, error) {
	body, err := s.doPost(ctx, "/login", "", input)
	if err != nil {
		return nil, err
	}

	var auth models.AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}

	return &auth, nil
}

// Logout revokes the bearer token on the API side
func (s *AuthService) Logout(ctx context.Context, token string) error {
	_, err := s.doPost(ctx, "/logout", token, nil)
	return err
}

// UpdatePreferences changes the account's notification preferences and
// returns the updated user
func (s *AuthService) UpdatePreferences(ctx context.Context, token string, input models.UpdatePreferencesInput) (*models.User, error) {
	body, err := s.doPost(ctx, "/update_preferences", token, input)
	if err != nil {
		return nil, err
	}

	var response struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}

	return &response.User, nil
}
