// internal/adapters/githubstore/store.go
package githubstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elikagan/objectlesson-api/internal/core/ports"
)

const defaultBaseURL = "https://api.github.com"

// Config holds GitHub content store configuration
type Config struct {
	Owner   string
	Repo    string
	Branch  string
	Token   string
	BaseURL string // overridable for tests
	Timeout time.Duration
}

// Store implements VersionedBlobStore against the GitHub Contents API.
// A file's git blob SHA is the version tag: PUT with a stale SHA is
// rejected by GitHub, which is surfaced as ports.ErrVersionConflict.
type Store struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// Statically assert that *Store implements the port.
var _ ports.VersionedBlobStore = (*Store)(nil)

// New creates a GitHub-backed blob store
func New(cfg Config, logger *slog.Logger) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Store{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(slog.String("store", "github")),
	}
}

type contentResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

type apiError struct {
	Message string `json:"message"`
}

// Get fetches the file at path on the configured branch
func (s *Store) Get(ctx context.Context, path string) (*ports.Blob, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		s.cfg.BaseURL, s.cfg.Owner, s.cfg.Repo, escapePath(path), url.QueryEscape(s.cfg.Branch))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	s.setHeaders(req)

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github get %s: %w", path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("github get %s: read body: %w", path, err)
	}

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("github get %s: %w", path, ports.ErrNotFound)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github get %s: %s", path, apiMessage(res.StatusCode, body))
	}

	var file contentResponse
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("github get %s: decode response: %w", path, err)
	}

	// GitHub wraps base64 content with newlines
	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("github get %s: decode content: %w", path, err)
	}

	return &ports.Blob{Content: content, VersionTag: file.SHA}, nil
}

// Put writes content at path, conditionally on expectedTag when non-empty
func (s *Store) Put(ctx context.Context, path string, content []byte, expectedTag, message string) (string, error) {
	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  s.cfg.Branch,
	}
	if expectedTag != "" {
		payload["sha"] = expectedTag
	}

	body, status, err := s.send(ctx, http.MethodPut, path, payload)
	if err != nil {
		return "", fmt.Errorf("github put %s: %w", path, err)
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		var res putResponse
		if err := json.Unmarshal(body, &res); err != nil {
			return "", fmt.Errorf("github put %s: decode response: %w", path, err)
		}
		return res.Content.SHA, nil
	case isConflict(status, body):
		return "", fmt.Errorf("github put %s: %w", path, ports.ErrVersionConflict)
	default:
		return "", fmt.Errorf("github put %s: %s", path, apiMessage(status, body))
	}
}

// Delete removes the file at path; the version tag is required by the API
func (s *Store) Delete(ctx context.Context, path, versionTag, message string) error {
	payload := map[string]string{
		"message": message,
		"sha":     versionTag,
		"branch":  s.cfg.Branch,
	}

	body, status, err := s.send(ctx, http.MethodDelete, path, payload)
	if err != nil {
		return fmt.Errorf("github delete %s: %w", path, err)
	}

	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return fmt.Errorf("github delete %s: %w", path, ports.ErrNotFound)
	case isConflict(status, body):
		return fmt.Errorf("github delete %s: %w", path, ports.ErrVersionConflict)
	default:
		return fmt.Errorf("github delete %s: %s", path, apiMessage(status, body))
	}
}

func (s *Store) send(ctx context.Context, method, path string, payload map[string]string) ([]byte, int, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		s.cfg.BaseURL, s.cfg.Owner, s.cfg.Repo, escapePath(path))

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, res.StatusCode, nil
}

func (s *Store) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "objectlesson-api")
}

// isConflict recognizes both conflict shapes the Contents API produces:
// a plain 409, and a 422 whose message reports a stale sha.
func isConflict(status int, body []byte) bool {
	if status == http.StatusConflict {
		return true
	}
	if status == http.StatusUnprocessableEntity {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil {
			return strings.Contains(apiErr.Message, "does not match")
		}
	}
	return false
}

func apiMessage(status int, body []byte) string {
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Sprintf("status %d: %s", status, apiErr.Message)
	}
	return fmt.Sprintf("status %d", status)
}

func escapePath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
