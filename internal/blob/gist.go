package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"shelf/internal/library"
	"shelf/internal/logging"
)

const (
	defaultGistBaseURL = "https://api.github.com"
	defaultGistFile    = "contents.json"
)

// GistStore keeps the document as one file of a GitHub gist.
type GistStore struct {
	gistID     string
	token      string
	baseURL    string
	file       string
	httpClient *http.Client
	logger     *slog.Logger
}

// GistOption configures a GistStore.
type GistOption func(*GistStore)

// WithGistBaseURL overrides the GitHub API root.
func WithGistBaseURL(baseURL string) GistOption {
	return func(s *GistStore) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			s.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithGistFile overrides the file name inside the gist.
func WithGistFile(name string) GistOption {
	return func(s *GistStore) {
		if name = strings.TrimSpace(name); name != "" {
			s.file = name
		}
	}
}

// WithGistHTTPClient overrides the HTTP client.
func WithGistHTTPClient(client *http.Client) GistOption {
	return func(s *GistStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithGistLogger sets the logger.
func WithGistLogger(logger *slog.Logger) GistOption {
	return func(s *GistStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewGistStore creates a gist-backed store.
func NewGistStore(gistID, token string, opts ...GistOption) (*GistStore, error) {
	gistID = strings.TrimSpace(gistID)
	if gistID == "" {
		return nil, errors.New("gist id required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("github token required")
	}
	s := &GistStore{
		gistID:     gistID,
		token:      token,
		baseURL:    defaultGistBaseURL,
		file:       defaultGistFile,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "blob")
	return s, nil
}

type gistFile struct {
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
	RawURL    string `json:"raw_url"`
}

type gistPayload struct {
	Files map[string]*gistFile `json:"files"`
}

// Get fetches the document. A gist without the file is seeded with an empty
// document.
func (s *GistStore) Get(ctx context.Context) (*library.Document, error) {
	var payload gistPayload
	if err := s.do(ctx, http.MethodGet, s.gistURL(), nil, &payload); err != nil {
		return nil, err
	}
	file := payload.Files[s.file]
	if file == nil {
		s.logger.Info("gist has no document yet, creating it", logging.String("file", s.file))
		doc := &library.Document{}
		if err := s.Put(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	content := file.Content
	if file.Truncated && file.RawURL != "" {
		raw, err := s.fetchRaw(ctx, file.RawURL)
		if err != nil {
			return nil, err
		}
		content = raw
	}
	doc, err := library.DecodeDocument([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("parse gist %s: %w", s.file, err)
	}
	return doc, nil
}

// Put replaces the gist file with doc.
func (s *GistStore) Put(ctx context.Context, doc *library.Document) error {
	data, err := library.EncodeDocument(doc)
	if err != nil {
		return err
	}
	body := gistPayload{Files: map[string]*gistFile{s.file: {Content: string(data)}}}
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode gist payload: %w", err)
	}
	return s.do(ctx, http.MethodPatch, s.gistURL(), encoded, nil)
}

func (s *GistStore) gistURL() string {
	return s.baseURL + "/gists/" + s.gistID
}

func (s *GistStore) do(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestStart := time.Now()
	resp, err := s.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gist %s returned %d (latency=%v)", strings.ToLower(method), resp.StatusCode, latency)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gist response: %w", err)
	}
	return nil
}

func (s *GistStore) fetchRaw(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build raw request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch raw gist file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("raw gist file returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read raw gist file: %w", err)
	}
	return string(data), nil
}
