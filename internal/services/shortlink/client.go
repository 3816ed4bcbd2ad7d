package shortlink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"subpost/internal/logging"
	"subpost/internal/services"
)

const (
	defaultBaseURL   = "https://ablink.io"
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 20
)

// Creator creates one short link for a display title.
type Creator interface {
	Create(ctx context.Context, title string) (string, error)
}

// HTTPDoer describes the HTTP client used by the shortener.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config captures the shortener settings.
type Config struct {
	APIKey         string
	BaseURL        string
	TargetURL      string
	TimeoutSeconds int
}

// Client talks to the Ablink links API.
type Client struct {
	apiKey    string
	baseURL   string
	targetURL string
	timeout   time.Duration
	client    HTTPDoer
	logger    *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger attaches a logger used when links degrade to placeholders.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient constructs a shortener client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	c := &Client{
		apiKey:    strings.TrimSpace(cfg.APIKey),
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		targetURL: strings.TrimSpace(cfg.TargetURL),
		timeout:   timeout,
		client:    http.DefaultClient,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	c.logger = logging.NewComponentLogger(c.logger, "shortlink")
	return c
}

type createRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type createResponse struct {
	Slug string `json:"slug"`
}

// Create posts one link and returns its short URL.
func (c *Client) Create(ctx context.Context, title string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingKey
	}
	encoded, err := json.Marshal(createRequest{URL: c.targetURL, Title: title})
	if err != nil {
		return "", fmt.Errorf("encode link request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/api/links", bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("build link request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", services.Wrap(ErrTimeout, "shortlink", "create", title, err)
		}
		return "", services.Wrap(services.ErrExternal, "shortlink", "create", title, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(err) {
			return "", services.Wrap(ErrTimeout, "shortlink", "read response", title, err)
		}
		return "", services.Wrap(services.ErrExternal, "shortlink", "read response", title, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var parsed createResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	slug := strings.TrimSpace(parsed.Slug)
	if slug == "" {
		return "", fmt.Errorf("%w: slug missing", ErrInvalidResponse)
	}
	return c.baseURL + "/" + slug, nil
}

// Link creates a short link and never fails; see Link.
func (c *Client) Link(ctx context.Context, title string) string {
	return Link(ctx, c, c.logger, title)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
