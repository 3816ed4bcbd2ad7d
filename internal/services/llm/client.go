package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"subpost/internal/logging"
	"subpost/internal/services"
	"subpost/internal/textutil"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultHTTPTimeout = 60 * time.Second
)

// Config captures the runtime settings required to talk to the model API.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// Image is one inline image attached to a request.
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURL encodes the image as a base64 data URL.
func (i Image) DataURL() string {
	mime := strings.TrimSpace(i.MIMEType)
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// LoadImage reads an image file and sniffs its content type.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Image{}, services.Wrap(services.ErrNotFound, "llm", "load image", "image not found: "+path, err)
		}
		return Image{}, services.Wrap(services.ErrValidation, "llm", "load image", path, err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/png"
	}
	return Image{Data: data, MIMEType: mime}, nil
}

// Request is a single chat completion: an optional system prompt, one user
// prompt, and any images attached to that user turn.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Images      []Image
	Temperature *float64
}

// Temperature returns a pointer for Request.Temperature.
func Temperature(value float64) *float64 {
	return &value
}

// Client wraps the OpenAI chat completions API.
type Client struct {
	cfg        Config
	api        openai.Client
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the per-request timeout derived from Config.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient constructs a client using the supplied configuration. SDK retries
// are disabled: each Generate call is exactly one attempt.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{},
		timeout:    timeout,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	client.logger = logging.NewComponentLogger(client.logger, "llm")
	client.api = openai.NewClient(
		option.WithAPIKey(client.cfg.APIKey),
		option.WithBaseURL(strings.TrimRight(client.cfg.BaseURL, "/")+"/"),
		option.WithHTTPClient(client.httpClient),
		option.WithMaxRetries(0),
	)
	return client
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type emptyContentError struct {
	Model        string
	FinishReason string
	Refusal      string
}

func (e *emptyContentError) Error() string {
	return fmt.Sprintf("empty content (model=%s, finish_reason=%q, refusal=%q)", e.Model, e.FinishReason, e.Refusal)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// Generate issues one chat completion and returns the trimmed reply text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	const op = "generate"
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "llm", op, "api key required (set OPENAI_API_KEY)", nil)
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		return "", services.Wrap(services.ErrValidation, "llm", op, "model required", nil)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", services.Wrap(services.ErrValidation, "llm", op, "prompt required", nil)
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: buildMessages(req),
	}
	if req.Temperature != nil {
		params.Temperature = param.NewOpt(*req.Temperature)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	resp, err := c.api.Chat.Completions.New(callCtx, params)
	if err != nil {
		return "", c.classify(ctx, callCtx, model, err)
	}

	var content, finishReason, refusal string
	for _, choice := range resp.Choices {
		if finishReason == "" {
			finishReason = string(choice.FinishReason)
		}
		if refusal == "" {
			refusal = strings.TrimSpace(choice.Message.Refusal)
		}
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			content = text
			break
		}
	}
	if content == "" {
		return "", services.Wrap(services.ErrEmptyResponse, "llm", op, "model "+model,
			&emptyContentError{Model: model, FinishReason: finishReason, Refusal: refusal})
	}

	logging.WithContext(ctx, c.logger).Debug("completion received",
		logging.String("model", model),
		logging.Int("images", len(req.Images)),
		logging.Duration("elapsed", time.Since(started)),
		logging.String("reply", textutil.Snippet(content, 120)),
	)
	return content, nil
}

func (c *Client) classify(parent, callCtx context.Context, model string, err error) error {
	var apiErr *openai.Error
	switch {
	case errors.As(err, &apiErr):
		return services.Wrap(services.ErrExternal, "llm", "generate", "model "+model,
			&httpStatusError{StatusCode: apiErr.StatusCode, Body: apiErr.Message})
	case errors.Is(err, context.Canceled) && parent.Err() != nil:
		return err
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return services.Wrap(services.ErrTimeout, "llm", "generate",
			fmt.Sprintf("no answer within %s", c.timeout), err)
	default:
		return services.Wrap(services.ErrExternal, "llm", "generate", "model "+model, err)
	}
}

func buildMessages(req Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system := strings.TrimSpace(req.System); system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	if len(req.Images) == 0 {
		messages = append(messages, openai.UserMessage(req.Prompt))
		return messages
	}
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(req.Images)+1)
	parts = append(parts, openai.TextContentPart(req.Prompt))
	for _, img := range req.Images {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: img.DataURL(),
		}))
	}
	user := openai.ChatCompletionUserMessageParam{
		Content: openai.ChatCompletionUserMessageParamContentUnion{
			OfArrayOfContentParts: parts,
		},
	}
	messages = append(messages, openai.ChatCompletionMessageParamUnion{OfUser: &user})
	return messages
}
