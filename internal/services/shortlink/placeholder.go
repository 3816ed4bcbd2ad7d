package shortlink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"subpost/internal/logging"
	"subpost/internal/services"
)

// Placeholder strings written into the page when a link cannot be created.
const (
	PlaceholderMissingKey      = "Error: Unable to generate link (missing API key)"
	PlaceholderAPIError        = "Error: Unable to generate link (API error)"
	PlaceholderInvalidResponse = "Error: Unable to generate link (invalid API response)"
	PlaceholderTimeout         = "Error: Unable to generate link (timeout)"
	PlaceholderGeneric         = "Error: Unable to generate link"

	placeholderPrefix = "Error:"
)

var (
	ErrMissingKey      = fmt.Errorf("%w: shortener api key not set (ABLINK_API_KEY)", services.ErrConfiguration)
	ErrInvalidResponse = fmt.Errorf("%w: shortener response invalid", services.ErrExternal)
	ErrTimeout         = fmt.Errorf("%w: shortener", services.ErrTimeout)
)

// StatusError reports a non-2xx answer from the shortener.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("shortener returned http %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return services.ErrExternal }

// Placeholder maps a creation error to the fixed placeholder text.
func Placeholder(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingKey):
		return PlaceholderMissingKey
	case errors.As(err, &statusErr):
		return PlaceholderAPIError
	case errors.Is(err, ErrInvalidResponse):
		return PlaceholderInvalidResponse
	case errors.Is(err, services.ErrTimeout):
		return PlaceholderTimeout
	default:
		return PlaceholderGeneric
	}
}

// IsPlaceholder reports whether link is a degraded placeholder.
func IsPlaceholder(link string) bool {
	return strings.HasPrefix(strings.TrimSpace(link), placeholderPrefix)
}

// Link asks creator for a short link. Failures are logged as warnings and
// replaced by a placeholder so the caller can keep going.
func Link(ctx context.Context, creator Creator, logger *slog.Logger, title string) string {
	if creator == nil {
		return PlaceholderMissingKey
	}
	link, err := creator.Create(ctx, title)
	if err == nil {
		logging.WithContext(ctx, logger).Info("link created",
			logging.String("title", title),
			logging.String("link", link),
		)
		return link
	}
	placeholder := Placeholder(err)
	logging.WarnDegraded(logging.WithContext(ctx, logger), "link creation failed", "shortlink_degraded",
		logging.String("title", title),
		logging.String("placeholder", placeholder),
		logging.Error(err),
	)
	return placeholder
}
