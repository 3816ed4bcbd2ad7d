package testsupport

import (
	"path/filepath"
	"testing"

	"subpost/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose output directories live under a unique
// temp directory. The LLM key is set so runs pass the credential check.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.LLM.APIKey = "sk-test"
	cfgVal.Paths.PostsDir = filepath.Join(base, "posts")
	cfgVal.Paths.ImagesDir = filepath.Join(base, "img")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithoutLLMKey clears the generative API key.
func WithoutLLMKey() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = ""
	}
}

// WithShortener points the shortener at baseURL with the given key.
func WithShortener(baseURL, key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Shortener.BaseURL = baseURL
		b.cfg.Shortener.APIKey = key
	}
}

// WithKeepSources disables source screenshot deletion.
func WithKeepSources() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Images.DeleteSources = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.PostsDir)
}
