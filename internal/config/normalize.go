package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeShortener()
	c.normalizePublish()
	c.Vocab.TranslationStyle = strings.ToLower(strings.TrimSpace(c.Vocab.TranslationStyle))
	if c.Vocab.TranslationStyle == "" {
		c.Vocab.TranslationStyle = TranslationNatural
	}
	if c.Grammar.MaxProposalAttempts <= 0 {
		c.Grammar.MaxProposalAttempts = defaultMaxProposals
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.PostsDir) == "" {
		c.Paths.PostsDir = defaultPostsDir
	}
	if strings.TrimSpace(c.Paths.ImagesDir) == "" {
		c.Paths.ImagesDir = defaultImagesDir
	}
	if c.Paths.PostsDir, err = expandPath(strings.TrimSpace(c.Paths.PostsDir)); err != nil {
		return fmt.Errorf("paths.posts_dir: %w", err)
	}
	if c.Paths.ImagesDir, err = expandPath(strings.TrimSpace(c.Paths.ImagesDir)); err != nil {
		return fmt.Errorf("paths.images_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		if value, ok := os.LookupEnv("OPENAI_BASE_URL"); ok && strings.TrimSpace(value) != "" {
			c.LLM.BaseURL = strings.TrimSpace(value)
		} else {
			c.LLM.BaseURL = defaultLLMBaseURL
		}
	}
	c.LLM.VisionModel = orDefault(c.LLM.VisionModel, defaultVisionModel)
	c.LLM.TextModel = orDefault(c.LLM.TextModel, defaultTextModel)
	c.LLM.PreciseModel = orDefault(c.LLM.PreciseModel, defaultPreciseModel)
	c.LLM.CreativeModel = orDefault(c.LLM.CreativeModel, defaultCreativeModel)
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeShortener() {
	c.Shortener.APIKey = strings.TrimSpace(c.Shortener.APIKey)
	if c.Shortener.APIKey == "" {
		if value, ok := os.LookupEnv("ABLINK_API_KEY"); ok {
			c.Shortener.APIKey = strings.TrimSpace(value)
		}
	}
	c.Shortener.BaseURL = strings.TrimRight(orDefault(c.Shortener.BaseURL, defaultShortenerBaseURL), "/")
	c.Shortener.TargetURL = orDefault(c.Shortener.TargetURL, defaultShortenerTarget)
}

func (c *Config) normalizePublish() {
	c.Publish.Signature = orDefault(c.Publish.Signature, defaultSignature)
	kept := c.Publish.Postscripts[:0]
	for _, ps := range c.Publish.Postscripts {
		if ps = strings.TrimSpace(ps); ps != "" {
			kept = append(kept, ps)
		}
	}
	c.Publish.Postscripts = kept
	for _, ch := range []*Channel{&c.Publish.Vocab, &c.Publish.Grammar, &c.Publish.Humor} {
		ch.PromoLine = strings.TrimSpace(ch.PromoLine)
		for i := range ch.Destinations {
			ch.Destinations[i].Name = strings.TrimSpace(ch.Destinations[i].Name)
			ch.Destinations[i].URL = strings.TrimSpace(ch.Destinations[i].URL)
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}
