package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. Credentials are not checked
// here; see RequireLLM.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateShortener(); err != nil {
		return err
	}
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateVocab(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if err := validateHTTPURL("llm.base_url", c.LLM.BaseURL); err != nil {
		return err
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateShortener() error {
	if err := validateHTTPURL("shortener.base_url", c.Shortener.BaseURL); err != nil {
		return err
	}
	if err := validateHTTPURL("shortener.target_url", c.Shortener.TargetURL); err != nil {
		return err
	}
	if c.Shortener.TimeoutSeconds <= 0 {
		return errors.New("shortener.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateImages() error {
	if c.Images.CropBottomPx < 0 {
		return errors.New("images.crop_bottom_px must be zero or positive")
	}
	return nil
}

func (c *Config) validateVocab() error {
	switch c.Vocab.TranslationStyle {
	case TranslationNatural, TranslationLiteral:
		return nil
	default:
		return fmt.Errorf("vocab.translation_style: unsupported value %q (use %q or %q)", c.Vocab.TranslationStyle, TranslationNatural, TranslationLiteral)
	}
}

func (c *Config) validatePublish() error {
	largest := 0
	channels := []struct {
		name    string
		channel Channel
	}{
		{KindVocab, c.Publish.Vocab},
		{KindGrammar, c.Publish.Grammar},
		{KindHumor, c.Publish.Humor},
	}
	for _, entry := range channels {
		if len(entry.channel.Destinations) == 0 {
			return fmt.Errorf("publish.%s.destinations must list at least one destination", entry.name)
		}
		for i, dest := range entry.channel.Destinations {
			if dest.Name == "" {
				return fmt.Errorf("publish.%s.destinations[%d].name must be set", entry.name, i)
			}
			if err := validateHTTPURL(fmt.Sprintf("publish.%s.destinations[%d].url", entry.name, i), dest.URL); err != nil {
				return err
			}
		}
		largest = max(largest, len(entry.channel.Destinations))
	}
	// One distinct postscript per destination.
	if len(c.Publish.Postscripts) < largest {
		return fmt.Errorf("publish.postscripts must hold at least %d entries (one per destination), got %d", largest, len(c.Publish.Postscripts))
	}
	return nil
}

func validateHTTPURL(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s must be set", field)
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", field, value)
	}
	return nil
}
