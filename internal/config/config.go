package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains output and log directory configuration.
type Paths struct {
	PostsDir  string `toml:"posts_dir"`
	ImagesDir string `toml:"images_dir"`
	LogDir    string `toml:"log_dir"`
}

// LLM contains the generative API connection and per-task model choices.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	VisionModel    string `toml:"vision_model"`
	TextModel      string `toml:"text_model"`
	PreciseModel   string `toml:"precise_model"`
	CreativeModel  string `toml:"creative_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Shortener contains settings for the Ablink link-shortening API.
type Shortener struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TargetURL      string `toml:"target_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Images controls how source screenshots are prepared for the page.
type Images struct {
	CropBottomPx  int  `toml:"crop_bottom_px"`
	DeleteSources bool `toml:"delete_sources"`
}

// Vocab contains settings for word and expression posts.
type Vocab struct {
	TranslationStyle string `toml:"translation_style"`
	// VerifyRedaction logs a warning when a masked translation looks wrong.
	// The model output is never altered.
	VerifyRedaction bool `toml:"verify_redaction"`
}

// Grammar contains settings for grammar quiz posts.
type Grammar struct {
	MaxProposalAttempts int `toml:"max_proposal_attempts"`
}

// Destination is one publication target with a display name and URL.
type Destination struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Channel lists the destinations of one post kind and its optional promo line.
type Channel struct {
	PromoLine    string        `toml:"promo_line"`
	Destinations []Destination `toml:"destinations"`
}

// Publish holds the postscript pool and per-kind destination channels.
type Publish struct {
	Postscripts []string `toml:"postscripts"`
	Signature   string   `toml:"signature"`
	Vocab       Channel  `toml:"vocab"`
	Grammar     Channel  `toml:"grammar"`
	Humor       Channel  `toml:"humor"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subpost.
//
// Configuration sections by concern:
//   - Paths: where pages, images, and logs are written
//   - LLM: generative API credentials and model choices
//   - Shortener: link-shortening API credentials and target
//   - Images: crop and cleanup of source screenshots
//   - Vocab / Grammar: per-kind generation knobs
//   - Publish: postscript pool and destinations per post kind
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	LLM       LLM       `toml:"llm"`
	Shortener Shortener `toml:"shortener"`
	Images    Images    `toml:"images"`
	Vocab     Vocab     `toml:"vocab"`
	Grammar   Grammar   `toml:"grammar"`
	Publish   Publish   `toml:"publish"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. Missing files
// fall back to defaults. A .env file in the working directory is loaded first
// so secrets can live outside the config file.
func Load(path string) (*Config, string, bool, error) {
	if err := loadDotEnv(); err != nil {
		return nil, "", false, err
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		defaults := cfg.Publish
		cfg.Publish.Postscripts = nil
		cfg.Publish.Vocab.Destinations = nil
		cfg.Publish.Grammar.Destinations = nil
		cfg.Publish.Humor.Destinations = nil

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		cfg.Publish.restoreLists(defaults)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// restoreLists puts back default lists the file did not set. A list given in
// the file replaces the default instead of extending it.
func (p *Publish) restoreLists(defaults Publish) {
	if p.Postscripts == nil {
		p.Postscripts = defaults.Postscripts
	}
	if p.Vocab.Destinations == nil {
		p.Vocab.Destinations = defaults.Vocab.Destinations
	}
	if p.Grammar.Destinations == nil {
		p.Grammar.Destinations = defaults.Grammar.Destinations
	}
	if p.Humor.Destinations == nil {
		p.Humor.Destinations = defaults.Humor.Destinations
	}
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.PostsDir, c.Paths.ImagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequireLLM reports a configuration error when no generative API key is set.
// Runs call it before any work so a missing key never leaves partial output.
func (c *Config) RequireLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("llm.api_key is required. Set OPENAI_API_KEY (a .env file works) or edit %s (create with 'subpost config init')", defaultPath)
}

// ChannelFor returns the destination channel of a post kind.
func (c *Config) ChannelFor(kind string) (Channel, bool) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindVocab:
		return c.Publish.Vocab, true
	case KindGrammar:
		return c.Publish.Grammar, true
	case KindHumor:
		return c.Publish.Humor, true
	default:
		return Channel{}, false
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
