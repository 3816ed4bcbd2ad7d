package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"subpost/internal/config"
	"subpost/internal/logging"
	"subpost/internal/services/llm"
	"subpost/internal/services/shortlink"
	"subpost/internal/workflow"
)

type commandContext struct {
	configFlag *string
	yesFlag    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	// logWriter, when set, replaces the configured log outputs.
	logWriter io.Writer
}

func newCommandContext(configFlag *string, yesFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		yesFlag:    yesFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cfg *config.Config) (*slog.Logger, error) {
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: c.logWriter,
	}
	if c.logWriter == nil {
		outputs, err := logging.OutputsFor(cfg.Paths.LogDir)
		if err != nil {
			return nil, err
		}
		opts.OutputPaths = outputs
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// interactive reports whether review prompts can reach an operator.
func (c *commandContext) interactive(in io.Reader) bool {
	if c.yesFlag != nil && *c.yesFlag {
		return false
	}
	file, ok := in.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newRunner wires a workflow runner for cmd. Test runs use canned links
// instead of the shortener API.
func (c *commandContext) newRunner(cmd *cobra.Command, test bool) (*workflow.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger(cfg)
	if err != nil {
		return nil, err
	}

	generator := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	}, llm.WithLogger(logger))

	var links shortlink.Creator = shortlink.Stub{}
	if !test {
		links = shortlink.NewClient(shortlink.Config{
			APIKey:         cfg.Shortener.APIKey,
			BaseURL:        cfg.Shortener.BaseURL,
			TargetURL:      cfg.Shortener.TargetURL,
			TimeoutSeconds: cfg.Shortener.TimeoutSeconds,
		}, shortlink.WithLogger(logger))
	} else {
		logger.Info("test mode: short links are not created", logging.String(logging.FieldEventType, "test_mode"))
	}

	var reviewer workflow.Reviewer = workflow.AutoReviewer{}
	if c.interactive(cmd.InOrStdin()) {
		reviewer = workflow.NewConsoleReviewer(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	return workflow.New(cfg, generator, links,
		workflow.WithLogger(logger),
		workflow.WithReviewer(reviewer),
	), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
