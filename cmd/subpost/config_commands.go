package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subpost/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set OPENAI_API_KEY and ABLINK_API_KEY (a .env file works) before generating posts.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, configRows(cfg)))
			return nil
		},
	}
}

// configRows lists the settings worth checking before a run. Keys are
// reported as set or unset, never printed.
func configRows(cfg *config.Config) [][]string {
	rows := [][]string{
		{"paths.posts_dir", cfg.Paths.PostsDir},
		{"paths.images_dir", cfg.Paths.ImagesDir},
		{"paths.log_dir", cfg.Paths.LogDir},
		{"llm.api_key set", yesNo(cfg.LLM.APIKey != "")},
		{"llm.base_url", cfg.LLM.BaseURL},
		{"llm.vision_model", cfg.LLM.VisionModel},
		{"llm.text_model", cfg.LLM.TextModel},
		{"llm.precise_model", cfg.LLM.PreciseModel},
		{"llm.creative_model", cfg.LLM.CreativeModel},
		{"shortener.api_key set", yesNo(cfg.Shortener.APIKey != "")},
		{"shortener.base_url", cfg.Shortener.BaseURL},
		{"shortener.target_url", cfg.Shortener.TargetURL},
		{"images.crop_bottom_px", strconv.Itoa(cfg.Images.CropBottomPx)},
		{"images.delete_sources", yesNo(cfg.Images.DeleteSources)},
		{"vocab.translation_style", cfg.Vocab.TranslationStyle},
		{"vocab.verify_redaction", yesNo(cfg.Vocab.VerifyRedaction)},
		{"grammar.max_proposal_attempts", strconv.Itoa(cfg.Grammar.MaxProposalAttempts)},
		{"publish.postscripts", strconv.Itoa(len(cfg.Publish.Postscripts))},
	}
	for _, kind := range []string{config.KindVocab, config.KindGrammar, config.KindHumor} {
		channel, _ := cfg.ChannelFor(kind)
		names := make([]string, 0, len(channel.Destinations))
		for _, dest := range channel.Destinations {
			names = append(names, dest.Name)
		}
		rows = append(rows, []string{"publish." + kind + ".destinations", strings.Join(names, ", ")})
	}
	return rows
}
