package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var yesFlag bool

	ctx := newCommandContext(&configFlag, &yesFlag)

	rootCmd := &cobra.Command{
		Use:           "subpost",
		Short:         "Generate French-learning Reddit posts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "Accept generated content without interactive review")

	rootCmd.AddCommand(newVocabCommand(ctx))
	rootCmd.AddCommand(newGrammarCommand(ctx))
	rootCmd.AddCommand(newHumorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
