package main

import (
	"github.com/spf13/cobra"

	"subpost/internal/content"
	"subpost/internal/workflow"
)

func newVocabCommand(ctx *commandContext) *cobra.Command {
	var word, expression string
	var image1, image2 string
	var test bool

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Generate a vocabulary post from two subtitle screenshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := workflow.VocabRequest{
				Target: word,
				Kind:   content.KindWord,
				Images: [2]string{image1, image2},
			}
			if expression != "" {
				req.Target = expression
				req.Kind = content.KindExpression
			}
			runner, err := ctx.newRunner(cmd, test)
			if err != nil {
				return err
			}
			result, err := runner.Vocab(cmd.Context(), req)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&word, "word", "", "French word to hide in the translations")
	cmd.Flags().StringVar(&expression, "expression", "", "French expression to hide in the translations")
	cmd.Flags().StringVar(&image1, "image1", "", "First subtitle screenshot")
	cmd.Flags().StringVar(&image2, "image2", "", "Second subtitle screenshot")
	cmd.Flags().BoolVar(&test, "test", false, "Use canned short links instead of the shortener API")
	cmd.MarkFlagsMutuallyExclusive("word", "expression")
	cmd.MarkFlagsOneRequired("word", "expression")
	_ = cmd.MarkFlagRequired("image1")
	_ = cmd.MarkFlagRequired("image2")
	return cmd
}

func newGrammarCommand(ctx *commandContext) *cobra.Command {
	var test bool

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Generate grammar quiz posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.newRunner(cmd, test)
			if err != nil {
				return err
			}
			results, err := runner.Grammar(cmd.Context())
			for _, result := range results {
				printResult(cmd.OutOrStdout(), result)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&test, "test", false, "Use canned short links instead of the shortener API")
	return cmd
}

func newHumorCommand(ctx *commandContext) *cobra.Command {
	var image, title string
	var test bool

	cmd := &cobra.Command{
		Use:   "humor",
		Short: "Generate a post explaining a French meme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.newRunner(cmd, test)
			if err != nil {
				return err
			}
			result, err := runner.Humor(cmd.Context(), workflow.HumorRequest{Image: image, Title: title})
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&image, "image", "", "Meme image")
	cmd.Flags().StringVar(&title, "title", "", "Short title for the output files (asked when omitted)")
	cmd.Flags().BoolVar(&test, "test", false, "Use canned short links instead of the shortener API")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}
