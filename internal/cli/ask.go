package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/futig/docs-assistant/internal/builder"
	"github.com/futig/docs-assistant/internal/entity"
	"github.com/futig/docs-assistant/internal/usecase/pipeline"
	"github.com/spf13/cobra"
)

var errAnswerFailed = errors.New("query failed")

func newAskCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a single question from the indexed documents",
		Long: `Answer a single question and print the retrieved sources.

Examples:
  assistant-cli ask "What are the guidelines for stroke treatment?"
  assistant-cli ask --config assistant.yaml "What is the prevention protocol?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "YAML pipeline configuration (default from environment)")
	return cmd
}

func runAsk(cmd *cobra.Command, opts *options, question string) error {
	ctx := cmd.Context()

	cfg, err := opts.configuration(opts.configFile)
	if err != nil {
		return err
	}

	p := builder.NewPipeline(opts.cfg, opts.logger)
	if err := p.Configure(ctx, cfg); err != nil {
		return fmt.Errorf("configure pipeline: %w", err)
	}

	msg, err := pipeline.AskWithRetry(ctx, p, question, opts.cfg.AskRetry)
	if err != nil {
		return err
	}

	printAnswer(cmd.OutOrStdout(), msg)
	if msg.IsError {
		return fmt.Errorf("%w: %s", errAnswerFailed, msg.ErrorKind)
	}
	return nil
}

func printAnswer(w io.Writer, msg *entity.ChatMessage) {
	fmt.Fprintln(w, msg.Content)

	if len(msg.Sources) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	for i, s := range msg.Sources {
		fmt.Fprintf(w, "  %d. %s (%.0f%% relevant)\n", i+1, s.SourceName, s.Score*100)
	}
}
