package cli

import (
	"fmt"

	"github.com/futig/docs-assistant/internal/builder"
	"github.com/futig/docs-assistant/internal/config"
	"github.com/futig/docs-assistant/internal/entity"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	environment string
	configFile  string
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the assistant-cli command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "assistant-cli",
		Short: "Ask questions about an indexed document collection",
		Long: `assistant-cli runs single questions through the retrieval pipeline:
the question is embedded, matched against the vector index and answered by
the generative model from the retrieved excerpts.

Example usage:
  assistant-cli ask "What are the guidelines for stroke treatment?"
  assistant-cli ask --config assistant.yaml "How long does rehabilitation take?"
  assistant-cli config check assistant.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := builder.BuildCLI(opts.environment, opts.verbose)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.environment, "env", "local", "environment to load (local, prod, or custom)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline stages to stderr")

	root.AddCommand(newAskCmd(opts), newConfigCmd(opts))
	return root
}

// configuration resolves the pipeline configuration from the YAML file if
// one was given, otherwise from the environment defaults.
func (o *options) configuration(path string) (entity.Configuration, error) {
	defaults := o.cfg.Assistant.Configuration()
	if path == "" {
		return defaults, nil
	}

	cfg, err := config.LoadConfiguration(path, defaults)
	if err != nil {
		return entity.Configuration{}, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
