package cli

import (
	"fmt"

	"github.com/futig/docs-assistant/internal/pkg/validator"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect pipeline configuration files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check [file]",
		Short: "Validate a YAML pipeline configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.configuration(args[0])
			if err != nil {
				return err
			}

			if err := validator.New(opts.cfg.Assistant.MaxTopK).ValidateConfiguration(&cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "configuration is valid: index %q, top_k %d\n", cfg.IndexName, cfg.TopK)
			return nil
		},
	})

	return cmd
}
