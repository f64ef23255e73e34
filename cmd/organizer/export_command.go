package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"organizer/internal/export"
	"organizer/internal/services"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var only string
	var includeSecrets bool
	var createdBy string

	cmd := &cobra.Command{
		Use:   "export <output.zip>",
		Short: "Package configuration, indexes, and sessions into a portable archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out, err := os.Create(args[0])
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "cli", "export", args[0], err)
			}
			defer out.Close()

			opts := export.Options{Only: only, IncludeSecrets: includeSecrets, CreatedBy: createdBy}
			if err := export.Export(cfg, opts, out); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&only, "only", "", "Restrict to one section: config, indexes, or sessions")
	cmd.Flags().BoolVar(&includeSecrets, "include-secrets", false, "Keep the TMDB API key/bearer token in the archive")
	cmd.Flags().StringVar(&createdBy, "created-by", "", "Value recorded in the manifest's created_by field")
	return cmd
}
