package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"organizer/internal/export"
	"organizer/internal/services"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var mode string
	var backupFirst bool

	cmd := &cobra.Command{
		Use:   "import <archive.zip>",
		Short: "Reconcile an exported archive with the local configuration and indexes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			m := export.Mode(mode)
			switch m {
			case export.ModeDryRun, export.ModeForce, export.ModeMerge:
			default:
				return services.Wrap(services.ErrValidation, "cli", "import", "mode must be dry-run, force, or merge", nil)
			}

			result, err := export.ImportFile(cfg, args[0], export.ImportOptions{Mode: m, BackupFirst: backupFirst})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"disks added", "disks updated", "sessions added", "backup"},
				[][]string{{
					fmt.Sprintf("%d", len(result.DiskLabelsAdded)),
					fmt.Sprintf("%d", len(result.DiskLabelsUpdated)),
					fmt.Sprintf("%d", result.SessionsAdded),
					result.BackupPath,
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "dry-run", "Import mode: dry-run, force, or merge")
	cmd.Flags().BoolVar(&backupFirst, "backup-first", false, "Back up the existing config directory before mutating (ignored in dry-run)")
	return cmd
}
