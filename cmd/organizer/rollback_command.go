package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"organizer/internal/rollback"
	"organizer/internal/services"
	"organizer/internal/session"
)

func newRollbackCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollback <session-id>",
		Short: "Reverse a session's executed operations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dir := filepath.Join(cfg.SessionsDir(), id)
			doc, err := session.LoadRollback(dir)
			if err != nil {
				return err
			}
			if doc == nil {
				return services.Wrap(services.ErrNotFound, "cli", "rollback", "session has no rollback.json", nil)
			}

			report, err := rollback.Apply(doc, func(d *rollback.Doc) error {
				return session.PersistRollback(dir, d)
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"restored", "conflicted", "missing"},
				[][]string{{
					fmt.Sprintf("%d", report.Restored),
					fmt.Sprintf("%d", report.Conflicted),
					fmt.Sprintf("%d", report.Missing),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight},
			))

			if report.Conflicted > 0 || report.Missing > 0 {
				return partialSuccess(fmt.Sprintf("rollback finished with %d conflicted and %d missing step(s)", report.Conflicted, report.Missing))
			}
			return nil
		},
	}
	return cmd
}
