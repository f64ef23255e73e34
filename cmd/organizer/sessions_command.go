package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"organizer/internal/services"
	"organizer/internal/session"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List and inspect plan/execute/rollback sessions",
	}
	cmd.AddCommand(newSessionsListCommand(ctx))
	cmd.AddCommand(newSessionsShowCommand(ctx))
	return cmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every session directory, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			summaries, err := session.List(cfg)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{
					s.ID,
					s.MediaType,
					fmt.Sprintf("%d", s.TotalItems),
					yesNo(s.HasRollback),
					humanize.Time(s.CreatedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"session", "kind", "items", "executed", "created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newSessionsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one session's plan summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := filepath.Join(cfg.SessionsDir(), args[0])

			plan, err := session.LoadPlan(dir)
			if err != nil {
				return err
			}
			if plan == nil {
				return services.Wrap(services.ErrNotFound, "cli", "sessions_show", "no plan.json in "+dir, nil)
			}

			summary := plan.Summarize()
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"plan id", "kind", "source", "target", "total", "ready", "sample", "unknown"},
				[][]string{{
					plan.ID, string(plan.MediaType), plan.SourcePath, plan.TargetPath,
					fmt.Sprintf("%d", summary.Total), fmt.Sprintf("%d", summary.Ready),
					fmt.Sprintf("%d", summary.Sample), fmt.Sprintf("%d", summary.Unknown),
				}},
				nil,
			))
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
