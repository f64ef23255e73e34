package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"organizer/internal/executor"
	"organizer/internal/logging"
	"organizer/internal/services"
	"organizer/internal/session"
)

func newExecuteCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "execute <session-id>",
		Short: "Apply a previously planned session's ready items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			sess, err := session.Open(cfg, id)
			if err != nil {
				return err
			}
			plan, err := session.LoadPlan(sess.Dir())
			if err != nil {
				return err
			}
			if plan == nil {
				return services.Wrap(services.ErrNotFound, "cli", "execute", "session has no plan.json", nil)
			}

			if dryRun {
				report, err := executor.DryRun(plan)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"free", "required", "collisions"},
					[][]string{{
						humanize.Bytes(report.FreeBytes),
						humanize.Bytes(uint64(report.RequiredBytes)),
						fmt.Sprintf("%d", len(report.Collisions)),
					}},
					[]columnAlignment{alignRight, alignRight, alignRight},
				))
				for _, c := range report.Collisions {
					fmt.Fprintln(cmd.OutOrStdout(), "  collision:", c)
				}
				if !report.OK() {
					return partialSuccess("dry run reports this plan is not safe to execute")
				}
				return nil
			}

			log := ctx.log()

			// Every record of this run lands in the session directory
			// too, as JSON, next to plan.json and rollback.json.
			sessionLog, err := os.OpenFile(filepath.Join(sess.Dir(), "execute.log"),
				os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
			if err == nil {
				defer sessionLog.Close()
				log = logging.TeeLogger(log, logging.NewJSONHandler(sessionLog, slog.LevelDebug))
			}
			log = logging.WithSessionID(log, id)

			exec := executor.New(nil, sess, cfg.Executor.MaxWorkers)
			exec.Logger = log

			log.Info("executing session", "items", len(plan.Items))

			bar := newProgressBar(log, fmt.Sprintf("executing %d items", len(plan.Items)), int64(len(plan.Items)))
			exec.OnItem = func(executor.ItemResult) { bar.increment(1) }
			results := exec.Execute(cmd.Context(), plan)
			bar.done()

			rows := make([][]string, 0, len(results))
			failed := 0
			for _, r := range results {
				status := string(r.State)
				if r.Err != nil {
					status = status + ": " + r.Err.Error()
				}
				if r.State != executor.StateCommitted {
					failed++
				}
				rows = append(rows, []string{r.ItemID, status})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"item", "state"}, rows, []columnAlignment{alignLeft, alignLeft}))

			if executor.Failed(results) {
				if failed == len(results) {
					return fatal(fmt.Sprintf("all %d item(s) failed to execute; run `organizer rollback %s`", failed, id))
				}
				return partialSuccess(fmt.Sprintf("%d of %d item(s) did not commit; run `organizer rollback %s` to undo", failed, len(results), id))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report free space and collisions without mutating anything")
	return cmd
}
