package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"organizer/internal/media"
	"organizer/internal/pipeline"
	"organizer/internal/planner"
	"organizer/internal/services"
	"organizer/internal/session"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var allowMedium bool

	cmd := &cobra.Command{
		Use:   "plan movies|tvshows <source-dir>",
		Short: "Walk a source tree and build a plan against the configured library",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kindArg := strings.ToLower(args[0])
			source := args[1]

			kind, err := parseKindArg(kindArg)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("allow-medium") {
				cfg.Matching.AllowMediumConfidence = allowMedium
			}

			target := libraryRoot(cfg, kind)
			log := ctx.log()

			files, err := pipeline.Walk(source, time.Now())
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "cli", "walk", source, err)
			}
			log.Info("walked source tree", "source", source, "files", len(files))

			tmdbClient, err := ctx.tmdbClient(cfg)
			if err != nil {
				return err
			}
			ai := ctx.ollamaClient(cfg)
			prober := ctx.prober(cfg)

			resolver := pipeline.NewResolver(kind, target, tmdbClient, prober, ai, cfg.Matching.AllowMediumConfidence)

			bar := newProgressBar(log, fmt.Sprintf("resolving %d files", len(files)), int64(len(files)))
			resolutions := make([]planner.FileResolution, 0, len(files))
			now := time.Now()
			for _, file := range files {
				resolution, err := resolver.Resolve(cmd.Context(), file, now)
				if err != nil {
					return services.Wrap(services.ErrExternalTool, "cli", "resolve", file.Path, err)
				}
				resolutions = append(resolutions, resolution)
				bar.increment(1)
			}
			bar.done()

			pipeline.AttachSubtitles(resolutions)

			if kind == media.KindTVShow {
				resolutions = append(resolutions, pipeline.ShowNFOResolutions(target, resolutions)...)
			}

			plan, err := planner.New(nil, nil).Build(kind, source, target, resolutions)
			if err != nil {
				return services.Wrap(services.ErrConflict, "cli", "build_plan", "", err)
			}

			sess, err := session.New(cfg, plan)
			if err != nil {
				return err
			}
			log.Info("plan built", "session", sess.ID(), "plan_id", plan.ID)

			summary := plan.Summarize()
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"session", "total", "ready", "sample", "unknown"},
				[][]string{{
					sess.ID(),
					humanize.Comma(int64(summary.Total)),
					humanize.Comma(int64(summary.Ready)),
					humanize.Comma(int64(summary.Sample)),
					humanize.Comma(int64(summary.Unknown)),
				}},
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
			))

			if summary.Unknown > 0 {
				return partialSuccess(fmt.Sprintf("%d file(s) could not be matched; see session %s", summary.Unknown, sess.ID()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowMedium, "allow-medium", false, "Accept medium-confidence matches without prompting")
	return cmd
}

func parseKindArg(v string) (media.Kind, error) {
	switch v {
	case "movies", "movie":
		return media.KindMovie, nil
	case "tvshows", "tvshow", "tv":
		return media.KindTVShow, nil
	default:
		return "", services.Wrap(services.ErrValidation, "cli", "parse_kind", "expected \"movies\" or \"tvshows\", got "+v, nil)
	}
}
