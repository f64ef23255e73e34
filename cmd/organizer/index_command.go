package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"organizer/internal/index"
	"organizer/internal/media"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect and maintain the cross-disk central index",
	}
	cmd.AddCommand(newIndexScanCommand(ctx))
	cmd.AddCommand(newIndexStatsCommand(ctx))
	cmd.AddCommand(newIndexListCommand(ctx))
	cmd.AddCommand(newIndexVerifyCommand(ctx))
	cmd.AddCommand(newIndexRemoveCommand(ctx))
	cmd.AddCommand(newIndexDuplicatesCommand(ctx))
	cmd.AddCommand(newIndexCollectionsCommand(ctx))
	return cmd
}

func newIndexScanCommand(ctx *commandContext) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "scan <label> <root>",
		Short: "Scan a disk's organized tree and refresh its per-disk index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label, root := args[0], args[1]

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := index.NewStore(cfg)

			previous, err := store.LoadDisk(label)
			if err != nil {
				return err
			}

			disk, err := index.Scan(label, root, previous, force)
			if err != nil {
				return err
			}
			if err := store.SaveDisk(disk); err != nil {
				return err
			}
			if _, err := store.Rebuild(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "scanned %s: %d entries\n", label, len(disk.Entries))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Re-parse every NFO even if unchanged since the last scan")
	return cmd
}

func newIndexStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate counts across the central index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			central, err := index.NewStore(cfg).LoadCentral()
			if err != nil {
				return err
			}
			if central == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no central index yet; run `organizer index scan` first")
				return nil
			}

			movies, shows := 0, 0
			for _, e := range central.Entries {
				switch e.Kind {
				case media.KindMovie:
					movies++
				case media.KindTVShow:
					shows++
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"disks", "movies", "tv shows", "updated"},
				[][]string{{
					strconv.Itoa(len(central.Disks)),
					humanize.Comma(int64(movies)),
					humanize.Comma(int64(shows)),
					humanize.Time(central.UpdatedAt),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newIndexListCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every entry in the central index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			central, err := index.NewStore(cfg).LoadCentral()
			if err != nil {
				return err
			}
			entries := filterByKind(central, kindFlag)
			fmt.Fprintln(cmd.OutOrStdout(), renderEntryTable(entries))
			return nil
		},
	}
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Restrict to \"movie\" or \"tvshow\"")
	return cmd
}

func newIndexVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [label]",
		Short: "Mark entries online/offline by checking whether their disk root is mounted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := index.NewStore(cfg)
			central, err := store.LoadCentral()
			if err != nil {
				return err
			}
			if central == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no central index yet")
				return nil
			}

			labels := central.Disks
			if len(args) == 1 {
				labels = []string{args[0]}
			}

			for _, label := range labels {
				disk, err := store.LoadDisk(label)
				if err != nil {
					return err
				}
				if disk == nil {
					continue
				}
				_, statErr := os.Stat(disk.Root)
				index.SetOnline(central, label, statErr == nil)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: online=%v\n", label, statErr == nil)
			}

			return store.SaveCentral(*central)
		},
	}
}

func newIndexRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <label>",
		Short: "Remove a disk's index and rebuild the central index without it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := index.NewStore(cfg)
			if err := store.RemoveDisk(args[0]); err != nil {
				return err
			}
			if _, err := store.Rebuild(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

func newIndexDuplicatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates",
		Short: "List titles organized onto more than one disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			central, err := index.NewStore(cfg).LoadCentral()
			if err != nil {
				return err
			}
			groups := index.Duplicates(central)

			keys := make([]index.Key, 0, len(groups))
			for k := range groups {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool {
				if keys[i].Kind != keys[j].Kind {
					return keys[i].Kind < keys[j].Kind
				}
				return keys[i].TMDBID < keys[j].TMDBID
			})

			var rows [][]string
			for _, k := range keys {
				var disks []string
				for _, e := range groups[k] {
					disks = append(disks, e.DiskLabel)
				}
				rows = append(rows, []string{string(k.Kind), strconv.FormatInt(k.TMDBID, 10), groups[k][0].Title, fmt.Sprint(disks)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"kind", "tmdb_id", "title", "disks"}, rows, nil))
			return nil
		},
	}
}

func newIndexCollectionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "Show collection roll-ups: owned members vs known total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			central, err := index.NewStore(cfg).LoadCentral()
			if err != nil {
				return err
			}
			rollups := index.Rollups(central)

			var rows [][]string
			for _, r := range rollups {
				total := "unknown"
				if r.Total > 0 {
					total = strconv.Itoa(r.Total)
				}
				rows = append(rows, []string{r.Name, strconv.Itoa(r.OwnedCount), total, fmt.Sprint(r.Complete)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"collection", "owned", "total", "complete"}, rows, []columnAlignment{alignLeft, alignRight, alignRight, alignLeft}))
			return nil
		},
	}
}

func filterByKind(central *index.Central, kindFlag string) []index.Entry {
	if central == nil {
		return nil
	}
	if kindFlag == "" {
		return central.Entries
	}
	kind := media.Kind(kindFlag)
	var out []index.Entry
	for _, e := range central.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func renderEntryTable(entries []index.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := "offline"
		if e.Online {
			status = "online"
		}
		rows = append(rows, []string{string(e.Kind), e.Title, strconv.Itoa(e.Year), e.DiskLabel, status})
	}
	return renderTable([]string{"kind", "title", "year", "disk", "status"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft})
}
