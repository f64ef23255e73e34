package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"organizer/internal/index"
	"organizer/internal/media"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var kindFlag, titleFlag, actorFlag, directorFlag, genreFlag, countryFlag string
	var yearMin, yearMax int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the central index by title, person, genre, country, or year range",
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

			q := index.Query{
				Kind:      media.Kind(kindFlag),
				TitleLike: titleFlag,
				Actor:     actorFlag,
				Director:  directorFlag,
				Genre:     genreFlag,
				Country:   countryFlag,
				YearMin:   yearMin,
				YearMax:   yearMax,
			}
			results := index.Search(central, q)
			fmt.Fprintln(cmd.OutOrStdout(), renderEntryTable(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "Restrict to \"movie\" or \"tvshow\"")
	cmd.Flags().StringVar(&titleFlag, "title", "", "Substring match against title or original title")
	cmd.Flags().StringVar(&actorFlag, "actor", "", "Cast member name")
	cmd.Flags().StringVar(&directorFlag, "director", "", "Director name")
	cmd.Flags().StringVar(&genreFlag, "genre", "", "Genre name")
	cmd.Flags().StringVar(&countryFlag, "country", "", "Production country")
	cmd.Flags().IntVar(&yearMin, "year-min", 0, "Minimum release year (inclusive)")
	cmd.Flags().IntVar(&yearMax, "year-max", 0, "Maximum release year (inclusive)")
	return cmd
}
