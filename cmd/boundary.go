package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hoosiergeo/ingcs-cli/internal/boundary"
	"github.com/hoosiergeo/ingcs-cli/internal/county"
)

var boundaryCmd = &cobra.Command{
	Use:   "boundary",
	Short: "Inspect and prefetch county boundary data",
}

// -- boundary prefetch --

var boundaryPrefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Download and index boundary data ahead of time",
	Long: `Fetches the configured boundary dataset, builds the containment index,
and reports coverage. Both sources are fetched concurrently when --all
is set, warming the cache for offline use.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("boundary"); err != nil {
			return err
		}

		all, _ := cmd.Flags().GetBool("all")

		sources := map[string]boundary.Source{cfg.Boundary.Source: boundarySource()}
		if all {
			sources = allSources()
		}

		g, gctx := errgroup.WithContext(ctx)
		for name, src := range sources {
			g.Go(func() error {
				idx, err := boundary.NewLoader(src).Index(gctx)
				if err != nil {
					return err
				}
				zap.L().Info("boundary index built",
					zap.String("source", name),
					zap.Int("counties", idx.Len()),
				)
				fmt.Printf("%s: %d counties indexed\n", name, idx.Len())
				return nil
			})
		}
		return g.Wait()
	},
}

// allSources builds both boundary sources from config.
func allSources() map[string]boundary.Source {
	saved := cfg.Boundary.Source

	cfg.Boundary.Source = "tiger"
	tiger := boundarySource()
	cfg.Boundary.Source = "geojson"
	geojson := boundarySource()
	cfg.Boundary.Source = saved

	return map[string]boundary.Source{"tiger": tiger, "geojson": geojson}
}

// -- boundary locate --

var boundaryLocateCmd = &cobra.Command{
	Use:   "locate <lat> <lon>",
	Short: "Report which county a point falls in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("boundary"); err != nil {
			return err
		}

		lat, err := parseCoordArg(args[0], "latitude")
		if err != nil {
			return err
		}
		lon, err := parseCoordArg(args[1], "longitude")
		if err != nil {
			return err
		}

		resolver, err := newResolver(ctx)
		if err != nil {
			return err
		}

		name := resolver.Resolve(ctx, lat, lon)
		if name == county.Unknown {
			fmt.Fprintln(os.Stderr, "No county found for that point.")
			return nil
		}
		fmt.Println(county.DisplayName(name))
		return nil
	},
}

func init() {
	boundaryPrefetchCmd.Flags().Bool("all", false, "prefetch every boundary source, not just the configured one")
	boundaryCmd.AddCommand(boundaryPrefetchCmd)
	boundaryCmd.AddCommand(boundaryLocateCmd)
	rootCmd.AddCommand(boundaryCmd)
}
