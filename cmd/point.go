package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hoosiergeo/ingcs-cli/internal/input"
	"github.com/hoosiergeo/ingcs-cli/internal/transform"
)

var (
	pointCounty     string
	pointAutoDetect bool
	pointID         string
)

var pointCmd = &cobra.Command{
	Use:   "point <lat> <lon>",
	Short: "Transform a single WGS84 coordinate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("point"); err != nil {
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

		engine, _, err := newEngine(ctx, pointAutoDetect)
		if err != nil {
			return err
		}

		rows := []input.Point{{ID: pointID, Lat: lat, Lon: lon}}
		result, err := engine.Transform(ctx, rows, transform.Options{
			County:     pointCounty,
			AutoDetect: pointAutoDetect,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for i, col := range result.Columns {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", col, result.Rows[0][i])
		}
		return w.Flush()
	},
}

func init() {
	pointCmd.Flags().StringVar(&pointCounty, "county", "", "target county (default Marion)")
	pointCmd.Flags().BoolVar(&pointAutoDetect, "auto-detect", false, "detect the county the point falls in")
	pointCmd.Flags().StringVar(&pointID, "id", "Point1", "point identifier")
	rootCmd.AddCommand(pointCmd)
}
