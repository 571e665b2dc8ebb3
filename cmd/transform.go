package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hoosiergeo/ingcs-cli/internal/county"
	"github.com/hoosiergeo/ingcs-cli/internal/input"
	"github.com/hoosiergeo/ingcs-cli/internal/store"
	"github.com/hoosiergeo/ingcs-cli/internal/transform"
)

var (
	transformCounty     string
	transformAutoDetect bool
	transformLatCol     string
	transformLonCol     string
	transformIDCol      string
	transformOutput     string
)

var transformCmd = &cobra.Command{
	Use:   "transform <input-file>",
	Short: "Transform a coordinate file to Indiana State Plane and county CRS",
	Long: `Reads a CSV or XLSX file of WGS84 coordinates, detects the latitude,
longitude, and ID columns by name, and writes a CSV with State Plane
and county-specific Easting/Northing columns.

Rows with unparseable coordinates are dropped. With --auto-detect, each
row is annotated with the county it falls in; the target CRS still
comes from --county (default Marion).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("transform"); err != nil {
			return err
		}

		tbl, err := input.ReadTable(args[0])
		if err != nil {
			return err
		}

		cols, err := detectColumns(tbl.Header)
		if err != nil {
			return err
		}

		rows, dropped := input.CleanRows(tbl, cols)

		engine, _, err := newEngine(ctx, transformAutoDetect)
		if err != nil {
			return err
		}

		opts := transform.Options{County: transformCounty, AutoDetect: transformAutoDetect}
		result, err := engine.Transform(ctx, rows, opts)
		if err != nil {
			if eris.Is(err, transform.ErrNoValidCoordinates) {
				return eris.Errorf("transform: %s has no valid coordinate rows (%d dropped)", args[0], dropped)
			}
			return err
		}

		out := os.Stdout
		if transformOutput != "" {
			f, err := os.Create(transformOutput)
			if err != nil {
				return eris.Wrapf(err, "transform: create %s", transformOutput)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}
		if err := result.WriteCSV(out); err != nil {
			return err
		}

		target := county.Normalize(transformCounty)
		if transformCounty == "" {
			target = transform.DefaultCounty
		}
		recordRun(ctx, store.Run{
			InputPath:    args[0],
			TargetCounty: target,
			Zone:         strings.ToUpper(county.ZoneFor(target).String()),
			RowsIn:       len(tbl.Rows),
			RowsKept:     len(rows),
			RowsDropped:  dropped,
			AutoDetect:   transformAutoDetect,
		})

		zap.L().Info("transform complete",
			zap.String("input", args[0]),
			zap.Int("rows", len(rows)),
			zap.Int("dropped", dropped),
		)
		return nil
	},
}

// detectColumns applies the explicit column flags over fuzzy
// detection.
func detectColumns(header []string) (input.Columns, error) {
	overridden := transformLatCol != "" || transformLonCol != "" || transformIDCol != ""

	cols, err := input.DetectColumns(header)
	if err != nil && !overridden {
		return cols, err
	}

	find := func(name string) (int, error) {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i, nil
			}
		}
		return -1, eris.Errorf("transform: column %q not in header", name)
	}

	if transformLatCol != "" {
		if cols.Lat, err = find(transformLatCol); err != nil {
			return cols, err
		}
	}
	if transformLonCol != "" {
		if cols.Lon, err = find(transformLonCol); err != nil {
			return cols, err
		}
	}
	if transformIDCol != "" {
		if cols.ID, err = find(transformIDCol); err != nil {
			return cols, err
		}
	}

	if cols.Lat < 0 || cols.Lon < 0 {
		return cols, eris.New("transform: latitude/longitude columns not found; use --lat-col and --lon-col")
	}
	if cols.ID < 0 {
		cols.ID = 0
	}
	return cols, nil
}

func init() {
	transformCmd.Flags().StringVar(&transformCounty, "county", "", fmt.Sprintf("target county (default %s)", county.DisplayName(transform.DefaultCounty)))
	transformCmd.Flags().BoolVar(&transformAutoDetect, "auto-detect", false, "annotate each row with its detected county")
	transformCmd.Flags().StringVar(&transformLatCol, "lat-col", "", "latitude column name (overrides detection)")
	transformCmd.Flags().StringVar(&transformLonCol, "lon-col", "", "longitude column name (overrides detection)")
	transformCmd.Flags().StringVar(&transformIDCol, "id-col", "", "ID column name (overrides detection)")
	transformCmd.Flags().StringVarP(&transformOutput, "output", "o", "", "output CSV path (default stdout)")
	rootCmd.AddCommand(transformCmd)
}
