// Package transform reprojects cleaned WGS84 batches into Indiana
// State Plane and county-specific coordinates, producing an ordered
// dynamic-column table.
package transform

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hoosiergeo/ingcs-cli/internal/county"
	"github.com/hoosiergeo/ingcs-cli/internal/crs"
	"github.com/hoosiergeo/ingcs-cli/internal/input"
)

// ErrNoValidCoordinates is returned when a batch has no usable rows
// after cleaning. Callers produce no output in that case.
var ErrNoValidCoordinates = eris.New("transform: no valid coordinates in batch")

// DefaultCounty is the target when no explicit county is given.
const DefaultCounty = "MARION"

// Resolver assigns a canonical county name (or county.Unknown) to a
// point. Satisfied by *resolve.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, lat, lon float64) string
}

// Options select the target county and whether to annotate each row
// with its detected county.
type Options struct {
	// County is the explicit target; empty means DefaultCounty. Any
	// display variant is accepted.
	County string
	// AutoDetect adds a Detected_County column. Detection is per-row
	// and informational; it never changes the batch target CRS.
	AutoDetect bool
}

// Engine reprojects batches. All rows in a batch share one target
// county and therefore one zone CRS.
type Engine struct {
	registry *county.Registry
	reproj   crs.Reprojector
	resolver Resolver
	log      *zap.Logger
}

// New builds an engine. resolver may be nil when auto-detection is
// never requested.
func New(registry *county.Registry, reproj crs.Reprojector, resolver Resolver) *Engine {
	return &Engine{
		registry: registry,
		reproj:   reproj,
		resolver: resolver,
		log:      zap.L().With(zap.String("component", "transform.engine")),
	}
}

// Transform reprojects rows per opts. Projected values are rounded to
// 2 decimals, lat/lon echoes to 6. A per-row reprojection failure
// leaves that row's projected cells empty; only an empty batch is an
// error.
func (e *Engine) Transform(ctx context.Context, rows []input.Point, opts Options) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrNoValidCoordinates
	}

	target := DefaultCounty
	if opts.County != "" {
		target = county.Normalize(opts.County)
	}

	zone := county.ZoneFor(target)
	zoneEPSG := zone.EPSG()

	countyEPSG := 0
	if c, ok := e.registry.Lookup(target); ok && c.EPSGCode != 0 {
		if e.supports(c.EPSGCode) {
			countyEPSG = c.EPSGCode
		} else {
			e.log.Warn("county CRS not resolvable, omitting county columns",
				zap.String("county", target),
				zap.Int("epsg", c.EPSGCode),
			)
		}
	} else {
		e.log.Warn("no county CRS registered, omitting county columns",
			zap.String("county", target))
	}

	cols := []string{"ID", "Latitude_WGS84", "Longitude_WGS84"}
	if opts.AutoDetect {
		cols = append(cols, "Detected_County")
	}
	cols = append(cols,
		"Easting_Indiana_"+zone.String()+"_ft",
		"Northing_Indiana_"+zone.String()+"_ft",
		"State_Plane_Zone",
		"State_Plane_EPSG",
	)
	if countyEPSG != 0 {
		label := county.DisplayName(target)
		cols = append(cols,
			"Easting_"+label+"_ft",
			"Northing_"+label+"_ft",
			"County_EPSG",
		)
	}
	table := NewTable(cols...)

	zoneName := zone.String()
	zoneCode := strconv.Itoa(zoneEPSG)

	for _, row := range rows {
		cells := []string{
			row.ID,
			strconv.FormatFloat(row.Lat, 'f', 6, 64),
			strconv.FormatFloat(row.Lon, 'f', 6, 64),
		}

		if opts.AutoDetect {
			cells = append(cells, e.detect(ctx, row))
		}

		if pt, ok := e.project(zoneEPSG, row); ok {
			cells = append(cells,
				strconv.FormatFloat(pt.X, 'f', 2, 64),
				strconv.FormatFloat(pt.Y, 'f', 2, 64),
				zoneName,
				zoneCode,
			)
		} else {
			cells = append(cells, "", "", zoneName, zoneCode)
		}

		if countyEPSG != 0 {
			if pt, ok := e.project(countyEPSG, row); ok {
				cells = append(cells,
					strconv.FormatFloat(pt.X, 'f', 2, 64),
					strconv.FormatFloat(pt.Y, 'f', 2, 64),
					strconv.Itoa(countyEPSG),
				)
			} else {
				cells = append(cells, "", "", strconv.Itoa(countyEPSG))
			}
		}

		table.Append(cells)
	}

	e.log.Info("batch transformed",
		zap.Int("rows", len(rows)),
		zap.String("target_county", target),
		zap.String("zone", zoneName),
		zap.Int("county_epsg", countyEPSG),
	)
	return table, nil
}

// detect resolves one row's county for the Detected_County column.
func (e *Engine) detect(ctx context.Context, row input.Point) string {
	if e.resolver == nil {
		return "Unknown"
	}
	name := e.resolver.Resolve(ctx, row.Lat, row.Lon)
	if name == county.Unknown {
		return "Unknown"
	}
	return county.DisplayName(name)
}

// project reprojects one row to dstEPSG. Failures are logged and
// reported as ok=false so the row keeps empty projected cells.
func (e *Engine) project(dstEPSG int, row input.Point) (crs.Point, bool) {
	out, err := e.reproj.Reproject(crs.WGS84, dstEPSG, []crs.Point{{X: row.Lon, Y: row.Lat}})
	if err != nil {
		e.log.Warn("row reprojection failed",
			zap.String("id", row.ID),
			zap.Int("epsg", dstEPSG),
			zap.Error(err),
		)
		return crs.Point{}, false
	}
	return out[0], true
}

// supports probes whether the reprojector can build a transform into
// epsg, without projecting any points.
func (e *Engine) supports(epsg int) bool {
	_, err := e.reproj.Reproject(crs.WGS84, epsg, nil)
	return err == nil
}
