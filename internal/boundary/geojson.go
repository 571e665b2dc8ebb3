package boundary

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/hoosiergeo/ingcs-cli/internal/county"
)

// DefaultGeoJSONURL is a national county GeoJSON dataset with FIPS
// properties, usable without shapefile tooling.
const DefaultGeoJSONURL = "https://raw.githubusercontent.com/plotly/datasets/master/geojson-counties-fips.json"

// GeoJSONSource loads county polygons from a national GeoJSON feature
// collection, filtered to the Indiana state FIPS prefix.
type GeoJSONSource struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// Load fetches and decodes the feature collection.
func (s *GeoJSONSource) Load(ctx context.Context) ([]CountyShape, error) {
	url := s.URL
	if url == "" {
		url = DefaultGeoJSONURL
	}

	data, err := fetch(ctx, s.Client, url, s.Timeout)
	if err != nil {
		return nil, err
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "boundary: decode geojson")
	}

	var shapes []CountyShape
	var skipped int
	for _, f := range fc.Features {
		fips := featureFIPS(f)
		if !strings.HasPrefix(fips, county.StateFIPS) {
			continue
		}

		mp := toMultiPolygon(f.Geometry)
		if mp == nil {
			skipped++
			continue
		}

		shapes = append(shapes, CountyShape{
			FIPS: fips,
			Name: county.NameForFIPS(fips),
			Geom: mp,
		})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped geojson features", zap.Int("skipped", skipped))
	}
	if len(shapes) == 0 {
		return nil, eris.New("boundary: no Indiana counties found in geojson")
	}
	return shapes, nil
}

// featureFIPS extracts the 5-digit county FIPS from feature
// properties: either a GEO_ID like "0500000US18097" or STATE+COUNTY.
func featureFIPS(f *geojson.Feature) string {
	props := f.Properties

	if geoID, ok := props["GEO_ID"].(string); ok {
		if _, after, found := strings.Cut(geoID, "US"); found {
			return after
		}
	}

	state, _ := props["STATE"].(string)
	cty, _ := props["COUNTY"].(string)
	if state != "" && cty != "" {
		return state + cty
	}
	if f.ID != "" {
		return f.ID
	}
	return ""
}

// toMultiPolygon normalizes a GeoJSON geometry to a MultiPolygon.
func toMultiPolygon(g geom.T) *geom.MultiPolygon {
	switch t := g.(type) {
	case *geom.MultiPolygon:
		return t
	case *geom.Polygon:
		mp := geom.NewMultiPolygon(t.Layout()).SetSRID(t.SRID())
		if err := mp.Push(t); err != nil {
			return nil
		}
		return mp
	default:
		return nil
	}
}
