package boundary

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/hoosiergeo/ingcs-cli/internal/county"
)

// DefaultTigerURL is the Census TIGER/Line national county shapefile.
const DefaultTigerURL = "https://www2.census.gov/geo/tiger/TIGER2024/COUNTY/tl_2024_us_county.zip"

// TigerSource loads county polygons from the Census TIGER/Line county
// shapefile, filtered to the Indiana state FIPS prefix.
type TigerSource struct {
	URL      string
	CacheDir string
	Client   *http.Client
	Timeout  time.Duration
}

// Load downloads (or reuses) the shapefile ZIP, extracts it, and
// parses Indiana county polygons.
func (s *TigerSource) Load(ctx context.Context) ([]CountyShape, error) {
	url := s.URL
	if url == "" {
		url = DefaultTigerURL
	}

	if err := os.MkdirAll(s.CacheDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "boundary: create cache dir")
	}

	parts := strings.Split(url, "/")
	zipName := parts[len(parts)-1]
	zipPath := filepath.Join(s.CacheDir, zipName)

	if err := fetchToFile(ctx, s.Client, url, zipPath, s.Timeout); err != nil {
		return nil, err
	}

	extractDir := filepath.Join(s.CacheDir, strings.TrimSuffix(zipName, ".zip"))
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "boundary: create extract dir")
	}
	if err := extractZIP(zipPath, extractDir); err != nil {
		return nil, err
	}

	shpPath, err := findFileByExt(extractDir, ".shp")
	if err != nil {
		return nil, err
	}

	return parseCountyShapefile(shpPath)
}

// parseCountyShapefile reads a TIGER county shapefile and returns the
// Indiana county shapes.
func parseCountyShapefile(shpPath string) ([]CountyShape, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	stateIdx := fieldIndex(reader, "STATEFP")
	geoidIdx := fieldIndex(reader, "GEOID")
	if stateIdx < 0 || geoidIdx < 0 {
		return nil, eris.New("boundary: required shapefile fields (STATEFP, GEOID) not found")
	}

	var shapes []CountyShape
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		statefp := strings.TrimSpace(reader.Attribute(stateIdx))
		if statefp != county.StateFIPS {
			continue
		}

		geoid := strings.TrimSpace(reader.Attribute(geoidIdx))
		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			skipped++
			continue
		}

		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		shapes = append(shapes, CountyShape{
			FIPS: geoid,
			Name: county.NameForFIPS(geoid),
			Geom: mp,
		})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records", zap.Int("skipped", skipped))
	}
	if len(shapes) == 0 {
		return nil, eris.New("boundary: no Indiana counties found in shapefile")
	}
	return shapes, nil
}

// polygonToMultiPolygon converts a shapefile Polygon to a go-geom
// MultiPolygon, one member polygon per part.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// extractZIP extracts a ZIP archive to the destination directory.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "boundary: open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		destPath := filepath.Join(destDir, filepath.Base(f.Name))

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "boundary: open zip entry %s", f.Name)
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return eris.Wrapf(err, "boundary: create %s", destPath)
		}

		if _, err := io.Copy(outFile, rc); err != nil {
			_ = outFile.Close()
			_ = rc.Close()
			return eris.Wrapf(err, "boundary: extract %s", f.Name)
		}
		_ = outFile.Close()
		_ = rc.Close()
	}

	return nil
}

// findFileByExt finds the first file with the given extension in a directory.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "boundary: read directory")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("boundary: no %s file found in %s", ext, dir)
}

// fieldIndex returns the index of a named field in the shapefile, or -1.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}
