// Package crs reprojects coordinates between EPSG-identified reference
// systems using a pure-Go proj4 engine. Selection logic lives
// elsewhere; this package only answers "EPSG A -> EPSG B for (x, y)".
package crs

import (
	_ "embed"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// WGS84 is the geographic source CRS for all inputs.
const WGS84 = 4326

//go:embed proj4_catalog.csv
var defaultCatalogCSV []byte

// ErrUnknownCRS is returned when a requested EPSG code has no proj4
// definition in the catalog. Callers degrade by omitting the affected
// output columns rather than failing the batch.
var ErrUnknownCRS = eris.New("crs: no proj4 definition for EPSG code")

// Catalog maps EPSG codes to proj4 definition strings. Immutable after
// load. The embedded defaults carry the two State Plane zones plus
// zone-shaped placeholder definitions for the unverified county codes;
// a site with survey-grade InGCS definitions overrides via file.
type Catalog struct {
	defs map[int]string
}

// LoadCatalog reads an EPSG,Proj4 CSV from path, falling back to the
// embedded defaults when the file is absent or malformed. Non-fatal,
// same policy as the county registry.
func LoadCatalog(path string) (*Catalog, error) {
	log := zap.L().With(zap.String("component", "crs.catalog"))

	if path != "" {
		f, err := os.Open(path)
		if err == nil {
			defer func() { _ = f.Close() }()
			cat, parseErr := parseCatalog(f)
			if parseErr == nil {
				log.Info("proj4 catalog loaded", zap.String("path", path), zap.Int("definitions", len(cat.defs)))
				return cat, nil
			}
			log.Warn("proj4 catalog malformed, using embedded defaults",
				zap.String("path", path), zap.Error(parseErr))
		}
	}

	cat, err := parseCatalog(strings.NewReader(string(defaultCatalogCSV)))
	if err != nil {
		return nil, eris.Wrap(err, "crs: parse embedded catalog")
	}
	return cat, nil
}

func parseCatalog(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	if _, err := reader.Read(); err != nil { // header
		return nil, eris.Wrap(err, "crs: read catalog header")
	}

	defs := make(map[int]string)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "crs: read catalog row")
		}
		code, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, eris.Wrapf(err, "crs: bad EPSG code %q", rec[0])
		}
		def := strings.TrimSpace(rec[1])
		if def == "" {
			return nil, eris.Errorf("crs: empty proj4 definition for EPSG %d", code)
		}
		defs[code] = def
	}

	if len(defs) == 0 {
		return nil, eris.New("crs: catalog has no definitions")
	}
	return &Catalog{defs: defs}, nil
}

// Definition returns the proj4 string for an EPSG code.
func (c *Catalog) Definition(epsg int) (string, bool) {
	def, ok := c.defs[epsg]
	return def, ok
}

// Has reports whether the catalog can serve the given EPSG code.
func (c *Catalog) Has(epsg int) bool {
	_, ok := c.defs[epsg]
	return ok
}
