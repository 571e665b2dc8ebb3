// Package county holds the Indiana county registry: canonical names,
// State Plane zone membership, InGCS EPSG codes, and the FIPS table
// used to key boundary lookups.
package county

import (
	_ "embed"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unknown is the resolution result for a point that could not be
// assigned to any county.
const Unknown = "UNKNOWN"

//go:embed default_registry.csv
var defaultRegistryCSV []byte

// aliases maps known multi-word display variants to canonical names.
// Matching is exact after normalization; this table only covers the
// display forms that normalization alone cannot produce.
var aliases = map[string]string{
	"LA_PORTE":     "LA_PORTE",
	"ST_JOSEPH":    "ST_JOSEPH",
	"SAINT_JOSEPH": "ST_JOSEPH",
	"LAPORTE":      "LA_PORTE",
}

// County is one registry entry. EPSGCode 0 means no county-specific
// CRS is registered; callers omit county columns in that case.
type County struct {
	Name     string
	EPSGCode int
	Verified bool
	FIPS     string
}

// Registry is the immutable county table, built once per process.
type Registry struct {
	counties map[string]County
	order    []string

	// FromFallback is true when the external source could not be read
	// and the embedded defaults were used instead.
	FromFallback bool
}

// Normalize maps a county name to its canonical registry key:
// uppercase, spaces and hyphens collapsed to underscores, then alias
// resolution. No fuzzy matching.
func Normalize(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, " ", "_")
	n = strings.ReplaceAll(n, "-", "_")
	n = strings.Replace(n, "ST._", "ST_", 1)
	if canonical, ok := aliases[n]; ok {
		return canonical
	}
	return n
}

var titler = cases.Title(language.AmericanEnglish)

// DisplayName converts a canonical name to its display form
// (underscores restored to spaces, title case).
func DisplayName(canonical string) string {
	return titler.String(strings.ToLower(strings.ReplaceAll(canonical, "_", " ")))
}

// LoadRegistry reads the county CRS table from path. A missing or
// malformed file is non-fatal: the embedded defaults are loaded
// instead and the registry is flagged as FromFallback.
func LoadRegistry(path string) (*Registry, error) {
	log := zap.L().With(zap.String("component", "county.registry"))

	if path != "" {
		f, err := os.Open(path)
		if err == nil {
			defer func() { _ = f.Close() }()
			reg, parseErr := parseRegistry(f)
			if parseErr == nil {
				log.Info("county registry loaded", zap.String("path", path), zap.Int("counties", reg.Len()))
				return reg, nil
			}
			log.Warn("county registry file malformed, using embedded defaults",
				zap.String("path", path), zap.Error(parseErr))
		} else {
			log.Warn("county registry file not found, using embedded defaults",
				zap.String("path", path))
		}
	}

	reg, err := parseRegistry(strings.NewReader(string(defaultRegistryCSV)))
	if err != nil {
		// The embedded table is compiled in; failing to parse it is a bug.
		return nil, eris.Wrap(err, "county: parse embedded default registry")
	}
	reg.FromFallback = true
	return reg, nil
}

// parseRegistry reads a County,EPSG_Code,Verified CSV.
func parseRegistry(r io.Reader) (*Registry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "county: read registry header")
	}
	idx := columnIndex(header)
	if idx.county < 0 || idx.epsg < 0 {
		return nil, eris.New("county: registry missing County or EPSG_Code column")
	}

	reg := &Registry{counties: make(map[string]County, 92)}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "county: read registry row")
		}
		if len(rec) <= idx.county || len(rec) <= idx.epsg {
			continue
		}

		name := Normalize(rec[idx.county])
		if name == "" {
			continue
		}

		code, err := strconv.Atoi(strings.TrimSpace(rec[idx.epsg]))
		if err != nil {
			return nil, eris.Wrapf(err, "county: bad EPSG code for %s", name)
		}

		verified := false
		if idx.verified >= 0 && len(rec) > idx.verified {
			verified = strings.EqualFold(strings.TrimSpace(rec[idx.verified]), "yes")
		}

		c := County{Name: name, EPSGCode: code, Verified: verified, FIPS: fipsByName[name]}
		if _, dup := reg.counties[name]; !dup {
			reg.order = append(reg.order, name)
		}
		reg.counties[name] = c
	}

	if len(reg.counties) == 0 {
		return nil, eris.New("county: registry has no rows")
	}
	return reg, nil
}

type registryColumns struct {
	county, epsg, verified int
}

func columnIndex(header []string) registryColumns {
	idx := registryColumns{county: -1, epsg: -1, verified: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "county":
			idx.county = i
		case "epsg_code", "epsgcode", "epsg":
			idx.epsg = i
		case "verified":
			idx.verified = i
		}
	}
	return idx
}

// Lookup returns the entry for name (any display variant) or ok=false.
func (r *Registry) Lookup(name string) (County, bool) {
	c, ok := r.counties[Normalize(name)]
	return c, ok
}

// Names returns canonical county names in table order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered counties.
func (r *Registry) Len() int { return len(r.counties) }

// VerificationRatio reports how many entries carry a verified CRS
// code. Informational only; never gates a transform.
func (r *Registry) VerificationRatio() (verified, total int) {
	for _, c := range r.counties {
		if c.Verified {
			verified++
		}
	}
	return verified, len(r.counties)
}
