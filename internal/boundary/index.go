// Package boundary builds and queries the authoritative county polygon
// index. The index is expensive to construct (remote fetch + parse),
// so construction happens at most once per process run behind Loader.
package boundary

import (
	"context"
	"sync"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// CountyShape is one county polygon keyed by FIPS code.
type CountyShape struct {
	FIPS string
	Name string
	Geom *geom.MultiPolygon
}

// Source produces county shapes for the state, already filtered to the
// Indiana FIPS prefix and keyed to canonical county names.
type Source interface {
	Load(ctx context.Context) ([]CountyShape, error)
}

// Index is the immutable containment index over county polygons.
type Index struct {
	shapes []CountyShape
}

// NewIndex builds an index from shapes. Shapes with nil geometry are
// dropped.
func NewIndex(shapes []CountyShape) *Index {
	kept := make([]CountyShape, 0, len(shapes))
	for _, s := range shapes {
		if s.Geom != nil {
			kept = append(kept, s)
		}
	}
	return &Index{shapes: kept}
}

// Len returns the number of indexed county polygons.
func (x *Index) Len() int { return len(x.shapes) }

// Locate returns the name of the county containing the point, or
// ok=false when no polygon contains it.
func (x *Index) Locate(lat, lon float64) (string, bool) {
	c := geom.Coord{lon, lat}
	for _, s := range x.shapes {
		if multiPolygonContains(s.Geom, c) {
			return s.Name, true
		}
	}
	return "", false
}

// multiPolygonContains tests point-in-polygon across all member
// polygons: inside the shell and outside every hole.
func multiPolygonContains(mp *geom.MultiPolygon, c geom.Coord) bool {
	for i := 0; i < mp.NumPolygons(); i++ {
		p := mp.Polygon(i)
		if p.NumLinearRings() == 0 {
			continue
		}
		if !xy.IsPointInRing(p.Layout(), c, p.LinearRing(0).FlatCoords()) {
			continue
		}
		inHole := false
		for r := 1; r < p.NumLinearRings(); r++ {
			if xy.IsPointInRing(p.Layout(), c, p.LinearRing(r).FlatCoords()) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// Loader gates index construction: exactly one build per process run,
// shared by all callers, including concurrent ones. A failed build is
// remembered and not retried within the run.
type Loader struct {
	source Source

	once sync.Once
	idx  *Index
	err  error
}

// NewLoader wraps a source with the build-once guard.
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Index returns the cached index, building it on first call.
func (l *Loader) Index(ctx context.Context) (*Index, error) {
	l.once.Do(func() {
		log := zap.L().With(zap.String("component", "boundary.loader"))
		log.Info("building county boundary index")

		shapes, err := l.source.Load(ctx)
		if err != nil {
			l.err = err
			log.Warn("county boundary index unavailable", zap.Error(err))
			return
		}

		l.idx = NewIndex(shapes)
		log.Info("county boundary index ready", zap.Int("counties", l.idx.Len()))
	})
	return l.idx, l.err
}
