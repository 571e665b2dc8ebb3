package crs

import (
	"sync"

	"github.com/ctessum/geom/proj"
	"github.com/rotisserie/eris"
)

// Point is an (X, Y) pair in some CRS. For WGS84, X is longitude and Y
// is latitude.
type Point struct {
	X float64
	Y float64
}

// Reprojector converts points between two EPSG-identified systems. It
// is the trusted projection primitive; implementations never mutate
// their inputs.
type Reprojector interface {
	Reproject(srcEPSG, dstEPSG int, pts []Point) ([]Point, error)
}

// ProjReprojector implements Reprojector on ctessum/geom/proj,
// resolving EPSG codes through a Catalog and memoizing parsed
// transformer pairs. Safe for concurrent use.
type ProjReprojector struct {
	catalog *Catalog

	mu         sync.Mutex
	refs       map[int]*proj.SR
	transforms map[[2]int]proj.Transformer
}

// NewProjReprojector builds a reprojector over the given catalog.
func NewProjReprojector(catalog *Catalog) *ProjReprojector {
	return &ProjReprojector{
		catalog:    catalog,
		refs:       make(map[int]*proj.SR),
		transforms: make(map[[2]int]proj.Transformer),
	}
}

// Reproject converts pts from srcEPSG to dstEPSG. Returns a new slice;
// a per-point transform failure surfaces as an error for that call,
// never a panic.
func (p *ProjReprojector) Reproject(srcEPSG, dstEPSG int, pts []Point) ([]Point, error) {
	t, err := p.transformer(srcEPSG, dstEPSG)
	if err != nil {
		return nil, err
	}

	out := make([]Point, len(pts))
	for i, pt := range pts {
		x, y, err := t(pt.X, pt.Y)
		if err != nil {
			return nil, eris.Wrapf(err, "crs: transform point %d (EPSG %d -> %d)", i, srcEPSG, dstEPSG)
		}
		out[i] = Point{X: x, Y: y}
	}
	return out, nil
}

func (p *ProjReprojector) transformer(srcEPSG, dstEPSG int) (proj.Transformer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := [2]int{srcEPSG, dstEPSG}
	if t, ok := p.transforms[key]; ok {
		return t, nil
	}

	src, err := p.refLocked(srcEPSG)
	if err != nil {
		return nil, err
	}
	dst, err := p.refLocked(dstEPSG)
	if err != nil {
		return nil, err
	}

	t, err := src.NewTransform(dst)
	if err != nil {
		return nil, eris.Wrapf(err, "crs: build transform EPSG %d -> %d", srcEPSG, dstEPSG)
	}
	p.transforms[key] = t
	return t, nil
}

func (p *ProjReprojector) refLocked(epsg int) (*proj.SR, error) {
	if sr, ok := p.refs[epsg]; ok {
		return sr, nil
	}

	def, ok := p.catalog.Definition(epsg)
	if !ok {
		return nil, eris.Wrapf(ErrUnknownCRS, "EPSG %d", epsg)
	}

	sr, err := proj.Parse(def)
	if err != nil {
		return nil, eris.Wrapf(err, "crs: parse proj4 definition for EPSG %d", epsg)
	}
	p.refs[epsg] = sr
	return sr, nil
}
