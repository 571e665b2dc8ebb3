package resolve

import (
	"context"

	"github.com/hoosiergeo/ingcs-cli/internal/boundary"
	"github.com/hoosiergeo/ingcs-cli/internal/county"
)

// BoundaryStrategy is the authoritative fallback path: polygon
// containment against the lazily-built boundary index. The loader's
// build-once guard keeps a failed fetch from being retried per point.
type BoundaryStrategy struct {
	loader *boundary.Loader
}

// NewBoundaryStrategy wraps a boundary loader.
func NewBoundaryStrategy(loader *boundary.Loader) *BoundaryStrategy {
	return &BoundaryStrategy{loader: loader}
}

// Name implements Strategy.
func (s *BoundaryStrategy) Name() string { return "boundary" }

// Resolve implements Strategy. An index build failure surfaces as an
// error, which the resolver degrades to Unknown.
func (s *BoundaryStrategy) Resolve(ctx context.Context, lat, lon float64) (string, bool, error) {
	idx, err := s.loader.Index(ctx)
	if err != nil {
		return "", false, err
	}

	name, ok := idx.Locate(lat, lon)
	if !ok || name == county.Unknown {
		return "", false, nil
	}
	return name, true, nil
}
