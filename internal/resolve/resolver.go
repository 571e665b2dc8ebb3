// Package resolve determines which Indiana county a coordinate falls
// in. Resolution is an ordered strategy chain: each strategy either
// answers definitively or passes the point along; when no strategy
// matches, the result is county.Unknown, never an error.
package resolve

import (
	"context"

	"go.uber.org/zap"

	"github.com/hoosiergeo/ingcs-cli/internal/county"
)

// Strategy is one county-resolution tier. A false ok with nil error
// means "no match, try the next tier"; an error means the tier itself
// degraded (e.g. a boundary fetch failed) and is also non-fatal.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, lat, lon float64) (name string, ok bool, err error)
}

// Resolver tries strategies in declaration order.
type Resolver struct {
	strategies []Strategy
}

// New builds a resolver over the given strategies, tried in order.
func New(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Resolve returns the canonical county name for the point, or
// county.Unknown. Strategy failures are logged and never propagate.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) string {
	for _, s := range r.strategies {
		name, ok, err := s.Resolve(ctx, lat, lon)
		if err != nil {
			zap.L().Warn("county resolution strategy failed",
				zap.String("strategy", s.Name()),
				zap.Float64("lat", lat),
				zap.Float64("lon", lon),
				zap.Error(err),
			)
			continue
		}
		if ok {
			return county.Normalize(name)
		}
	}
	return county.Unknown
}
