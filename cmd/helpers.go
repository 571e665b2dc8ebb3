package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hoosiergeo/ingcs-cli/internal/boundary"
	"github.com/hoosiergeo/ingcs-cli/internal/county"
	"github.com/hoosiergeo/ingcs-cli/internal/crs"
	"github.com/hoosiergeo/ingcs-cli/internal/input"
	"github.com/hoosiergeo/ingcs-cli/internal/resolve"
	"github.com/hoosiergeo/ingcs-cli/internal/store"
	"github.com/hoosiergeo/ingcs-cli/internal/transform"
)

// loadRegistry loads the county CRS table per config, falling back to
// the embedded defaults.
func loadRegistry() (*county.Registry, error) {
	return county.LoadRegistry(cfg.Registry.Path)
}

// newReprojector builds the projection backend over the configured
// EPSG catalog.
func newReprojector() (*crs.ProjReprojector, error) {
	cat, err := crs.LoadCatalog(cfg.CRS.CatalogPath)
	if err != nil {
		return nil, err
	}
	return crs.NewProjReprojector(cat), nil
}

// boundarySource returns the configured county boundary source.
func boundarySource() boundary.Source {
	timeout := time.Duration(cfg.Boundary.TimeoutSecs) * time.Second

	if cfg.Boundary.Source == "geojson" {
		return &boundary.GeoJSONSource{
			URL:     cfg.Boundary.GeoJSONURL,
			Timeout: timeout,
		}
	}
	return &boundary.TigerSource{
		URL:      cfg.Boundary.TigerURL,
		CacheDir: cfg.Boundary.CacheDir,
		Timeout:  timeout,
	}
}

// newResolver assembles the county resolution chain: bounding boxes,
// then PostGIS when configured, then the boundary polygon index.
func newResolver(ctx context.Context) (*resolve.Resolver, error) {
	strategies := []resolve.Strategy{resolve.NewBBoxStrategy(nil)}

	if cfg.Resolver.PostGISURL != "" {
		pool, err := pgxpool.New(ctx, cfg.Resolver.PostGISURL)
		if err != nil {
			return nil, eris.Wrap(err, "connect postgis")
		}
		strategies = append(strategies, resolve.NewPostGISStrategy(pool))
	}

	strategies = append(strategies,
		resolve.NewBoundaryStrategy(boundary.NewLoader(boundarySource())))

	return resolve.New(strategies...), nil
}

// newEngine wires a transform engine. The resolver is only built when
// auto-detection is requested.
func newEngine(ctx context.Context, autoDetect bool) (*transform.Engine, *county.Registry, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, nil, err
	}
	reproj, err := newReprojector()
	if err != nil {
		return nil, nil, err
	}

	var resolver transform.Resolver
	if autoDetect {
		r, err := newResolver(ctx)
		if err != nil {
			return nil, nil, err
		}
		resolver = r
	}

	return transform.New(reg, reproj, resolver), reg, nil
}

// parseCoordArg parses a positional coordinate argument, tolerating a
// degree symbol.
func parseCoordArg(raw, label string) (float64, error) {
	v, err := input.CleanCoordinate(raw)
	if err != nil {
		return 0, eris.Wrapf(err, "parse %s", label)
	}
	return v, nil
}

// recordRun persists run history on a best-effort basis. Store
// failures are logged, never returned.
func recordRun(ctx context.Context, run store.Run) {
	log := zap.L().With(zap.String("component", "run_history"))

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		log.Warn("run history store unavailable", zap.Error(err))
		return
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		log.Warn("run history migrate failed", zap.Error(err))
		return
	}
	if _, err := st.RecordRun(ctx, run); err != nil {
		log.Warn("run history insert failed", zap.Error(err))
	}
}
