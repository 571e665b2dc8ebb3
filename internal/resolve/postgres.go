package resolve

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// DB is the minimal pgx surface the PostGIS strategy needs; satisfied
// by *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostGISStrategy resolves counties with ST_Contains against a
// pre-loaded county table. Optional: only wired when a database URL is
// configured, sitting between the bbox fast path and the remote
// boundary fetch.
type PostGISStrategy struct {
	db DB
}

// NewPostGISStrategy wraps a database handle.
func NewPostGISStrategy(db DB) *PostGISStrategy {
	return &PostGISStrategy{db: db}
}

// Name implements Strategy.
func (s *PostGISStrategy) Name() string { return "postgis" }

// Resolve implements Strategy.
func (s *PostGISStrategy) Resolve(ctx context.Context, lat, lon float64) (string, bool, error) {
	const sql = `
		SELECT name
		FROM geo.indiana_counties
		WHERE ST_Contains(geom, ST_SetSRID(ST_MakePoint($1, $2), 4326))
		LIMIT 1
	`
	var name string
	err := s.db.QueryRow(ctx, sql, lon, lat).Scan(&name)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, eris.Wrap(err, "resolve: postgis county lookup")
	}
	return name, true, nil
}
