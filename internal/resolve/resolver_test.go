package resolve

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/hoosiergeo/ingcs-cli/internal/boundary"
	"github.com/hoosiergeo/ingcs-cli/internal/county"
)

func TestBBoxStrategy_Matches(t *testing.T) {
	s := NewBBoxStrategy(nil)

	tests := []struct {
		lat, lon float64
		want     string
	}{
		{39.7684, -86.1581, "MARION"},
		{41.6, -87.4, "LAKE"},
		{41.0, -85.1, "ALLEN"},
		{39.8, -86.5, "HENDRICKS"},
	}
	for _, tt := range tests {
		name, ok, err := s.Resolve(context.Background(), tt.lat, tt.lon)
		require.NoError(t, err)
		require.True(t, ok, "(%v, %v)", tt.lat, tt.lon)
		assert.Equal(t, tt.want, name)
	}
}

func TestBBoxStrategy_NoMatch(t *testing.T) {
	s := NewBBoxStrategy(nil)

	// Evansville: far southwest, outside every pre-seeded box.
	_, ok, err := s.Resolve(context.Background(), 37.97, -87.57)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBBoxStrategy_DeclarationOrderWins(t *testing.T) {
	// The LA_PORTE and ST_JOSEPH boxes overlap between -86.5 and -86.4;
	// the earlier declaration must win.
	s := NewBBoxStrategy(nil)

	name, ok, err := s.Resolve(context.Background(), 41.6, -86.45)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "LA_PORTE", name)
}

// failingSource always errors; used to prove the fast path never
// triggers a boundary build.
type failingSource struct{ calls int }

func (s *failingSource) Load(context.Context) ([]boundary.CountyShape, error) {
	s.calls++
	return nil, eris.New("boundary fetch should not happen")
}

func TestResolver_FastPathPrecedence(t *testing.T) {
	src := &failingSource{}
	r := New(
		NewBBoxStrategy(nil),
		NewBoundaryStrategy(boundary.NewLoader(src)),
	)

	got := r.Resolve(context.Background(), 39.7684, -86.1581)
	assert.Equal(t, "MARION", got)
	assert.Zero(t, src.calls, "bbox hit must not touch the boundary loader")
}

// boxGeom builds a rectangular multipolygon for synthetic counties.
func boxGeom(minLon, minLat, maxLon, maxLat float64) (*geom.MultiPolygon, error) {
	poly := geom.NewPolygon(geom.XY)
	ring := geom.NewLinearRingFlat(geom.XY, []float64{
		minLon, minLat,
		maxLon, minLat,
		maxLon, maxLat,
		minLon, maxLat,
		minLon, minLat,
	})
	if err := poly.Push(ring); err != nil {
		return nil, err
	}
	mp := geom.NewMultiPolygon(geom.XY)
	if err := mp.Push(poly); err != nil {
		return nil, err
	}
	return mp, nil
}

// squareSource serves one synthetic county polygon.
type squareSource struct{}

func (squareSource) Load(context.Context) ([]boundary.CountyShape, error) {
	mp, err := boxGeom(-87.6, 37.8, -87.3, 38.1)
	if err != nil {
		return nil, err
	}
	return []boundary.CountyShape{{FIPS: "18163", Name: "VANDERBURGH", Geom: mp}}, nil
}

func TestResolver_FallsBackToBoundary(t *testing.T) {
	r := New(
		NewBBoxStrategy(nil),
		NewBoundaryStrategy(boundary.NewLoader(squareSource{})),
	)

	got := r.Resolve(context.Background(), 37.97, -87.57)
	assert.Equal(t, "VANDERBURGH", got)
}

func TestResolver_UnknownOnTotalFailure(t *testing.T) {
	src := &failingSource{}
	r := New(
		NewBBoxStrategy(nil),
		NewBoundaryStrategy(boundary.NewLoader(src)),
	)

	got := r.Resolve(context.Background(), 37.97, -87.57)
	assert.Equal(t, county.Unknown, got)

	// Degraded again, still Unknown, and the fetch was not retried.
	got = r.Resolve(context.Background(), 37.97, -87.57)
	assert.Equal(t, county.Unknown, got)
	assert.Equal(t, 1, src.calls)
}

func TestResolver_NoStrategies(t *testing.T) {
	r := New()
	assert.Equal(t, county.Unknown, r.Resolve(context.Background(), 39.7684, -86.1581))
}

func TestPostGISStrategy_Match(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").
		WithArgs(-86.1581, 39.7684).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("MARION"))

	s := NewPostGISStrategy(mock)
	name, ok, err := s.Resolve(context.Background(), 39.7684, -86.1581)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "MARION", name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostGISStrategy_NoRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").
		WithArgs(-93.0, 45.0).
		WillReturnError(pgx.ErrNoRows)

	s := NewPostGISStrategy(mock)
	_, ok, err := s.Resolve(context.Background(), 45.0, -93.0)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostGISStrategy_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").
		WithArgs(-86.1581, 39.7684).
		WillReturnError(eris.New("connection refused"))

	s := NewPostGISStrategy(mock)
	_, _, err = s.Resolve(context.Background(), 39.7684, -86.1581)
	assert.Error(t, err)
}
