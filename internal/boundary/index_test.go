package boundary

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// box builds a rectangular county polygon.
func box(minLon, minLat, maxLon, maxLat float64) *geom.MultiPolygon {
	mp := geom.NewMultiPolygon(geom.XY)
	ring := geom.NewLinearRingFlat(geom.XY, []float64{
		minLon, minLat,
		maxLon, minLat,
		maxLon, maxLat,
		minLon, maxLat,
		minLon, minLat,
	})
	poly := geom.NewPolygon(geom.XY)
	if err := poly.Push(ring); err != nil {
		panic(err)
	}
	if err := mp.Push(poly); err != nil {
		panic(err)
	}
	return mp
}

func TestIndex_Locate(t *testing.T) {
	idx := NewIndex([]CountyShape{
		{FIPS: "18097", Name: "MARION", Geom: box(-86.3, 39.6, -85.9, 40.0)},
		{FIPS: "18089", Name: "LAKE", Geom: box(-87.6, 41.4, -87.2, 41.8)},
		{FIPS: "18000", Name: "NIL", Geom: nil},
	})
	assert.Equal(t, 2, idx.Len())

	name, ok := idx.Locate(39.7684, -86.1581)
	require.True(t, ok)
	assert.Equal(t, "MARION", name)

	name, ok = idx.Locate(41.6, -87.4)
	require.True(t, ok)
	assert.Equal(t, "LAKE", name)

	_, ok = idx.Locate(45.0, -93.0) // Minneapolis, not Indiana
	assert.False(t, ok)
}

func TestIndex_LocateRespectsHoles(t *testing.T) {
	// Shell with a hole in the middle; points inside the hole miss.
	poly := geom.NewPolygon(geom.XY)
	require.NoError(t, poly.Push(geom.NewLinearRingFlat(geom.XY, []float64{
		0, 0, 10, 0, 10, 10, 0, 10, 0, 0,
	})))
	require.NoError(t, poly.Push(geom.NewLinearRingFlat(geom.XY, []float64{
		4, 4, 6, 4, 6, 6, 4, 6, 4, 4,
	})))
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(poly))

	idx := NewIndex([]CountyShape{{FIPS: "18097", Name: "MARION", Geom: mp}})

	_, ok := idx.Locate(5, 5) // inside the hole
	assert.False(t, ok)

	name, ok := idx.Locate(2, 2)
	require.True(t, ok)
	assert.Equal(t, "MARION", name)
}

// countingSource counts Load invocations.
type countingSource struct {
	calls  atomic.Int32
	shapes []CountyShape
	err    error
}

func (s *countingSource) Load(context.Context) ([]CountyShape, error) {
	s.calls.Add(1)
	return s.shapes, s.err
}

func TestLoader_BuildsOnce(t *testing.T) {
	src := &countingSource{shapes: []CountyShape{
		{FIPS: "18097", Name: "MARION", Geom: box(-86.3, 39.6, -85.9, 40.0)},
	}}
	loader := NewLoader(src)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx, err := loader.Index(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, idx)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
}

func TestLoader_FailureRemembered(t *testing.T) {
	src := &countingSource{err: eris.New("boundary: fetch failed")}
	loader := NewLoader(src)

	_, err := loader.Index(context.Background())
	require.Error(t, err)

	// A second call must not retry the fetch within the run.
	_, err = loader.Index(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), src.calls.Load())
}
