package boundary

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestPolygonToMultiPolygon(t *testing.T) {
	p := &shp.Polygon{
		NumParts:  2,
		NumPoints: 10,
		Parts:     []int32{0, 5},
		Points: []shp.Point{
			// Part 1: unit square.
			{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0},
			// Part 2: offset square.
			{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}, {X: 5, Y: 5},
		},
	}

	mp := polygonToMultiPolygon(p)
	require.NotNil(t, mp)
	assert.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 4326, mp.SRID())

	assert.True(t, multiPolygonContains(mp, geom.Coord{0.5, 0.5}))
	assert.True(t, multiPolygonContains(mp, geom.Coord{5.5, 5.5}))
	assert.False(t, multiPolygonContains(mp, geom.Coord{3, 3}))
}

func TestPolygonToMultiPolygon_Degenerate(t *testing.T) {
	assert.Nil(t, polygonToMultiPolygon(nil))
	assert.Nil(t, polygonToMultiPolygon(&shp.Polygon{}))
}
