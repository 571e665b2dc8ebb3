package resolve

import "context"

// Box is a rectangular lat/lon approximation of a county.
type Box struct {
	County string
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether the point is inside the box (inclusive).
func (b Box) Contains(lat, lon float64) bool {
	return b.MinLat <= lat && lat <= b.MaxLat &&
		b.MinLon <= lon && lon <= b.MaxLon
}

// DefaultBoxes are the pre-seeded county approximations. Boxes
// overlap; the slice order is the match order and must stay stable —
// first match wins, a known imprecision accepted for speed.
var DefaultBoxes = []Box{
	{County: "LAKE", MinLat: 41.4, MaxLat: 41.8, MinLon: -87.6, MaxLon: -87.2},
	{County: "PORTER", MinLat: 41.3, MaxLat: 41.7, MinLon: -87.2, MaxLon: -86.8},
	{County: "LA_PORTE", MinLat: 41.3, MaxLat: 41.8, MinLon: -86.8, MaxLon: -86.4},
	{County: "ST_JOSEPH", MinLat: 41.5, MaxLat: 41.8, MinLon: -86.5, MaxLon: -86.1},
	{County: "ELKHART", MinLat: 41.4, MaxLat: 41.8, MinLon: -86.1, MaxLon: -85.6},
	{County: "LAGRANGE", MinLat: 41.5, MaxLat: 41.8, MinLon: -85.6, MaxLon: -85.2},
	{County: "STEUBEN", MinLat: 41.5, MaxLat: 41.8, MinLon: -85.2, MaxLon: -84.8},
	{County: "ALLEN", MinLat: 40.9, MaxLat: 41.4, MinLon: -85.3, MaxLon: -84.8},
	{County: "MARION", MinLat: 39.6, MaxLat: 40.0, MinLon: -86.3, MaxLon: -85.9},
	{County: "HAMILTON", MinLat: 39.9, MaxLat: 40.2, MinLon: -86.2, MaxLon: -85.8},
	{County: "HENDRICKS", MinLat: 39.7, MaxLat: 40.0, MinLon: -86.7, MaxLon: -86.3},
}

// BBoxStrategy is the fast resolution path: a linear scan over
// hardcoded boxes, no IO.
type BBoxStrategy struct {
	boxes []Box
}

// NewBBoxStrategy builds the strategy; nil boxes means DefaultBoxes.
func NewBBoxStrategy(boxes []Box) *BBoxStrategy {
	if boxes == nil {
		boxes = DefaultBoxes
	}
	return &BBoxStrategy{boxes: boxes}
}

// Name implements Strategy.
func (s *BBoxStrategy) Name() string { return "bbox" }

// Resolve implements Strategy. Never errors.
func (s *BBoxStrategy) Resolve(_ context.Context, lat, lon float64) (string, bool, error) {
	for _, b := range s.boxes {
		if b.Contains(lat, lon) {
			return b.County, true, nil
		}
	}
	return "", false, nil
}
