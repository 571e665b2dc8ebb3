package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoosiergeo/ingcs-cli/internal/input"
)

func resetColumnFlags(t *testing.T) {
	t.Helper()
	orig := []string{transformLatCol, transformLonCol, transformIDCol}
	t.Cleanup(func() {
		transformLatCol, transformLonCol, transformIDCol = orig[0], orig[1], orig[2]
	})
	transformLatCol, transformLonCol, transformIDCol = "", "", ""
}

func TestDetectColumns_Fuzzy(t *testing.T) {
	resetColumnFlags(t)

	cols, err := detectColumns([]string{"Boring ID", "Latitude", "Longitude"})
	require.NoError(t, err)
	assert.Equal(t, input.Columns{ID: 0, Lat: 1, Lon: 2}, cols)
}

func TestDetectColumns_ExplicitOverride(t *testing.T) {
	resetColumnFlags(t)
	transformLatCol = "Y"
	transformLonCol = "X"
	transformIDCol = "Station"

	cols, err := detectColumns([]string{"Station", "X", "Y"})
	require.NoError(t, err)
	assert.Equal(t, input.Columns{ID: 0, Lat: 2, Lon: 1}, cols)
}

func TestDetectColumns_OverrideMissingColumn(t *testing.T) {
	resetColumnFlags(t)
	transformLatCol = "Northing"

	_, err := detectColumns([]string{"ID", "Lat", "Lon"})
	assert.Error(t, err)
}

func TestDetectColumns_NoCoordinates(t *testing.T) {
	resetColumnFlags(t)

	_, err := detectColumns([]string{"ID", "Depth"})
	assert.Error(t, err)
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "12345678", truncateID("123456789abc"))
	assert.Equal(t, "short", truncateID("short"))
}
