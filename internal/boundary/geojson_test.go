package boundary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countiesGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"GEO_ID": "0500000US18097", "STATE": "18", "COUNTY": "097", "NAME": "Marion"},
			"geometry": {"type": "Polygon", "coordinates": [[[-86.3,39.6],[-85.9,39.6],[-85.9,40.0],[-86.3,40.0],[-86.3,39.6]]]}
		},
		{
			"type": "Feature",
			"properties": {"GEO_ID": "0500000US17031", "STATE": "17", "COUNTY": "031", "NAME": "Cook"},
			"geometry": {"type": "Polygon", "coordinates": [[[-88.3,41.5],[-87.5,41.5],[-87.5,42.2],[-88.3,42.2],[-88.3,41.5]]]}
		},
		{
			"type": "Feature",
			"properties": {"GEO_ID": "0500000US18089", "STATE": "18", "COUNTY": "089", "NAME": "Lake"},
			"geometry": {"type": "MultiPolygon", "coordinates": [[[[-87.6,41.4],[-87.2,41.4],[-87.2,41.8],[-87.6,41.8],[-87.6,41.4]]]]}
		}
	]
}`

func TestGeoJSONSource_FiltersToIndiana(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(countiesGeoJSON))
	}))
	defer srv.Close()

	src := &GeoJSONSource{URL: srv.URL, Client: srv.Client(), Timeout: 5 * time.Second}
	shapes, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, shapes, 2)

	idx := NewIndex(shapes)
	name, ok := idx.Locate(39.7684, -86.1581)
	require.True(t, ok)
	assert.Equal(t, "MARION", name)

	name, ok = idx.Locate(41.6, -87.4)
	require.True(t, ok)
	assert.Equal(t, "LAKE", name)

	// Cook County (Illinois) was filtered out.
	_, ok = idx.Locate(41.88, -87.68)
	assert.False(t, ok)
}

func TestGeoJSONSource_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := &GeoJSONSource{URL: srv.URL, Client: srv.Client(), Timeout: 5 * time.Second}
	_, err := src.Load(context.Background())
	assert.Error(t, err)
}

func TestGeoJSONSource_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	src := &GeoJSONSource{URL: srv.URL, Client: srv.Client(), Timeout: 5 * time.Second}
	_, err := src.Load(context.Background())
	assert.Error(t, err)
}

func TestFetchToFile_SkipsExistingDownload(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "data.zip")
	require.NoError(t, fetchToFile(context.Background(), srv.Client(), srv.URL, dest, 5*time.Second))
	require.NoError(t, fetchToFile(context.Background(), srv.Client(), srv.URL, dest, 5*time.Second))
	assert.Equal(t, 1, hits)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}
