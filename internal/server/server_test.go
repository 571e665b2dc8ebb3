package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoosiergeo/ingcs-cli/internal/county"
	"github.com/hoosiergeo/ingcs-cli/internal/crs"
	"github.com/hoosiergeo/ingcs-cli/internal/transform"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg, err := county.LoadRegistry("")
	require.NoError(t, err)
	cat, err := crs.LoadCatalog("")
	require.NoError(t, err)
	engine := transform.New(reg, crs.NewProjReprojector(cat), nil)
	return New(":0", engine, reg)
}

func TestServer_Transform(t *testing.T) {
	s := newTestServer(t)

	body := `{"county":"Marion","rows":[{"id":"Point1","lat":39.7684,"lon":-86.1581}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/transform", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Columns []string            `json:"columns"`
		Rows    []map[string]string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Columns, "Easting_Indiana_East_ft")
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Point1", resp.Rows[0]["ID"])
	assert.Equal(t, "2965", resp.Rows[0]["State_Plane_EPSG"])
	assert.Equal(t, "7330", resp.Rows[0]["County_EPSG"])
}

func TestServer_TransformEmptyBatch(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/transform", strings.NewReader(`{"rows":[]}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "no valid coordinates")
}

func TestServer_TransformBadJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/transform", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Counties(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/counties", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Counties []struct {
			Name string `json:"name"`
			Zone string `json:"zone"`
			EPSG int    `json:"epsg"`
		} `json:"counties"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Counties, 92)

	byName := map[string]string{}
	for _, c := range resp.Counties {
		byName[c.Name] = c.Zone
	}
	assert.Equal(t, "East", byName["MARION"])
	assert.Equal(t, "West", byName["VANDERBURGH"])
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t)

	// Drive one request so the counter has a series to expose.
	body := `{"rows":[{"id":"p","lat":39.7684,"lon":-86.1581}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/transform", strings.NewReader(body))
	s.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ingcs_transform_requests_total")
}
