package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molgraph/internal/interfaces/http/handlers"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.NewNopLogger()
	metrics := prometheus.NewMetrics()
	svc := appmol.NewService(appmol.Options{Logger: logger, Metrics: metrics})
	return NewRouter(RouterConfig{
		Mode:     "test",
		Molecule: handlers.NewMoleculeHandler(svc, logger),
		Health:   handlers.NewHealthHandler("test"),
		Logger:   logger,
		Metrics:  metrics,
	})
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	h := testRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"up"`)
}

func TestRouter_Parse(t *testing.T) {
	h := testRouter(t)
	rec := post(t, h, "/api/v1/molecules/parse", `{"smiles":"c1ccccc1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			CanonicalSMILES string `json:"canonical_smiles"`
			AtomCount       int    `json:"atom_count"`
			RingCount       int    `json:"ring_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "c1ccccc1", resp.Data.CanonicalSMILES)
	assert.Equal(t, 6, resp.Data.AtomCount)
	assert.Equal(t, 1, resp.Data.RingCount)
}

func TestRouter_ParseBadSMILES(t *testing.T) {
	h := testRouter(t)
	rec := post(t, h, "/api/v1/molecules/parse", `{"smiles":"CC.CC"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "SMI_007")
}

func TestRouter_ParseMissingBody(t *testing.T) {
	h := testRouter(t)
	rec := post(t, h, "/api/v1/molecules/parse", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_KekulizeUnprocessable(t *testing.T) {
	h := testRouter(t)
	rec := post(t, h, "/api/v1/molecules/kekulize", `{"smiles":"c1cc1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "PERC_003")
}

func TestRouter_Similarity(t *testing.T) {
	h := testRouter(t)
	rec := post(t, h, "/api/v1/molecules/similarity",
		`{"smiles_a":"CCO","smiles_b":"CCO"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"similarity":1`)
}

func TestRouter_Register(t *testing.T) {
	h := testRouter(t)
	rec := post(t, h, "/api/v1/molecules", `{"smiles":"CCO"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"canonical_smiles":"CCO"`)
}

func TestRouter_Metrics(t *testing.T) {
	h := testRouter(t)
	post(t, h, "/api/v1/molecules/parse", `{"smiles":"C"}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "molgraph_parse_total")
}
