package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/adapters/httpapi"
	"github.com/aretw0/graft/pkg/observability"
	"github.com/aretw0/graft/pkg/store"
)

const sampleSource = "@trigger\ntype: webhook\npath: /orders\nmethod: post\n\n@workflow\n1. fetch the order from the api\n2. notify slack channel\n"

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCompileEndpoint(t *testing.T) {
	handler := httpapi.NewHandler(graft.New())

	rec := postJSON(t, handler, "/compile", httpapi.CompileRequest{Source: sampleSource})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpapi.CompileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Contract)
	assert.Len(t, resp.Contract.Steps, 2)
	assert.NotEmpty(t, resp.Canonical)
}

func TestCompileEndpointReportsErrors(t *testing.T) {
	handler := httpapi.NewHandler(graft.New())

	rec := postJSON(t, handler, "/compile", httpapi.CompileRequest{Source: "@workflow\n1. do a thing\n"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpapi.CompileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Errors)
}

func TestGenerateEndpoint(t *testing.T) {
	handler := httpapi.NewHandler(graft.New())

	rec := postJSON(t, handler, "/generate", httpapi.CompileRequest{Source: sampleSource})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpapi.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Workflow)
	assert.Len(t, resp.Workflow.Nodes, 3)
	require.NotNil(t, resp.Report)
	assert.True(t, resp.Report.Success)
}

func TestGenerateSavesToStore(t *testing.T) {
	mem := store.NewMemory()
	handler := httpapi.NewHandler(graft.New(), httpapi.WithStore(mem))

	rec := postJSON(t, handler, "/generate", httpapi.CompileRequest{Source: sampleSource, SaveAs: "orders"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpapi.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "orders", resp.SavedAs)

	// The record must be retrievable through the store routes.
	req := httptest.NewRequest(http.MethodGet, "/workflows/orders", nil)
	getRec := httptest.NewRecorder()
	handler.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)

	var loaded store.Record
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &loaded))
	assert.Equal(t, sampleSource, loaded.Source)

	listRec := httptest.NewRecorder()
	handler.ServeHTTP(listRec, httptest.NewRequest(http.MethodGet, "/workflows", nil))
	assert.Contains(t, listRec.Body.String(), "orders")

	delRec := httptest.NewRecorder()
	handler.ServeHTTP(delRec, httptest.NewRequest(http.MethodDelete, "/workflows/orders", nil))
	assert.Equal(t, http.StatusNoContent, delRec.Code)

	missRec := httptest.NewRecorder()
	handler.ServeHTTP(missRec, httptest.NewRequest(http.MethodGet, "/workflows/orders", nil))
	assert.Equal(t, http.StatusNotFound, missRec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	engine := graft.New()
	gen := engine.Generate(sampleSource)
	require.True(t, gen.Success())

	handler := httpapi.NewHandler(engine)
	rec := postJSON(t, handler, "/validate", httpapi.ValidateRequest{Workflow: gen.JSON})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestValidateRejectsBadDocument(t *testing.T) {
	handler := httpapi.NewHandler(graft.New())
	rec := postJSON(t, handler, "/validate", httpapi.ValidateRequest{Workflow: json.RawMessage(`"nope"`)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndInfo(t *testing.T) {
	handler := httpapi.NewHandler(graft.New())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/info", nil))
	assert.Contains(t, rec.Body.String(), "graft-http")
}

func TestMetricsEndpoint(t *testing.T) {
	m := observability.NewMetrics()
	handler := httpapi.NewHandler(graft.New(), httpapi.WithMetrics(m))

	postJSON(t, handler, "/compile", httpapi.CompileRequest{Source: sampleSource})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graft_compiles_total")
}

func TestCORSPreflight(t *testing.T) {
	handler := httpapi.NewHandler(graft.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/compile", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
