package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/topolayer/pkg/cache"
	"github.com/matzehuels/topolayer/pkg/errors"
	"github.com/matzehuels/topolayer/pkg/graph"
	"github.com/matzehuels/topolayer/pkg/observability"
	"github.com/matzehuels/topolayer/pkg/pipeline"
	"github.com/matzehuels/topolayer/pkg/store"
)

const sampleBody = `{
  "frames": [
    {"name": "nodes", "fields": [
      {"name": "id", "values": ["lb", "api", "db"]},
      {"name": "title", "values": ["LB", "API", "DB"]},
      {"name": "layer", "values": [1, 1, 2]}
    ]},
    {"name": "edges", "fields": [
      {"name": "source", "values": ["lb", "api"]},
      {"name": "target", "values": ["api", "db"]}
    ]}
  ]
}`

func newTestServer(t *testing.T, opts Options) (*Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
	return New(runner, st, opts), st
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestExtractTopology(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/topology", sampleBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp topologyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Graph.Nodes, 3)
	assert.Len(t, resp.Graph.Edges, 2)
	assert.NotEmpty(t, resp.Hash)
	assert.False(t, resp.Cached)
	require.Len(t, resp.Summary.Layers, 2)
	assert.Equal(t, 2, resp.Summary.Layers[0].Count)
	assert.Equal(t, 1, resp.Summary.Layers[1].Count)

	rec = do(t, h, http.MethodPost, "/api/v1/topology", sampleBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Cached, "second identical request should hit the cache")
}

func TestExtractTopologyMissingColumns(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	body := `{"frames": [{"name": "nodes", "fields": [{"name": "up", "values": [true, false]}]}]}`

	rec := do(t, s.Handler(), http.MethodPost, "/api/v1/topology", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp topologyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Graph.Nodes)
	assert.NotEmpty(t, resp.Diagnostics)
}

func TestTopologyLayer(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/topology/layers/1", sampleBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var view graph.LayerView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, 1, view.Layer)
	assert.Equal(t, "Layer 1", view.Label)
	assert.Len(t, view.Nodes, 2)
	require.Len(t, view.Edges, 1)
	assert.Equal(t, "lb", view.Edges[0].Source)

	rec = do(t, h, http.MethodPost, "/api/v1/topology/layers/2?format=dot", sampleBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "graphviz")
	assert.Contains(t, rec.Body.String(), `"db"`)
	assert.NotContains(t, rec.Body.String(), "->")
}

func TestTopologyLayerErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"layer out of range", "/api/v1/topology/layers/3", sampleBody, http.StatusBadRequest, errors.ErrCodeInvalidLayer},
		{"layer zero", "/api/v1/topology/layers/0", sampleBody, http.StatusBadRequest, errors.ErrCodeInvalidLayer},
		{"layer not a number", "/api/v1/topology/layers/two", sampleBody, http.StatusBadRequest, errors.ErrCodeInvalidLayer},
		{"bad format", "/api/v1/topology/layers/1?format=gif", sampleBody, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"malformed body", "/api/v1/topology/layers/1", `{"frames": [`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", "/api/v1/topology/layers/1", `{"frame": []}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad frames", "/api/v1/topology/layers/1", `{"frames": 42}`, http.StatusBadRequest, errors.ErrCodeInvalidFrame},
		{"one layer", "/api/v1/topology/layers/1", `{"layers": [{"label": "Only"}]}`, http.StatusBadRequest, errors.ErrCodeInvalidLayer},
	}

	s, _ := newTestServer(t, Options{})
	h := s.Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestPanelDefaults(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	s.opts.Panel.Layers = append(s.opts.Panel.Layers, s.opts.Panel.Layers[0])
	s.opts.Panel.Layers[2].Label = "Storage"

	rec := do(t, s.Handler(), http.MethodPost, "/api/v1/topology/layers/3", sampleBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view graph.LayerView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "Storage", view.Label)
	assert.Empty(t, view.Nodes)
}

func TestFieldOverrides(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	body := `{
	  "fields": {"nodeIdField": "host", "nodeLayerField": "tier"},
	  "frames": [{"name": "nodes", "fields": [
	    {"name": "host", "values": ["a", "b"]},
	    {"name": "tier", "values": [2, 2]}
	  ]}]
	}`

	rec := do(t, s.Handler(), http.MethodPost, "/api/v1/topology/layers/2", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view graph.LayerView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	require.Len(t, view.Nodes, 2)
	assert.Equal(t, "a", view.Nodes[0].ID)
}

func TestSnapshotLifecycle(t *testing.T) {
	s, st := newTestServer(t, Options{})
	h := s.Handler()

	body := strings.Replace(sampleBody, `"frames"`, `"name": "prod", "frames"`, 1)
	rec := do(t, h, http.MethodPost, "/api/v1/snapshots", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created snapshotResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	id := created.Snapshot.ID
	require.NotEmpty(t, id)
	assert.Equal(t, "prod", created.Snapshot.Name)
	assert.Equal(t, 3, created.Snapshot.Nodes)
	assert.Equal(t, "/api/v1/snapshots/"+id, rec.Header().Get("Location"))

	saved, err := st.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, saved.Graph.Edges, 2)

	rec = do(t, h, http.MethodGet, "/api/v1/snapshots", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Snapshots []store.Info `json:"snapshots"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Snapshots, 1)
	assert.Equal(t, id, list.Snapshots[0].ID)

	rec = do(t, h, http.MethodGet, "/api/v1/snapshots/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Name    string        `json:"name"`
		Graph   graph.Graph   `json:"graph"`
		Summary graph.Summary `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&detail))
	assert.Equal(t, "prod", detail.Name)
	assert.Len(t, detail.Graph.Nodes, 3)
	require.Len(t, detail.Summary.Layers, 2)
	assert.Equal(t, 2, detail.Summary.Layers[0].Count)

	rec = do(t, h, http.MethodGet, "/api/v1/snapshots/"+id+"/layers/1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view graph.LayerView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Len(t, view.Nodes, 2)
	assert.Len(t, view.Edges, 1)

	rec = do(t, h, http.MethodGet, "/api/v1/snapshots/"+id+"/layers/5", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/snapshots/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/snapshots/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.ErrCodeSnapshotNotFound, decodeError(t, rec).Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/snapshots/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSnapshotRequiresName(t *testing.T) {
	s, st := newTestServer(t, Options{})

	rec := do(t, s.Handler(), http.MethodPost, "/api/v1/snapshots", sampleBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrCodeInvalidInput, decodeError(t, rec).Code)

	infos, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestListSnapshotsEmpty(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/api/v1/snapshots", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"snapshots":[]}`, rec.Body.String())
}

func TestBodyLimit(t *testing.T) {
	s, _ := newTestServer(t, Options{MaxBodyBytes: 16})
	rec := do(t, s.Handler(), http.MethodPost, "/api/v1/topology", sampleBody)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrCodeInvalidInput, decodeError(t, rec).Code)
}

func TestContentType(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/topology", strings.NewReader(sampleBody))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	defer observability.Reset()
	m := observability.NewMetrics(prometheus.NewRegistry())
	observability.SetHTTPHooks(m)

	s, _ := newTestServer(t, Options{Metrics: m})
	h := s.Handler()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/health"`)
}

func TestNoMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, Options{CORSOrigins: []string{"https://grafana.example.com"}})
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/topology", nil)
	req.Header.Set("Origin", "https://grafana.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://grafana.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidConfig, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{fmt.Errorf("render pdf: %w", errors.New(errors.ErrCodeUnsupported, "x")), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeStorage, "x"), http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "statusFor(%v)", tt.err)
	}
}
