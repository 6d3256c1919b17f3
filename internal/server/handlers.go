package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/topolayer/pkg/errors"
	"github.com/matzehuels/topolayer/pkg/frame"
	"github.com/matzehuels/topolayer/pkg/graph"
	"github.com/matzehuels/topolayer/pkg/layers"
	"github.com/matzehuels/topolayer/pkg/pipeline"
	"github.com/matzehuels/topolayer/pkg/store"
	"github.com/matzehuels/topolayer/pkg/topology"
)

// topologyRequest is the body of the topology and snapshot endpoints. Unset
// fields, layers and units come from the panel configuration.
type topologyRequest struct {
	Frames      json.RawMessage      `json:"frames"`
	Fields      topology.ParseConfig `json:"fields"`
	Units       graph.Units          `json:"units"`
	Layers      []layers.Layer       `json:"layers,omitempty"`
	Detailed    bool                 `json:"detailed,omitempty"`
	NodeSpacing float64              `json:"nodeSpacing,omitempty"`
	Refresh     bool                 `json:"refresh,omitempty"`
	Name        string               `json:"name,omitempty"`
}

type topologyResponse struct {
	Hash        string                `json:"hash"`
	Graph       graph.Graph           `json:"graph"`
	Summary     graph.Summary         `json:"summary"`
	Diagnostics []topology.Diagnostic `json:"diagnostics"`
	Cached      bool                  `json:"cached"`
}

type snapshotResponse struct {
	Snapshot    store.Info            `json:"snapshot"`
	Summary     graph.Summary         `json:"summary"`
	Diagnostics []topology.Diagnostic `json:"diagnostics"`
}

type snapshotDetail struct {
	*store.Snapshot
	Summary graph.Summary `json:"summary"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /api/v1/topology
func (s *Server) extractTopology(w http.ResponseWriter, r *http.Request) {
	opts, _, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topologyResponse{
		Hash:        res.Hash,
		Graph:       res.Graph,
		Summary:     res.Summary,
		Diagnostics: nonNil(res.Diagnostics),
		Cached:      res.CacheInfo.ExtractHit,
	})
}

// POST /api/v1/topology/layers/{layer}
func (s *Server) topologyLayer(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, _, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	layer, err := layerParam(r, len(opts.Layers))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Layer = layer
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, res.Artifacts[format])
}

// POST /api/v1/snapshots
func (s *Server) createSnapshot(w http.ResponseWriter, r *http.Request) {
	opts, req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateSnapshotName(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := store.New(req.Name, res.Graph, opts.Layers, opts.Fields, opts.Units)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), snap); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("saved snapshot", "id", snap.ID, "name", snap.Name, "nodes", len(snap.Graph.Nodes))

	w.Header().Set("Location", "/api/v1/snapshots/"+snap.ID)
	writeJSON(w, http.StatusCreated, snapshotResponse{
		Snapshot:    snap.Info(),
		Summary:     res.Summary,
		Diagnostics: nonNil(res.Diagnostics),
	})
}

// GET /api/v1/snapshots
func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": infos})
}

// GET /api/v1/snapshots/{id}
func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotDetail{
		Snapshot: snap,
		Summary:  graph.NewSummary(snap.Index(), snap.Layers),
	})
}

// DELETE /api/v1/snapshots/{id}
func (s *Server) deleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("deleted snapshot", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/snapshots/{id}/layers/{layer}
func (s *Server) snapshotLayer(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	layer, err := layerParam(r, len(snap.Layers))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := graph.NewLayerView(snap.Index(), layer-1, snap.Layers, snap.Units)
	opts := pipeline.FromConfig(s.opts.Panel)
	opts.Formats = []string{format}
	opts.Detailed = r.URL.Query().Get("detailed") == "true"
	artifacts, err := pipeline.RenderView(r.Context(), view, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, artifacts[format])
}

// decodeRequest reads a topologyRequest and turns it into pipeline options
// layered over the panel configuration.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (pipeline.Options, topologyRequest, error) {
	var req topologyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return pipeline.Options{}, req, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return pipeline.Options{}, req, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}

	frames, err := frame.ReadJSON(bytes.NewReader(req.Frames))
	if err != nil {
		return pipeline.Options{}, req, errors.Wrap(errors.ErrCodeInvalidFrame, err, "invalid frames")
	}

	opts := pipeline.FromConfig(s.opts.Panel)
	opts.Frames = frames
	opts.Fields = req.Fields.Merge(opts.Fields)
	opts.Units = mergeUnits(req.Units, opts.Units)
	if len(req.Layers) > 0 {
		opts.Layers = req.Layers
	}
	if req.NodeSpacing > 0 {
		opts.NodeSpacing = req.NodeSpacing
	}
	opts.Detailed = req.Detailed
	opts.Refresh = req.Refresh
	opts.Logger = s.logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, req, err
	}
	return opts, req, nil
}

func layerParam(r *http.Request, count int) (int, error) {
	raw := chi.URLParam(r, "layer")
	layer, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidLayer, "layer %q is not a number", raw)
	}
	if err := errors.ValidateLayerPick(layer-1, count); err != nil {
		return 0, err
	}
	return layer, nil
}

func formatParam(r *http.Request) (string, error) {
	format := r.URL.Query().Get("format")
	if format == "" {
		return pipeline.FormatJSON, nil
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

func mergeUnits(u, base graph.Units) graph.Units {
	if u.NodeMainStat == "" {
		u.NodeMainStat = base.NodeMainStat
	}
	if u.NodeSecondaryStat == "" {
		u.NodeSecondaryStat = base.NodeSecondaryStat
	}
	if u.EdgeMainStat == "" {
		u.EdgeMainStat = base.EdgeMainStat
	}
	if u.EdgeSecondaryStat == "" {
		u.EdgeSecondaryStat = base.EdgeSecondaryStat
	}
	return u
}

func nonNil(ds []topology.Diagnostic) []topology.Diagnostic {
	if ds == nil {
		return []topology.Diagnostic{}
	}
	return ds
}
