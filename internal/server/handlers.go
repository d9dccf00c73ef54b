package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/boxlayout/pkg/buildinfo"
	"github.com/matzehuels/boxlayout/pkg/errors"
	"github.com/matzehuels/boxlayout/pkg/graph"
	"github.com/matzehuels/boxlayout/pkg/pipeline"
	"github.com/matzehuels/boxlayout/pkg/render"
)

// Response headers.
const (
	headerCache      = "X-Cache"
	headerSnapshotID = "X-Snapshot-Id"
	contentTypeJSON  = "application/json"
)

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// handleResolve resolves the TOML scene in the request body and answers
// with the snapshot, or with one rendered artifact when ?format= is set.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	opts, format, err := s.requestOptions(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if format != pipeline.FormatJSON {
		opts.Formats = []string{format}
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(headerCache, cacheStatus(res.CacheInfo.ResolveHit))

	if format == pipeline.FormatJSON {
		writeSnapshot(w, r, http.StatusOK, res.Snapshot)
		return
	}
	writeArtifact(w, format, res.Artifacts[format])
}

type createResponse struct {
	ID    string `json:"id"`
	Scene string `json:"scene"`
	Nodes int    `json:"nodes"`
	Ticks int    `json:"ticks"`
}

// handleCreateSnapshot resolves the scene in the request body and stores
// the snapshot.
func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	opts, _, err := s.requestOptions(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := s.store.Save(r.Context(), res.Snapshot)
	if err != nil {
		writeError(w, r, storageError(err, "save snapshot"))
		return
	}

	s.logger.Info("stored snapshot", "id", saved.ID, "scene", saved.Scene, "nodes", len(saved.Nodes))
	w.Header().Set("Location", "/v1/snapshots/"+saved.ID)
	w.Header().Set(headerCache, cacheStatus(res.CacheInfo.ResolveHit))
	writeJSON(w, http.StatusCreated, createResponse{
		ID:    saved.ID,
		Scene: saved.Scene,
		Nodes: len(saved.Nodes),
		Ticks: saved.Ticks,
	})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSnapshotID(id); err != nil {
		writeError(w, r, err)
		return
	}
	format, err := queryFormat(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	snap, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, storageError(err, "get snapshot %s", id))
		return
	}
	w.Header().Set(headerSnapshotID, snap.ID)

	if format == pipeline.FormatJSON {
		writeSnapshot(w, r, http.StatusOK, snap)
		return
	}

	opts := pipeline.Options{Formats: []string{format}, Logger: s.logger}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), snap, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(headerCache, cacheStatus(hit))
	writeArtifact(w, format, artifacts[format])
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSnapshotID(id); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, storageError(err, "delete snapshot %s", id))
		return
	}
	s.logger.Info("deleted snapshot", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Request parsing
// =============================================================================

// requestOptions reads the scene body and the resolve query parameters.
func (s *Server) requestOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, string, error) {
	var opts pipeline.Options

	format, err := queryFormat(r)
	if err != nil {
		return opts, "", err
	}

	q := r.URL.Query()
	if opts.Ticks, err = queryInt(q.Get("ticks")); err != nil {
		return opts, "", errors.New(errors.ErrCodeInvalidInput, "ticks: %v", err)
	}
	if opts.Width, err = queryFloat(q.Get("width")); err != nil {
		return opts, "", errors.New(errors.ErrCodeInvalidInput, "width: %v", err)
	}
	if opts.Height, err = queryFloat(q.Get("height")); err != nil {
		return opts, "", errors.New(errors.ErrCodeInvalidInput, "height: %v", err)
	}
	opts.Refresh = q.Get("refresh") == "true"

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "scene larger than %d bytes", tooLarge.Limit)
		}
		return opts, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read scene")
	}
	if len(body) == 0 {
		return opts, "", errors.New(errors.ErrCodeInvalidInput, "empty request body, expected a TOML scene")
	}
	opts.Scene = body
	opts.Logger = s.logger
	return opts, format, nil
}

// queryFormat returns the lowercased ?format= value, defaulting to json.
func queryFormat(r *http.Request) (string, error) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		return pipeline.FormatJSON, nil
	}
	if err := errors.ValidateFormat(format, pipeline.ValidFormats()...); err != nil {
		return "", err
	}
	return format, nil
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func queryFloat(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

// =============================================================================
// Responses
// =============================================================================

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSnapshot(w http.ResponseWriter, r *http.Request, status int, snap graph.Snapshot) {
	data, err := graph.Marshal(snap)
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "serialize snapshot"))
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
