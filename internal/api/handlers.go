package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/pipeline"
	"github.com/matzehuels/diagramkit/pkg/storage"
)

// ComposeRequest is the body of POST /v1/compose.
type ComposeRequest struct {
	Name    string          `json:"name,omitempty"`
	Model   *diagram.Model  `json:"model"`
	Options json.RawMessage `json:"options,omitempty"`
	// Save stores the diagram and returns its id.
	Save bool `json:"save,omitempty"`
}

// ComposeResponse is the body returned by POST /v1/compose.
type ComposeResponse struct {
	ID        string            `json:"id,omitempty"`
	ModelHash string            `json:"model_hash"`
	Warnings  []errors.Warning  `json:"warnings"`
	Artifacts map[string][]byte `json:"artifacts"`
	Cached    bool              `json:"cached"`
}

// ValidateResponse is the body returned by POST /v1/validate.
type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Kind  string `json:"kind"`
}

// Validate handles POST /v1/validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var m diagram.Model
	if err := s.decode(w, r, &m); err != nil {
		s.writeError(w, err)
		return
	}
	if err := m.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Kind: m.Kind()})
}

// Compose handles POST /v1/compose.
func (s *Server) Compose(w http.ResponseWriter, r *http.Request) {
	var req ComposeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Model == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "model is required"))
		return
	}
	opts, err := s.options(req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), req.Model, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := ComposeResponse{
		ModelHash: res.ModelHash,
		Warnings:  res.Warnings(),
		Artifacts: res.Artifacts,
		Cached:    res.CacheInfo.SceneHit && res.CacheInfo.RenderHit,
	}
	if resp.Warnings == nil {
		resp.Warnings = []errors.Warning{}
	}
	status := http.StatusOK
	if req.Save {
		d := &storage.Diagram{
			Name:      req.Name,
			ModelHash: res.ModelHash,
			Model:     req.Model,
			Scene:     res.Scene,
		}
		if err := s.store.Save(r.Context(), d); err != nil {
			s.writeError(w, err)
			return
		}
		resp.ID = d.ID
		status = http.StatusCreated
		w.Header().Set("Location", "/v1/diagrams/"+d.ID)
	}
	s.writeJSON(w, status, resp)
}

// ListDiagrams handles GET /v1/diagrams?limit=N.
func (s *Server) ListDiagrams(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	type summary struct {
		ID        string `json:"id"`
		Name      string `json:"name,omitempty"`
		Title     string `json:"title,omitempty"`
		Kind      string `json:"kind"`
		CreatedAt string `json:"created_at"`
	}
	out := make([]summary, 0, len(items))
	for _, d := range items {
		sm := summary{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")}
		if d.Model != nil {
			sm.Title = d.Model.Title
			sm.Kind = d.Model.Kind()
		}
		out = append(out, sm)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"diagrams": out, "total": len(out)})
}

// GetDiagram handles GET /v1/diagrams/{id}.
func (s *Server) GetDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

// RenderDiagram handles GET /v1/diagrams/{id}/{format}. It re-renders
// the stored model with the server defaults and returns raw bytes.
func (s *Server) RenderDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := chi.URLParam(r, "format")
	opts := s.defaults
	opts.Formats = []string{format}
	res, err := s.runner.Execute(r.Context(), d.Model, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// DeleteDiagram handles DELETE /v1/diagrams/{id}.
func (s *Server) DeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return nil
}

// options overlays request options on the server defaults. Naming a
// theme in the request replaces a configured theme file.
func (s *Server) options(raw json.RawMessage) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = append([]string(nil), s.defaults.Formats...)
	if len(raw) == 0 {
		return opts, nil
	}
	var req pipeline.Options
	if err := json.Unmarshal(raw, &req); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options: %v", err)
	}
	if err := json.Unmarshal(raw, &opts); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options: %v", err)
	}
	if req.Theme != "" {
		opts.CustomTheme = nil
	}
	return opts, nil
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}
