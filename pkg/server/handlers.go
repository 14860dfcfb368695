package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/notediagram/pkg/buildinfo"
	"github.com/matzehuels/notediagram/pkg/catalog"
	"github.com/matzehuels/notediagram/pkg/notes"
	"github.com/matzehuels/notediagram/pkg/pipeline"
	"github.com/matzehuels/notediagram/pkg/render/sink"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "notediagram API is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleDiagrams(w http.ResponseWriter, r *http.Request) {
	writeList(w, catalog.List())
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	writeList(w, s.runner.Engine.Themes().All())
}

// renderRequest is the body of POST /api/render.
type renderRequest struct {
	pipeline.Options
	Format string `json:"format"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	format, err := sink.ParseFormat(req.Format)
	if err != nil {
		writeErr(w, err, "Failed to render diagram")
		return
	}
	if format == sink.FormatPDF {
		// PDF needs rsvg-convert on the host; keep the API self-contained.
		writeError(w, http.StatusBadRequest, "pdf output is only available from the CLI")
		return
	}

	opts := s.withDefaults(req.Options)
	opts.Formats = []string{string(format)}
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.logger.Warn("render failed", "diagram", opts.Diagram, "err", err)
		writeErr(w, err, "Failed to render diagram")
		return
	}

	h := w.Header()
	h.Set("Content-Type", format.ContentType())
	h.Set("X-Pass-ID", res.Pass.ID.String())
	h.Set("X-Pass-Backend", res.Pass.Backend)
	h.Set("X-Cache", cacheStatus(res.CacheInfo))
	if res.Pass.Seed != 0 {
		h.Set("X-Sketch-Seed", strconv.FormatUint(res.Pass.Seed, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[string(format)])
}

func cacheStatus(ci pipeline.CacheInfo) string {
	switch {
	case !ci.Cacheable:
		return "bypass"
	case ci.PassHit && ci.EncodeHit:
		return "hit"
	case ci.PassHit:
		return "partial"
	}
	return "miss"
}

// withDefaults fills fields the request left empty from server defaults.
func (s *Server) withDefaults(o pipeline.Options) pipeline.Options {
	d := s.defaults
	if o.Diagram == "" {
		o.Diagram = d.Diagram
	}
	if o.Theme == "" {
		o.Theme = d.Theme
	}
	if o.Mode == "" {
		o.Mode = d.Mode
	}
	if o.SketchStyle == "" {
		o.SketchStyle = d.SketchStyle
	}
	if o.Layout == "" {
		o.Layout = d.Layout
	}
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Scale == 0 {
		o.Scale = d.Scale
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	return o
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// Notes

func notFound(w http.ResponseWriter, id string) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("Note with ID %s not found", id))
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list notes", "err", err)
		writeErr(w, err, "Failed to fetch notes")
		return
	}
	writeList(w, list)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := s.store.Get(r.Context(), id)
	if errors.Is(err, notes.ErrNotFound) {
		notFound(w, id)
		return
	}
	if err != nil {
		s.logger.Error("get note", "id", id, "err", err)
		writeErr(w, err, "Failed to fetch note")
		return
	}
	writeData(w, http.StatusOK, n)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var n notes.Note
	if err := s.decode(w, r, &n); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if n.ID == "" {
		writeError(w, http.StatusBadRequest, "Note ID is required")
		return
	}
	created, err := s.store.Create(r.Context(), &n)
	if err != nil {
		if !errors.Is(err, notes.ErrExists) {
			s.logger.Error("create note", "id", n.ID, "err", err)
		}
		writeErr(w, err, "Failed to create note")
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var p notes.Patch
	if err := s.decode(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := s.store.Update(r.Context(), id, p)
	if errors.Is(err, notes.ErrNotFound) {
		notFound(w, id)
		return
	}
	if err != nil {
		s.logger.Error("update note", "id", id, "err", err)
		writeErr(w, err, "Failed to update note")
		return
	}
	writeData(w, http.StatusOK, n)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, notes.ErrNotFound) {
		notFound(w, id)
		return
	}
	if err != nil {
		s.logger.Error("delete note", "id", id, "err", err)
		writeErr(w, err, "Failed to delete note")
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: fmt.Sprintf("Note with ID %s deleted successfully", id),
	})
}
