package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smartworkmark/seo-content-portal/internal/model"
	"github.com/smartworkmark/seo-content-portal/internal/savedfilters"
)

const maxFilterBody = 64 << 10

func (s *Server) handleListFilters(w http.ResponseWriter, r *http.Request) {
	kind := model.ContentKind(r.URL.Query().Get("contentType"))
	if kind == "" {
		s.writeJSON(w, http.StatusOK, s.filters.List(r.Context()))
		return
	}
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "invalid content type")
		return
	}
	s.writeJSON(w, http.StatusOK, s.filters.ListForContentType(r.Context(), kind))
}

func (s *Server) handleSaveFilter(w http.ResponseWriter, r *http.Request) {
	var nf savedfilters.NewFilter
	if !decodeBody(w, r, &nf) {
		return
	}

	f, err := s.filters.Save(r.Context(), nf)
	if err != nil {
		s.writeFilterError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleUpdateFilter(w http.ResponseWriter, r *http.Request) {
	var p savedfilters.Patch
	if !decodeBody(w, r, &p) {
		return
	}

	f, err := s.filters.Update(r.Context(), r.PathValue("id"), p)
	if err != nil {
		s.writeFilterError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleDeleteFilter(w http.ResponseWriter, r *http.Request) {
	if err := s.filters.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeFilterError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeFilterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, savedfilters.ErrEmptyName):
		writeError(w, http.StatusBadRequest, "Please enter a name")
	case errors.Is(err, savedfilters.ErrInvalidContentType),
		errors.Is(err, savedfilters.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, savedfilters.ErrNotFound):
		writeError(w, http.StatusNotFound, "Saved filter not found")
	default:
		s.logger.Error("saved filters", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update saved filters")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFilterBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
