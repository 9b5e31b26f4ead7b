package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/rankine-core/internal/cycle"
)

// handleSolveCycle solves a cycle from a JSON Spec. The body is decoded
// over the reference plant: absent fields keep their reference value and
// explicit values, zero included, are validated as given. An empty body
// solves the reference plant.
func (s *Server) handleSolveCycle(w http.ResponseWriter, r *http.Request) {
	spec := cycle.DefaultSpec()
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	res, err := s.cycles.Solve(r.Context(), spec)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/cycles/"+res.ID)
	writeJSON(w, http.StatusCreated, res)
}

// handleListCycles returns recent runs, newest first.
func (s *Server) handleListCycles(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := s.cycles.List(r.Context(), limit)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cycles": runs,
		"count":  len(runs),
	})
}

// handleGetCycle returns one stored run.
func (s *Server) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	res, err := s.cycles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
