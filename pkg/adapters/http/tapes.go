package http

import (
	"errors"
	"net/http"

	"github.com/aretw0/abacus/pkg/domain"
)

var errNoArchive = errors.New("no tape archive configured")

// ArchiveTape handles POST /sessions/{id}/tapes.
func (s *Server) ArchiveTape(w http.ResponseWriter, r *http.Request) {
	if s.Archive == nil {
		s.writeError(w, http.StatusNotImplemented, errNoArchive)
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	state, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	tape := domain.NewTape(s.newID(), state, s.now())
	if err := s.Archive.Save(r.Context(), tape); err != nil {
		s.fail(w, r, err)
		return
	}
	s.Logger.Info("tape archived", "session_id", id, "tape_id", tape.ID, "entries", len(tape.Entries))
	s.writeJSON(w, http.StatusCreated, tape)
}

// ListTapes handles GET /tapes.
func (s *Server) ListTapes(w http.ResponseWriter, r *http.Request) {
	if s.Archive == nil {
		s.writeError(w, http.StatusNotImplemented, errNoArchive)
		return
	}
	tapes, err := s.Archive.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if tapes == nil {
		tapes = []*domain.Tape{}
	}
	s.writeJSON(w, http.StatusOK, tapes)
}

// GetTape handles GET /tapes/{id}.
func (s *Server) GetTape(w http.ResponseWriter, r *http.Request) {
	if s.Archive == nil {
		s.writeError(w, http.StatusNotImplemented, errNoArchive)
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	tape, err := s.Archive.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tape)
}
