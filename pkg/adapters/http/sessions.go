package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/runner"
)

// SessionResponse is returned by every session endpoint.
type SessionResponse = runner.RichResponse

// CreateSessionRequest is the optional body of POST /sessions.
type CreateSessionRequest struct {
	ID        string           `json:"id,omitempty"`
	AngleMode domain.AngleMode `json:"angle_mode,omitempty"`
	Theme     domain.Theme     `json:"theme,omitempty"`
}

// CommandsRequest is the body of POST /sessions/{id}/commands.
type CommandsRequest struct {
	Commands []domain.Command `json:"commands"`
}

// KeysRequest is the body of POST /sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// ExpressionRequest is the body of POST /sessions/{id}/expression.
type ExpressionRequest struct {
	Expression string `json:"expression"`
	Continue   bool   `json:"continue,omitempty"`
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	Expression string           `json:"expression"`
	AngleMode  domain.AngleMode `json:"angle_mode,omitempty"`
}

// EvaluateResponse is the body returned by POST /evaluate.
type EvaluateResponse struct {
	Expression string           `json:"expression"`
	Result     string           `json:"result"`
	AngleMode  domain.AngleMode `json:"angle_mode,omitempty"`
}

var errSessionExists = errors.New("session already exists")

func (s *Server) sanitize(input string) (string, error) {
	return runner.SanitizeInputWithLimit(input, s.maxInputSize)
}

func decode(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// Evaluate handles POST /evaluate. No session is touched.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	expr, err := s.sanitize(body.Expression)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.Engine.Calculate(r.Context(), expr, body.AngleMode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, EvaluateResponse{Expression: expr, Result: result, AngleMode: body.AngleMode})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles POST /sessions. A random ID is assigned unless one is given.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	id := body.ID
	if id == "" {
		id = s.newID()
	}

	var state *domain.State
	err := s.Sessions.WithLock(r.Context(), id, func(ctx context.Context) error {
		if _, err := s.Sessions.Store().Load(ctx, id); err == nil {
			return errSessionExists
		} else if !errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}
		state = s.Engine.Start(ctx, id)
		if body.AngleMode != "" {
			state.AngleMode = body.AngleMode
		}
		if body.Theme != "" {
			state.Theme = body.Theme
		}
		return s.Sessions.Store().Save(ctx, id, state)
	})
	if errors.Is(err, errSessionExists) {
		s.writeError(w, http.StatusConflict, fmt.Errorf("%w: %s", err, id))
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.Logger.Info("session created", "session_id", id)
	s.writeJSON(w, http.StatusCreated, SessionResponse{State: state, Actions: s.Engine.Render(r.Context(), state)})
}

// GetSession handles GET /sessions/{id}. It returns the full render.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
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
	s.writeJSON(w, http.StatusOK, SessionResponse{State: state, Actions: s.Engine.Render(r.Context(), state)})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.Logger.Info("session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ApplyCommands handles POST /sessions/{id}/commands. Unknown sessions are started.
func (s *Server) ApplyCommands(w http.ResponseWriter, r *http.Request) {
	var body CommandsRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	for i, cmd := range body.Commands {
		arg, err := s.sanitize(cmd.Arg)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		body.Commands[i].Arg = arg
	}
	s.update(w, r, func(ctx context.Context, state *domain.State) (*SessionResponse, error) {
		return runner.ApplyAndRender(ctx, s.Engine, state, body.Commands...)
	})
}

// PressKeys handles POST /sessions/{id}/keys.
func (s *Server) PressKeys(w http.ResponseWriter, r *http.Request) {
	var body KeysRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.update(w, r, func(ctx context.Context, state *domain.State) (*SessionResponse, error) {
		return runner.PressKeysAndRender(ctx, s.Engine, state, body.Keys...), nil
	})
}

// TypeExpression handles POST /sessions/{id}/expression.
func (s *Server) TypeExpression(w http.ResponseWriter, r *http.Request) {
	var body ExpressionRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	expr, err := s.sanitize(body.Expression)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.update(w, r, func(ctx context.Context, state *domain.State) (*SessionResponse, error) {
		return runner.TypeAndEvaluate(ctx, s.Engine, state, expr, body.Continue)
	})
}

// update runs fn under the session lock, persists the result and broadcasts the diff.
func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(context.Context, *domain.State) (*SessionResponse, error)) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var (
		old  *domain.State
		resp *SessionResponse
	)
	_, err = s.Sessions.Update(r.Context(), id, func(current *domain.State) (*domain.State, error) {
		old = current
		var err error
		resp, err = fn(r.Context(), current)
		if err != nil {
			return nil, err
		}
		return resp.State, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if diff := domain.Diff(old, resp.State); diff != nil {
		if data, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(id, string(data))
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}
