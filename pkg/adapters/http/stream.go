package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/abacus/pkg/domain"
)

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Subscribe registers a buffered channel for a session. The returned func unsubscribes.
func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Subscribers returns the number of live subscriptions for a session.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast sends msg to every subscriber of the session without blocking.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// SubscribeEvents handles GET /events (SSE). Each event is a domain.StateDiff.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	params, err := bindEventsParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(params.SessionID)
	defer cancel()
	s.Logger.Info("SSE: subscribed", "session_id", params.SessionID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var watch []string
	if params.Watch != nil {
		watch = strings.Split(*params.Watch, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: client disconnected", "session_id", params.SessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !watched(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// watched reports whether the diff touches any of the named fields.
func watched(msg string, fields []string) bool {
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range fields {
		switch strings.TrimSpace(field) {
		case "buffer":
			if diff.Buffer != nil {
				return true
			}
		case "memory":
			if diff.Memory != nil {
				return true
			}
		case "angle_mode":
			if diff.AngleMode != nil {
				return true
			}
		case "theme":
			if diff.Theme != nil {
				return true
			}
		case "history":
			if diff.History != nil {
				return true
			}
		}
	}
	return false
}
