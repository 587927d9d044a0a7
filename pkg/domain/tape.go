package domain

import "time"

// Tape is an archived copy of a session's history log, like the paper roll of
// a desk calculator.
type Tape struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	AngleMode AngleMode `json:"angle_mode"`
	Memory    Register  `json:"memory"`
	// Entries are kept in history order, newest first.
	Entries []string `json:"entries"`
}

// NewTape captures the history of s.
func NewTape(id string, s *State, at time.Time) *Tape {
	entries := make([]string, len(s.History))
	copy(entries, s.History)
	return &Tape{
		ID:        id,
		SessionID: s.SessionID,
		CreatedAt: at,
		AngleMode: s.AngleMode,
		Memory:    s.Memory,
		Entries:   entries,
	}
}
