package domain

import "time"

// AngleMode selects how trigonometric arguments are interpreted.
type AngleMode string

const (
	AngleDegrees AngleMode = "deg"
	AngleRadians AngleMode = "rad"
)

// Valid reports whether m is a known angle mode.
func (m AngleMode) Valid() bool {
	return m == AngleDegrees || m == AngleRadians
}

// Toggle returns the opposite angle mode.
func (m AngleMode) Toggle() AngleMode {
	if m == AngleRadians {
		return AngleDegrees
	}
	return AngleRadians
}

// Theme is the binary presentation attribute applied at the document root.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme. Anything that is not light becomes light.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Icon returns the icon shown on the theme switcher for this theme.
func (t Theme) Icon() string {
	if t == ThemeLight {
		return "moon"
	}
	return "sun"
}

// State represents the current snapshot of a calculator session.
type State struct {
	// SessionID identifies the session this state belongs to.
	SessionID string `json:"session_id"`

	// Buffer is the editable textual expression (or the last result / error marker).
	Buffer string `json:"buffer"`

	// Memory is the single numeric register.
	Memory Register `json:"memory"`

	// History holds completed "expression = result" entries, newest first.
	History []string `json:"history"`

	AngleMode AngleMode `json:"angle_mode"`
	Theme     Theme     `json:"theme"`

	// Version increments on every mutation.
	Version   uint64    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries an encrypted copy of a state at rest. Live states leave it empty.
	Sealed string `json:"sealed,omitempty"`
}

// NewState creates a clean calculator state.
func NewState(sessionID string) *State {
	return &State{
		SessionID: sessionID,
		History:   []string{},
		AngleMode: AngleDegrees,
		Theme:     ThemeLight,
	}
}

// Snapshot creates a deep copy of the state for safe mutation.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.History = make([]string, len(s.History))
	copy(next.History, s.History)
	return &next
}

// IsError reports whether the buffer holds the evaluation error marker.
func (s *State) IsError() bool {
	return s.Buffer == ErrorMarker
}
