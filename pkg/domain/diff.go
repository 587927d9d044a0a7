package domain

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Version uint64 `json:"version"`

	Buffer    *string    `json:"buffer,omitempty"`
	Memory    *Register  `json:"memory,omitempty"`
	AngleMode *AngleMode `json:"angle_mode,omitempty"`
	Theme     *Theme     `json:"theme,omitempty"`

	// History describes what happened to the (newest-first) history log.
	History *HistoryDelta `json:"history,omitempty"`
}

// HistoryDelta represents changes to the history log.
// Entries are prepended at the head; a clear or rewrite sends the full list.
type HistoryDelta struct {
	Prepended []string `json:"prepended,omitempty"`
	Reset     bool     `json:"reset,omitempty"`
	Entries   []string `json:"entries,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
		Version:   newState.Version,
	}

	if oldState == nil || oldState.Buffer != newState.Buffer {
		diff.Buffer = &newState.Buffer
	}
	// A NaN register compares equal to itself so a poisoned memory is not re-sent.
	if oldState == nil || !sameFloat(oldState.Memory, newState.Memory) {
		diff.Memory = &newState.Memory
	}
	if oldState == nil || oldState.AngleMode != newState.AngleMode {
		diff.AngleMode = &newState.AngleMode
	}
	if oldState == nil || oldState.Theme != newState.Theme {
		diff.Theme = &newState.Theme
	}

	diff.History = diffHistory(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func sameFloat(a, b Register) bool {
	if a != a && b != b {
		return true
	}
	return a == b
}

// diffHistory assumes head-insertion behaviour for History.
func diffHistory(old *State, new *State) *HistoryDelta {
	if old == nil {
		if len(new.History) == 0 {
			return nil
		}
		return &HistoryDelta{Reset: true, Entries: new.History}
	}

	oldLen := len(old.History)
	newLen := len(new.History)

	if newLen == oldLen && equalStrings(old.History, new.History) {
		return nil
	}

	if newLen > oldLen && equalStrings(old.History, new.History[newLen-oldLen:]) {
		return &HistoryDelta{Prepended: new.History[:newLen-oldLen]}
	}

	return &HistoryDelta{Reset: true, Entries: new.History}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Buffer == nil &&
		d.Memory == nil &&
		d.AngleMode == nil &&
		d.Theme == nil &&
		d.History == nil
}
