package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_SnapshotIsolation(t *testing.T) {
	s := NewState("s1")
	s.History = append(s.History, "1+1 = 2")

	snap := s.Snapshot()
	snap.History[0] = "mutated"
	snap.Buffer = "9"

	assert.Equal(t, "1+1 = 2", s.History[0])
	assert.Equal(t, "", s.Buffer)
}

func TestNewState_Defaults(t *testing.T) {
	s := NewState("s1")

	assert.Equal(t, AngleDegrees, s.AngleMode)
	assert.Equal(t, ThemeLight, s.Theme)
	assert.Empty(t, s.History)
	assert.Zero(t, s.Memory)
}

func TestTheme_ToggleAndIcon(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeLight, Theme("").Toggle(), "unset theme becomes light")

	assert.Equal(t, "moon", ThemeLight.Icon())
	assert.Equal(t, "sun", ThemeDark.Icon())
}

func TestHistoryView_Lines(t *testing.T) {
	empty := HistoryView{Placeholder: HistoryPlaceholder}
	assert.Equal(t, []string{HistoryPlaceholder}, empty.Lines())

	full := HistoryView{Entries: []string{"2+2 = 4"}, Placeholder: HistoryPlaceholder}
	assert.Equal(t, []string{"2+2 = 4"}, full.Lines())
}
