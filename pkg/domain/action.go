package domain

// ActionRequest represents a side-effect that the engine requests the host to perform.
type ActionRequest struct {
	Type    string `json:"type"`    // e.g., "RENDER_DISPLAY", "APPLY_THEME"
	Payload any    `json:"payload"` // The data needed to perform the action
}

// Standard Action Types
const (
	// ActionRenderDisplay requests the host to show the buffer.
	// Payload: string
	ActionRenderDisplay = "RENDER_DISPLAY"

	// ActionRenderHistory requests the host to redraw the history panel.
	// Payload: HistoryView
	ActionRenderHistory = "RENDER_HISTORY"

	// ActionApplyTheme requests the host to switch the document theme.
	// Payload: ThemeView
	ActionApplyTheme = "APPLY_THEME"

	// ActionSystemMessage represents a meta-message from the system (status, etc).
	// Payload: string
	ActionSystemMessage = "SYSTEM_MESSAGE"
)

// HistoryView is the payload of ActionRenderHistory.
// When Entries is empty, Placeholder must be shown instead.
type HistoryView struct {
	Entries     []string `json:"entries"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Lines returns what the panel displays: the entries, or the placeholder.
func (v HistoryView) Lines() []string {
	if len(v.Entries) == 0 {
		return []string{v.Placeholder}
	}
	return v.Entries
}

// ThemeView is the payload of ActionApplyTheme.
type ThemeView struct {
	Theme Theme  `json:"theme"`
	Icon  string `json:"icon"`
}
