package domain

const (
	// ErrorMarker is the literal buffer content after a failed evaluation.
	ErrorMarker = "Error"

	// HistoryPlaceholder is shown by the history panel when the log is empty.
	HistoryPlaceholder = "Your calculations will appear here."
)
