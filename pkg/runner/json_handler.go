package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/abacus/pkg/domain"
)

// JSONHandler implements the IOHandler interface for JSON-Lines communication.
//
// Each output is one line holding the array of actions. Each input line is
// either a JSON string, raw text in the runner line syntax, or an object:
//
//	{"expr": "2+2"}  {"command": "m+"}  {"command": "append", "arg": "3"}  {"key": "Escape"}
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
	// MaxInputSize overrides the sanitizer limit when positive.
	MaxInputSize int

	mu sync.Mutex
}

// JSONHandlerOption configures a JSONHandler.
type JSONHandlerOption func(*JSONHandler)

// WithJSONHandlerMaxInputSize sets the input size limit in bytes.
func WithJSONHandlerMaxInputSize(limit int) JSONHandlerOption {
	return func(h *JSONHandler) {
		h.MaxInputSize = limit
	}
}

// JSONInput is the object form of an input line.
type JSONInput struct {
	Expr    string `json:"expr,omitempty"`
	Command string `json:"command,omitempty"`
	Arg     string `json:"arg,omitempty"`
	Key     string `json:"key,omitempty"`
}

// Line converts the object into the runner line syntax.
func (in JSONInput) Line() (string, error) {
	switch {
	case in.Key != "":
		return ":key " + in.Key, nil
	case in.Command != "":
		if in.Arg != "" {
			return ":" + in.Command + " " + in.Arg, nil
		}
		return ":" + in.Command, nil
	case in.Expr != "":
		return in.Expr, nil
	}
	return "", fmt.Errorf("empty input object")
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer, opts ...JSONHandlerOption) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Output emits the actions as a single JSON line.
func (h *JSONHandler) Output(ctx context.Context, actions []domain.ActionRequest) error {
	if len(actions) == 0 {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(actions)
}

// Input reads one line and normalises it to the runner line syntax.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var line string
	switch {
	case strings.HasPrefix(text, "{"):
		var in JSONInput
		if err := json.Unmarshal([]byte(text), &in); err != nil {
			return "", fmt.Errorf("invalid input object: %w", err)
		}
		if line, err = in.Line(); err != nil {
			return "", err
		}
	case strings.HasPrefix(text, `"`):
		if err := json.Unmarshal([]byte(text), &line); err != nil {
			line = text
		}
	default:
		line = text
	}
	return SanitizeInputWithLimit(line, h.MaxInputSize)
}

// SystemOutput emits a SYSTEM_MESSAGE action.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Output(ctx, []domain.ActionRequest{{Type: domain.ActionSystemMessage, Payload: msg}})
}
