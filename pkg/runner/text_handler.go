package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/abacus/pkg/domain"
)

// TextHandler implements the interactive terminal interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Styler   DisplayStyler
	// ShowHistory prints the history panel whenever it changes.
	ShowHistory bool
	// MaxInputSize overrides the sanitizer limit when positive.
	MaxInputSize int
	// OnTheme is called whenever an APPLY_THEME request arrives.
	OnTheme func(domain.Theme)

	theme     domain.Theme
	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer for the history panel.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerStyler configures how the display line is decorated.
func WithTextHandlerStyler(styler DisplayStyler) TextHandlerOption {
	return func(h *TextHandler) {
		h.Styler = styler
	}
}

// WithTextHandlerHistory toggles the history panel.
func WithTextHandlerHistory(show bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.ShowHistory = show
	}
}

// WithTextHandlerMaxInputSize sets the input size limit in bytes.
func WithTextHandlerMaxInputSize(limit int) TextHandlerOption {
	return func(h *TextHandler) {
		h.MaxInputSize = limit
	}
}

// WithTextHandlerThemeListener registers a callback for theme changes.
func WithTextHandlerThemeListener(fn func(domain.Theme)) TextHandlerOption {
	return func(h *TextHandler) {
		h.OnTheme = fn
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:      bufio.NewReader(r),
		Writer:      w,
		ShowHistory: true,
		theme:       domain.ThemeLight,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

// Output writes the display line, the history panel and theme changes.
func (h *TextHandler) Output(ctx context.Context, actions []domain.ActionRequest) error {
	// The theme is applied first so the display of the same frame uses it.
	for _, act := range actions {
		if act.Type != domain.ActionApplyTheme {
			continue
		}
		if view, ok := act.Payload.(domain.ThemeView); ok {
			h.theme = view.Theme
			if h.OnTheme != nil {
				h.OnTheme(view.Theme)
			}
			fmt.Fprintf(h.Writer, "[%s theme]\n", view.Theme)
		}
	}

	for _, act := range actions {
		switch act.Type {
		case domain.ActionRenderHistory:
			view, ok := act.Payload.(domain.HistoryView)
			if !ok || !h.ShowHistory {
				continue
			}
			h.writeMarkdown(HistoryMarkdown(view))
		case domain.ActionRenderDisplay:
			buffer, _ := act.Payload.(string)
			line := buffer
			if h.Styler != nil {
				line = h.Styler(buffer, h.theme)
			}
			fmt.Fprintf(h.Writer, "= %s\n", line)
		case domain.ActionSystemMessage:
			if msg, ok := act.Payload.(string); ok {
				_ = h.SystemOutput(ctx, msg)
			}
		}
	}
	return nil
}

func (h *TextHandler) writeMarkdown(md string) {
	out := md
	if h.Renderer != nil {
		if rendered, err := h.Renderer(md); err == nil {
			out = rendered
		}
	}
	fmt.Fprintln(h.Writer, strings.TrimRight(out, "\n"))
}

// Input prompts and returns the next sanitized line.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInputWithLimit(strings.TrimSpace(res.text), h.MaxInputSize)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// SystemOutput prints a meta-message with a prefix so it is not mistaken for a result.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}

// HistoryMarkdown renders the history panel as a markdown list, or the placeholder.
func HistoryMarkdown(view domain.HistoryView) string {
	var b strings.Builder
	b.WriteString("### History\n\n")
	if len(view.Entries) == 0 {
		b.WriteString("_" + view.Placeholder + "_\n")
		return b.String()
	}
	for _, entry := range view.Entries {
		b.WriteString("- `" + entry + "`\n")
	}
	return b.String()
}
