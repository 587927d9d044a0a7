package tui

import (
	"sync"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// Renderer renders markdown with a glamour style that follows the calculator theme.
type Renderer struct {
	mu       sync.Mutex
	width    int
	theme    domain.Theme
	renderer *glamour.TermRenderer
}

// NewRenderer returns a renderer for the given theme and word-wrap width.
func NewRenderer(theme domain.Theme, width int) (*Renderer, error) {
	r := &Renderer{width: width}
	if err := r.SetTheme(theme); err != nil {
		return nil, err
	}
	return r, nil
}

// SetTheme switches between the light and dark glamour styles.
func (r *Renderer) SetTheme(theme domain.Theme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderer != nil && r.theme == theme {
		return nil
	}
	style := "light"
	if theme == domain.ThemeDark {
		style = "dark"
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return err
	}
	r.theme = theme
	r.renderer = tr
	return nil
}

// Render renders markdown with the current style.
func (r *Renderer) Render(markdown string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderer.Render(markdown)
}

// Palette holds the display colours for one theme.
type Palette struct {
	Foreground string
	Background string
	Error      string
}

// Palettes maps each theme to its display colours.
var Palettes = map[domain.Theme]Palette{
	domain.ThemeLight: {Foreground: "#111827", Background: "#f3f4f6", Error: "#dc2626"},
	domain.ThemeDark:  {Foreground: "#f9fafb", Background: "#1f2937", Error: "#f87171"},
}

// DisplayStyler colours the display line for a theme using the given profile.
// The error marker is drawn in the theme's error colour.
func DisplayStyler(profile termenv.Profile) func(buffer string, theme domain.Theme) string {
	return func(buffer string, theme domain.Theme) string {
		pal, ok := Palettes[theme]
		if !ok {
			pal = Palettes[domain.ThemeLight]
		}
		fg := pal.Foreground
		if buffer == domain.ErrorMarker {
			fg = pal.Error
		}
		text := buffer
		if text == "" {
			text = "0"
		}
		return profile.String(" "+text+" ").
			Foreground(profile.Color(fg)).
			Background(profile.Color(pal.Background)).
			Bold().
			String()
	}
}
