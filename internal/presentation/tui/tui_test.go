package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayStyler_ASCIIProfile(t *testing.T) {
	style := DisplayStyler(termenv.Ascii)

	assert.Equal(t, " 42 ", style("42", domain.ThemeDark))
	assert.Equal(t, " 0 ", style("", domain.ThemeLight))
}

func TestDisplayStyler_ColorProfile(t *testing.T) {
	style := DisplayStyler(termenv.TrueColor)

	light := style("Error", domain.ThemeLight)
	dark := style("Error", domain.ThemeDark)
	assert.Contains(t, light, "Error")
	assert.NotEqual(t, light, dark)
	assert.Contains(t, light, "\x1b[")
}

func TestRenderer_SwitchesTheme(t *testing.T) {
	r, err := NewRenderer(domain.ThemeLight, 60)
	require.NoError(t, err)

	out, err := r.Render("- `2+2 = 4`")
	require.NoError(t, err)
	assert.Contains(t, out, "2+2")

	require.NoError(t, r.SetTheme(domain.ThemeDark))
	out, err = r.Render("- `1+1 = 2`")
	require.NoError(t, err)
	assert.Contains(t, out, "1+1")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0")
	assert.Contains(t, buf.String(), "v0.1.0")
}
