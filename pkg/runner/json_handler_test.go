package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Input(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Raw text", "2+2", "2+2"},
		{"JSON string", `"sqrt(9)"`, "sqrt(9)"},
		{"Expression object", `{"expr":"1/3"}`, "1/3"},
		{"Command object", `{"command":"m+"}`, ":m+"},
		{"Command with argument", `{"command":"append","arg":"7"}`, ":append 7"},
		{"Key object", `{"key":"Backspace"}`, ":key Backspace"},
		{"No trailing newline", `{"key":"Enter"}`, ":key Enter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewJSONHandler(strings.NewReader(tt.in+"\n"), &bytes.Buffer{})
			got, err := h.Input(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONHandler_InputSizeLimit(t *testing.T) {
	h := NewJSONHandler(strings.NewReader(`{"expr":"123456"}`+"\n2+2\n"), &bytes.Buffer{},
		WithJSONHandlerMaxInputSize(4))

	_, err := h.Input(context.Background())
	assert.ErrorIs(t, err, ErrInputTooLarge)

	got, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2+2", got)
}

func TestJSONHandler_InputErrors(t *testing.T) {
	h := NewJSONHandler(strings.NewReader("{}\n{broken\n"), &bytes.Buffer{})

	_, err := h.Input(context.Background())
	assert.Error(t, err)

	_, err = h.Input(context.Background())
	assert.ErrorContains(t, err, "invalid input object")
}

func TestJSONHandler_Output(t *testing.T) {
	var out bytes.Buffer
	h := NewJSONHandler(strings.NewReader(""), &out)
	ctx := context.Background()

	require.NoError(t, h.Output(ctx, nil))
	assert.Empty(t, out.String())

	require.NoError(t, h.Output(ctx, []domain.ActionRequest{{Type: domain.ActionRenderDisplay, Payload: "42"}}))
	require.NoError(t, h.SystemOutput(ctx, "hello"))

	assert.Equal(t,
		`[{"type":"RENDER_DISPLAY","payload":"42"}]`+"\n"+`[{"type":"SYSTEM_MESSAGE","payload":"hello"}]`+"\n",
		out.String())
}
