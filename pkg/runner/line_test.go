package runner

import (
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Step
	}{
		{"", Step{Kind: StepEvaluate}},
		{"   ", Step{Kind: StepEvaluate}},
		{"quit", Step{Kind: StepExit}},
		{":q", Step{Kind: StepExit}},
		{"?", Step{Kind: StepHelp}},
		{"2+2", Step{Kind: StepExpression, Text: "2+2"}},
		{"*3", Step{Kind: StepExpression, Text: "*3", Continue: true}},
		{"-1", Step{Kind: StepExpression, Text: "-1", Continue: true}},
		{"(1)", Step{Kind: StepExpression, Text: "(1)"}},
		{":m+", Step{Kind: StepCommand, Command: domain.Command{Name: domain.CmdMemoryAdd}}},
		{":sin", Step{Kind: StepCommand, Command: domain.Command{Name: domain.CmdFunction, Arg: "sin"}}},
		{":append 3.5", Step{Kind: StepCommand, Command: domain.Command{Name: domain.CmdAppend, Arg: "3.5"}}},
		{":key Escape", Step{Kind: StepKey, Key: "Escape"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine_Errors(t *testing.T) {
	_, err := ParseLine(":key")
	assert.Error(t, err)

	_, err = ParseLine(":nope")
	var unknown *domain.UnknownCommandError
	assert.ErrorAs(t, err, &unknown)
}
