package domain

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in      string
		arg     string
		want    Command
		wantErr bool
	}{
		{in: "evaluate", want: Command{Name: CmdEvaluate}},
		{in: "=", want: Command{Name: CmdEvaluate}},
		{in: "M+", want: Command{Name: CmdMemoryAdd}},
		{in: "mr", want: Command{Name: CmdMemoryRecall}},
		{in: "append", arg: "7", want: Command{Name: CmdAppend, Arg: "7"}},
		{in: "sqrt", want: Command{Name: CmdFunction, Arg: "sqrt"}},
		{in: "theme_toggle", want: Command{Name: CmdThemeToggle}},
		{in: "angle_toggle", want: Command{Name: CmdAngleToggle}},
		{in: "deg", want: Command{Name: CmdAngleSet, Arg: "deg"}},
		{in: "RAD", want: Command{Name: CmdAngleSet, Arg: "rad"}},
		{in: "angle_set", arg: "rad", want: Command{Name: CmdAngleSet, Arg: "rad"}},
		{in: "launch", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCommand(tt.in, tt.arg)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCommand) {
					t.Fatalf("expected ErrUnknownCommand, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
