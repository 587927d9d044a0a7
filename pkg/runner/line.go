package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// StepKind classifies one line of runner input.
type StepKind int

const (
	// StepEvaluate presses "=" on the current buffer (empty line).
	StepEvaluate StepKind = iota
	// StepExpression types text and presses "=".
	StepExpression
	// StepCommand presses a button (":m+", ":sin", ":append 3").
	StepCommand
	// StepKey presses a physical key (":key Escape").
	StepKey
	// StepHelp prints the line syntax.
	StepHelp
	// StepExit ends the session.
	StepExit
)

// Step is a parsed input line.
type Step struct {
	Kind    StepKind
	Text    string
	Command domain.Command
	Key     string
	// Continue is true when Text starts with an operator and extends the current buffer.
	Continue bool
}

// continuationOperators let a line build on the previous result ("+3" after "4").
const continuationOperators = "+-*/^"

// ParseLine turns a line into a Step.
//
//	(empty)        evaluate the buffer
//	2+2            replace the buffer, then evaluate
//	*3             append to the buffer, then evaluate
//	:m+  :mc  :hc  button commands and aliases, optionally with an argument
//	:key Escape    a physical key
//	:help  exit  quit
func ParseLine(line string) (Step, error) {
	text := strings.TrimSpace(line)
	switch text {
	case "":
		return Step{Kind: StepEvaluate}, nil
	case "exit", "quit", ":q", ":quit", ":exit":
		return Step{Kind: StepExit}, nil
	case ":help", "?", "help":
		return Step{Kind: StepHelp}, nil
	}

	if !strings.HasPrefix(text, ":") {
		return Step{
			Kind:     StepExpression,
			Text:     text,
			Continue: strings.ContainsRune(continuationOperators, rune(text[0])),
		}, nil
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(text, ":"), " ")
	arg = strings.TrimSpace(arg)
	if name == "key" {
		if arg == "" {
			return Step{}, fmt.Errorf(":key needs a key name")
		}
		return Step{Kind: StepKey, Key: arg}, nil
	}

	cmd, err := domain.ParseCommand(name, arg)
	if err != nil {
		return Step{}, err
	}
	return Step{Kind: StepCommand, Command: cmd}, nil
}

// HelpText documents the line syntax.
const HelpText = `Type an expression and press Enter to evaluate it (e.g. 2^10, sin(90), sqrt(2)*pi).
Start a line with an operator to continue from the result (e.g. *3).
An empty line evaluates the current buffer.

Commands:
  :c  :del  :%  :pow           clear, backspace, percent, insert ^
  :sin :cos :tan :log :ln :sqrt insert a function
  :mc :mr :m+ :m-              memory clear, recall, add, subtract
  :hc                          clear history
  :theme_toggle  :angle_toggle toggle theme, toggle degrees/radians
  :deg  :rad                   select degrees or radians
  :append <text>               type text without evaluating
  :key <name>                  press a key (Enter, Backspace, Escape, digits, operators)
  exit                         quit`
