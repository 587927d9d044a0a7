package domain

import "strings"

// CommandName identifies a button-level operation.
type CommandName string

const (
	CmdAppend         CommandName = "append"
	CmdClear          CommandName = "clear"
	CmdBackspace      CommandName = "backspace"
	CmdEvaluate       CommandName = "evaluate"
	CmdPercent        CommandName = "percent"
	CmdPower          CommandName = "power"
	CmdFunction       CommandName = "function"
	CmdMemoryClear    CommandName = "memory_clear"
	CmdMemoryRecall   CommandName = "memory_recall"
	CmdMemoryAdd      CommandName = "memory_add"
	CmdMemorySubtract CommandName = "memory_subtract"
	CmdHistoryClear   CommandName = "history_clear"
	CmdThemeToggle    CommandName = "theme_toggle"
	CmdAngleToggle    CommandName = "angle_toggle"
	CmdAngleSet       CommandName = "angle_set"
)

// Command is a single user action coming from a button.
// Arg carries the token for CmdAppend, the function name for CmdFunction and
// the mode ("deg" or "rad") for CmdAngleSet.
type Command struct {
	Name CommandName `json:"name" mapstructure:"name"`
	Arg  string      `json:"arg,omitempty" mapstructure:"arg"`
}

// Functions lists the named unary functions a function button may insert.
var Functions = []string{"sin", "cos", "tan", "log", "ln", "sqrt"}

// IsFunction reports whether name is one of Functions.
func IsFunction(name string) bool {
	for _, f := range Functions {
		if f == name {
			return true
		}
	}
	return false
}

var commandAliases = map[string]CommandName{
	"=":   CmdEvaluate,
	"c":   CmdClear,
	"ac":  CmdClear,
	"del": CmdBackspace,
	"%":   CmdPercent,
	"pow": CmdPower,
	"mc":  CmdMemoryClear,
	"mr":  CmdMemoryRecall,
	"m+":  CmdMemoryAdd,
	"m-":  CmdMemorySubtract,
	"hc":  CmdHistoryClear,
}

var knownCommands = map[CommandName]struct{}{
	CmdAppend: {}, CmdClear: {}, CmdBackspace: {}, CmdEvaluate: {}, CmdPercent: {},
	CmdPower: {}, CmdFunction: {}, CmdMemoryClear: {}, CmdMemoryRecall: {},
	CmdMemoryAdd: {}, CmdMemorySubtract: {}, CmdHistoryClear: {},
	CmdThemeToggle: {}, CmdAngleToggle: {}, CmdAngleSet: {},
}

// ParseCommand resolves a command name or alias (e.g. "m+", "=") into a Command.
// A bare function name ("sin") becomes a CmdFunction command and a bare
// mode ("deg", "rad") selects that angle mode.
func ParseCommand(name, arg string) (Command, error) {
	clean := strings.ToLower(strings.TrimSpace(name))
	if mode := AngleMode(clean); mode.Valid() {
		return Command{Name: CmdAngleSet, Arg: string(mode)}, nil
	}
	if alias, ok := commandAliases[clean]; ok {
		return Command{Name: alias, Arg: arg}, nil
	}
	if IsFunction(clean) {
		return Command{Name: CmdFunction, Arg: clean}, nil
	}
	cmd := CommandName(clean)
	if _, ok := knownCommands[cmd]; !ok {
		return Command{}, &UnknownCommandError{Name: name}
	}
	return Command{Name: cmd, Arg: arg}, nil
}
