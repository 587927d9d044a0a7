package runner

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
)

// RichResponse combines state and rendering actions for rich clients (Web, MCP, etc).
type RichResponse struct {
	State   *domain.State          `json:"state"`
	Actions []domain.ActionRequest `json:"actions,omitempty"`
	// Unhandled lists keys that had no binding.
	Unhandled []string `json:"unhandled,omitempty"`
}

// ApplyAndRender executes commands in order and merges the presentation requests.
func ApplyAndRender(ctx context.Context, calc ports.Calculator, state *domain.State, cmds ...domain.Command) (*RichResponse, error) {
	var batches [][]domain.ActionRequest
	for _, cmd := range cmds {
		next, actions, err := calc.Apply(ctx, state, cmd)
		if err != nil {
			return nil, err
		}
		state = next
		batches = append(batches, actions)
	}
	return &RichResponse{State: state, Actions: MergeActions(batches...)}, nil
}

// PressKeysAndRender feeds keys in order and merges the presentation requests.
func PressKeysAndRender(ctx context.Context, calc ports.Calculator, state *domain.State, keys ...string) *RichResponse {
	resp := &RichResponse{}
	var batches [][]domain.ActionRequest
	for _, key := range keys {
		next, actions, handled := calc.KeyPress(ctx, state, key)
		if !handled {
			resp.Unhandled = append(resp.Unhandled, key)
			continue
		}
		state = next
		batches = append(batches, actions)
	}
	resp.State = state
	resp.Actions = MergeActions(batches...)
	return resp
}

// TypeAndEvaluate types text (replacing the buffer unless cont is set) and presses "=".
func TypeAndEvaluate(ctx context.Context, calc ports.Calculator, state *domain.State, text string, cont bool) (*RichResponse, error) {
	cmds := make([]domain.Command, 0, 3)
	if !cont {
		cmds = append(cmds, domain.Command{Name: domain.CmdClear})
	}
	cmds = append(cmds,
		domain.Command{Name: domain.CmdAppend, Arg: text},
		domain.Command{Name: domain.CmdEvaluate},
	)
	return ApplyAndRender(ctx, calc, state, cmds...)
}

// MergeActions flattens batches, keeping only the latest request of each type
// in the order types were first seen. Hosts only care about the final frame.
func MergeActions(batches ...[]domain.ActionRequest) []domain.ActionRequest {
	var order []string
	latest := make(map[string]domain.ActionRequest)
	for _, batch := range batches {
		for _, act := range batch {
			if _, seen := latest[act.Type]; !seen {
				order = append(order, act.Type)
			}
			latest[act.Type] = act
		}
	}
	if len(order) == 0 {
		return nil
	}
	out := make([]domain.ActionRequest, 0, len(order))
	for _, typ := range order {
		out = append(out, latest[typ])
	}
	return out
}
