/*
Package abacus is a scientific calculator engine built for hosts that keep session state elsewhere.

A calculator session is an explicit value, *domain.State: an input buffer, a memory
register, a newest-first history log, an angle mode and a theme. Every operation takes
a state and returns a new one together with the presentation requests (render the
display, render the history panel, apply the theme) a host must honour. Expressions are
tokenized and parsed into a typed tree; nothing is ever executed as code.

# Key Features

  - Button commands and keyboard events map to the same operations.
  - Degree and radian modes for sin, cos and tan.
  - A memory register and a history log with an empty-state placeholder.
  - Adapters to persist sessions (memory, file, Redis) and to serve them (terminal, HTTP, MCP).

# Usage

	eng, err := abacus.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state := eng.Start(ctx, "session-123")

	for _, key := range []string{"2", "+", "2", "Enter"} {
		var actions []domain.ActionRequest
		state, actions, _ = eng.KeyPress(ctx, state, key)
		for _, act := range actions {
			log.Println("Action:", act.Type, act.Payload)
		}
	}
	// state.Buffer == "4", state.History == []string{"2+2 = 4"}
*/
package abacus
