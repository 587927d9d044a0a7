/*
Package runner implements the read-evaluate-print loop that drives a calculator
session from a line-oriented frontend.

The runner owns no calculation logic. It parses each input line (see ParseLine),
turns it into engine commands or key presses, passes commands through a
CommandInterceptor and hands the merged presentation requests to an IOHandler.
When a Store is configured the state is saved after every change.

# Key Components

  - Runner: the loop itself, with Ctrl+C clearing the buffer before it exits.
  - IOHandler: decouples how lines are read and frames are written.
  - TextHandler: interactive terminal usage with an optional markdown renderer.
  - JSONHandler: JSON-Lines usage for scripts and pipes.
  - RichResponse helpers: shared by the HTTP and MCP adapters.

# Usage

	r := runner.NewRunner(
		runner.WithEngine(engine),
		runner.WithSessionID("desk"),
		runner.WithStore(store),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
