/*
Package domain contains the core domain models of the abacus calculator engine.

It defines the calculator state, the commands and keys that drive it, and the
render requests a presentation layer must honour. This package is kept pure and
free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - State: the snapshot of a calculator session (Buffer, Memory, History, AngleMode, Theme).
  - Command: a button-level operation (append, evaluate, memory_add, ...).
  - ActionRequest: a structural representation of what the host should render.
  - StateDiff: the minimal change between two states, for streaming clients.
*/
package domain
